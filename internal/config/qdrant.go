package config

import "time"

type Qdrant struct {
	URL        string        `env:"QDRANT_URL" envDefault:"http://localhost:6333"`
	Collection string        `env:"QDRANT_COLLECTION" envDefault:"prices"`
	VectorSize int           `env:"QDRANT_VECTOR_SIZE" envDefault:"384"`
	Timeout    time.Duration `env:"QDRANT_TIMEOUT" envDefault:"30s"`
	APIKey     string        `env:"QDRANT_API_KEY" json:"-"`
}
