package config

import "time"

type Ollama struct {
	BaseURL        string        `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	Model          string        `env:"OLLAMA_MODEL" envDefault:"llama3.2"`
	EmbeddingModel string        `env:"OLLAMA_EMBEDDING_MODEL" envDefault:"all-minilm"`
	Timeout        time.Duration `env:"OLLAMA_TIMEOUT" envDefault:"2m"`
	APIKey         string        `env:"OLLAMA_API_KEY" json:"-"`
}
