package entity

import "time"

// Opportunity ties a normalized deal to a model-estimated fair price.
// Never mutated after construction; handed to the alerting collaborator
// once the surrounding system's discount threshold approves it.
type Opportunity struct {
	Deal      Deal
	Estimate  float64
	Discount  float64 // Estimate - Deal.Price
	CreatedAt time.Time
}
