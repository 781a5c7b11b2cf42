// This file mirrors the REST surface; regenerate it if the API ever gets
// an openapi spec.
package rest

import "time"

// Opportunity is the REST shape of a surfaced deal.
type Opportunity struct {
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Estimate    float64   `json:"estimate"`
	Discount    float64   `json:"discount"`
	CreatedAt   time.Time `json:"created_at"`
}

// OpportunityList is the response of the listing endpoint.
type OpportunityList struct {
	Opportunities []Opportunity `json:"opportunities"`
}

// Error Error model
type Error struct {
	// Code Error code
	Code ErrorCode `json:"code"`

	// Message Human-readable message
	Message string `json:"message"`
}

// ErrorCode Error code
type ErrorCode string
