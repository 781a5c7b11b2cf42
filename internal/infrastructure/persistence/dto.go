package persistence

import (
	"time"

	"dealradar/internal/domain/entity"
)

// opportunitySchema maps a row of the opportunities table.
type opportunitySchema struct {
	ID          int64     `db:"id"`
	URL         string    `db:"url"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	Estimate    float64   `db:"estimate"`
	Discount    float64   `db:"discount"`
	CreatedAt   time.Time `db:"created_at"`
}

func (s *opportunitySchema) toDomain() entity.Opportunity {
	return entity.Opportunity{
		Deal: entity.Deal{
			ProductDescription: s.Description,
			Price:              s.Price,
			URL:                s.URL,
		},
		Estimate:  s.Estimate,
		Discount:  s.Discount,
		CreatedAt: s.CreatedAt,
	}
}
