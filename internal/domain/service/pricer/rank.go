package pricer

import (
	"time"

	"dealradar/internal/domain/entity"
)

// Rank pairs a deal with its estimate into an immutable Opportunity.
// The discount signal is estimate minus listed price; threshold gating is
// deliberately left to the caller so the alert bar stays configurable.
func Rank(deal entity.Deal, estimate float64) entity.Opportunity {
	return entity.Opportunity{
		Deal:      deal,
		Estimate:  estimate,
		Discount:  estimate - deal.Price,
		CreatedAt: time.Now(),
	}
}
