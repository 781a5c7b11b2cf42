package server

import (
	"dealradar/internal/domain/entity"
	"dealradar/pkg/lox"
	"dealradar/pkg/rest"
)

func newRESTOpportunity(opp entity.Opportunity) rest.Opportunity {
	return rest.Opportunity{
		URL:         opp.Deal.URL,
		Description: opp.Deal.ProductDescription,
		Price:       opp.Deal.Price,
		Estimate:    opp.Estimate,
		Discount:    opp.Discount,
		CreatedAt:   opp.CreatedAt,
	}
}

func newRESTOpportunityList(opps []entity.Opportunity) rest.OpportunityList {
	return rest.OpportunityList{
		Opportunities: lox.Map(opps, newRESTOpportunity),
	}
}
