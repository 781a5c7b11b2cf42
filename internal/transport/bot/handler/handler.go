package handler

import (
	"context"

	"dealradar/internal/domain/entity"
	"dealradar/internal/worker"
)

type OpportunityRepository interface {
	List(ctx context.Context, limit, offset int) ([]entity.Opportunity, error)
}

type Handler struct {
	repo    OpportunityRepository
	scanner *worker.DealScanner

	// appCtx outlives any single update; scan cycles started from a
	// command must not die with the update's context.
	appCtx context.Context
}

func New(appCtx context.Context, repo OpportunityRepository, scanner *worker.DealScanner) *Handler {
	return &Handler{
		repo:    repo,
		scanner: scanner,
		appCtx:  appCtx,
	}
}
