package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"dealradar/internal/domain"
	"dealradar/internal/domain/entity"
	"dealradar/pkg/errcodes"
	"dealradar/pkg/httpx/reply"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type opportunityRepository interface {
	List(ctx context.Context, limit, offset int) ([]entity.Opportunity, error)
	GetByURL(ctx context.Context, url string) (entity.Opportunity, error)
}

type OpportunityServer struct {
	repo opportunityRepository
}

func NewOpportunityServer(repo opportunityRepository) OpportunityServer {
	return OpportunityServer{
		repo: repo,
	}
}

func (s OpportunityServer) getV1Opportunities(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, offset, err := paging(r)
	if err != nil {
		return err
	}

	opps, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("repo.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTOpportunityList(opps))

	return nil
}

func (s OpportunityServer) getV1OpportunityByURL(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	url := r.URL.Query().Get("url")
	if url == "" {
		return failure.NewInvalidArgumentError(
			"url query parameter is required",
			failure.WithCode(errcodes.ValidationError),
		)
	}

	opp, err := s.repo.GetByURL(ctx, url)
	if err != nil {
		if code, ok := domain.GetCode(err); ok && code == errcodes.OpportunityNotFound {
			return failure.NewNotFoundError(
				"opportunity not found",
				failure.WithCode(errcodes.OpportunityNotFound),
			)
		}
		return fmt.Errorf("repo.GetByURL: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTOpportunity(opp))

	return nil
}

func paging(r *http.Request) (limit, offset int, err error) {
	limit = defaultListLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxListLimit {
			return 0, 0, failure.NewInvalidArgumentError(
				fmt.Sprintf("limit must be an integer in [1, %d]", maxListLimit),
				failure.WithCode(errcodes.InvalidPaging),
			)
		}
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, failure.NewInvalidArgumentError(
				"offset must be a non-negative integer",
				failure.WithCode(errcodes.InvalidPaging),
			)
		}
	}

	return limit, offset, nil
}
