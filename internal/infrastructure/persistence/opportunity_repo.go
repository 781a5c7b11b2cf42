package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"dealradar/internal/domain"
	"dealradar/internal/domain/entity"
	"dealradar/pkg/errcodes"
	"dealradar/pkg/lox"
)

type OpportunityRepository struct {
	db *sqlx.DB
}

// NewOpportunityRepository creates a repository over the opportunities table.
func NewOpportunityRepository(db *sqlx.DB) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

// withTx runs fn inside a transaction.
func (r *OpportunityRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Create persists a single surfaced opportunity.
func (r *OpportunityRepository) Create(ctx context.Context, opp entity.Opportunity) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		return r.createTx(ctx, tx, opp)
	})
}

// CreateBatch persists a scan cycle's opportunities atomically.
func (r *OpportunityRepository) CreateBatch(ctx context.Context, opps []entity.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		for i, opp := range opps {
			if err := r.createTx(ctx, tx, opp); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError,
					fmt.Sprintf("failed at index %d", i))
			}
		}
		return nil
	})
}

// createTx inserts one opportunity within a transaction. A repeated URL is
// treated as already-surfaced and skipped rather than failing the batch.
func (r *OpportunityRepository) createTx(ctx context.Context, tx *sqlx.Tx, opp entity.Opportunity) error {
	createdAt := opp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO opportunities (url, description, price, estimate, discount, created_at)
		VALUES (:url, :description, :price, :estimate, :discount, :created_at)
		ON CONFLICT (url) DO NOTHING`

	params := map[string]any{
		"url":         opp.Deal.URL,
		"description": opp.Deal.ProductDescription,
		"price":       opp.Deal.Price,
		"estimate":    opp.Estimate,
		"discount":    opp.Discount,
		"created_at":  createdAt,
	}

	if _, err := tx.NamedExecContext(ctx, query, params); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert opportunity")
	}

	return nil
}

// GetByURL returns the opportunity surfaced for a deal URL.
func (r *OpportunityRepository) GetByURL(ctx context.Context, url string) (entity.Opportunity, error) {
	query := `
		SELECT id, url, description, price, estimate, discount, created_at
		FROM opportunities
		WHERE url = $1`

	var schema opportunitySchema
	if err := r.db.GetContext(ctx, &schema, query, url); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Opportunity{}, domain.NewError(errcodes.OpportunityNotFound, "opportunity not found")
		}
		return entity.Opportunity{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get opportunity")
	}

	return schema.toDomain(), nil
}

// List returns surfaced opportunities, newest first.
func (r *OpportunityRepository) List(ctx context.Context, limit, offset int) ([]entity.Opportunity, error) {
	query := `
		SELECT id, url, description, price, estimate, discount, created_at
		FROM opportunities
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	var schemas []opportunitySchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list opportunities")
	}

	return lox.Map(schemas, func(s opportunitySchema) entity.Opportunity {
		return s.toDomain()
	}), nil
}

// KnownURLs returns every URL an opportunity has ever been surfaced for.
// The scanner uses the result to drop already-seen deals before selection.
func (r *OpportunityRepository) KnownURLs(ctx context.Context) ([]string, error) {
	query := `SELECT url FROM opportunities`

	var urls []string
	if err := r.db.SelectContext(ctx, &urls, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to load known urls")
	}

	return urls, nil
}

// Exists reports whether a deal URL has already been surfaced.
func (r *OpportunityRepository) Exists(ctx context.Context, url string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM opportunities WHERE url = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, url); err != nil {
		return false, domain.WrapError(err, errcodes.InternalServerError, "failed to check opportunity existence")
	}

	return exists, nil
}
