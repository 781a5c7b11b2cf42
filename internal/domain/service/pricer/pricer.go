package pricer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dealradar/internal/domain"
	"dealradar/internal/domain/entity"
	"dealradar/internal/domain/value"
	"dealradar/pkg/errcodes"
	"dealradar/pkg/retry"
)

const (
	defaultNeighbors  = 5
	defaultAttempts   = 8
	defaultRetryDelay = 2 * time.Second
)

// Encoder maps a product description to a fixed-dimension vector in the same
// coordinate space the similarity index was built with.
type Encoder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Index is the nearest-neighbor store of historically priced items.
type Index interface {
	Search(ctx context.Context, vector []float64, k int) ([]entity.SimilarItem, error)
}

// Generator is the free-text generative model used for estimation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Estimator predicts a fair market price for a product description by
// grounding a generative model with similar historically priced items.
type Estimator struct {
	enc        Encoder
	index      Index
	gen        Generator
	neighbors  int
	attempts   int
	retryDelay time.Duration
}

func New(enc Encoder, index Index, gen Generator) *Estimator {
	return &Estimator{
		enc:        enc,
		index:      index,
		gen:        gen,
		neighbors:  defaultNeighbors,
		attempts:   defaultAttempts,
		retryDelay: defaultRetryDelay,
	}
}

func (e *Estimator) WithAttempts(attempts int) *Estimator {
	if attempts > 0 {
		e.attempts = attempts
	}
	return e
}

func (e *Estimator) WithRetryDelay(delay time.Duration) *Estimator {
	e.retryDelay = delay
	return e
}

// EstimatePrice returns the model's predicted fair price for the description.
// Failure after the retry budget is an explicit error, never a zero price:
// a disguised 0.0 would corrupt downstream discount math.
func (e *Estimator) EstimatePrice(ctx context.Context, description string) (float64, error) {
	similars, err := e.findSimilars(ctx, description)
	if err != nil {
		return 0, err
	}

	logger(ctx).Debug("estimating price",
		"neighbors", len(similars),
		"attempts", e.attempts,
	)

	prompt := buildPrompt(description, similars)

	reply, err := retry.Do(ctx, e.attempts, e.retryDelay, func(ctx context.Context) (string, error) {
		return e.gen.Generate(ctx, prompt)
	})
	if err != nil {
		return 0, domain.WrapError(err, errcodes.EstimateFailed, "estimation call failed")
	}

	price, err := value.ExtractPrice(reply)
	if err != nil {
		logger(ctx).Error("estimation reply has no price",
			"error", err,
			"raw_reply", reply,
		)
		return 0, domain.WrapError(err, errcodes.EstimateFailed, "estimation reply has no price")
	}

	return price, nil
}

func (e *Estimator) findSimilars(ctx context.Context, description string) ([]entity.SimilarItem, error) {
	vector, err := e.enc.Embed(ctx, description)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.ProviderUnavailable, "embed description")
	}

	similars, err := e.index.Search(ctx, vector, e.neighbors)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.ProviderUnavailable, "similarity search")
	}

	return similars, nil
}

// buildPrompt assembles the grounded conversation: system instruction,
// retrieved comparables as few-shot context, the question, and a trailing
// assistant turn already containing "Price is $" so the continuation is
// expected to be a bare numeric tail rather than a paragraph.
func buildPrompt(description string, similars []entity.SimilarItem) string {
	var b strings.Builder

	b.WriteString("System: You estimate prices of items. Reply only with the price, no explanation\n")
	b.WriteString("User: To provide some context, here are some other items that might be similar to the item you need to estimate.\n\n")

	for _, similar := range similars {
		fmt.Fprintf(&b, "Potentially related product:\n%s\nPrice is $%.2f\n\n", similar.Description, similar.Price)
	}

	b.WriteString("And now the question for you:\n\n")
	b.WriteString("How much does this cost?\n\n")
	b.WriteString(description)
	b.WriteString("\nAssistant: Price is $")

	return b.String()
}
