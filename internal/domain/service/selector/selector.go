package selector

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"dealradar/internal/domain"
	"dealradar/internal/domain/entity"
	"dealradar/pkg/errcodes"
)

const defaultMaxDeals = 5

// Generator is the free-text generative model used for selection.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Selector picks the most promising deals out of a raw scraped batch and
// rewrites them into normalized, discount-language-free descriptions.
type Selector struct {
	gen      Generator
	maxDeals int
}

func New(gen Generator) *Selector {
	return &Selector{
		gen:      gen,
		maxDeals: defaultMaxDeals,
	}
}

func (s *Selector) WithMaxDeals(n int) *Selector {
	if n > 0 {
		s.maxDeals = n
	}
	return s
}

// Select deduplicates candidates against knownURLs, then asks the model for
// the maxDeals best-described, confidently priced items. Deduplication runs
// before any model call so already-alerted deals never cost a generation.
// An empty post-dedup batch short-circuits without contacting the provider.
func (s *Selector) Select(ctx context.Context, candidates []entity.ScrapedDeal, knownURLs map[string]struct{}) ([]entity.Deal, error) {
	fresh := lo.Filter(candidates, func(d entity.ScrapedDeal, _ int) bool {
		_, known := knownURLs[d.URL]
		return !known
	})

	logger(ctx).Info("deal selection started",
		"scraped", len(candidates),
		"fresh", len(fresh),
	)

	if len(fresh) == 0 {
		return nil, nil
	}

	reply, err := s.gen.Generate(ctx, s.buildPrompt(fresh))
	if err != nil {
		// Selection is not retried; a failed call costs one empty cycle.
		return nil, domain.WrapError(err, errcodes.ProviderUnavailable, "selection call failed")
	}

	deals, err := parseSelection(reply)
	if err != nil {
		logger(ctx).Error("selection reply not parseable",
			"error", err,
			"raw_reply", reply,
		)
		return nil, err
	}

	logger(ctx).Info("deal selection finished", "selected", len(deals))

	return deals, nil
}

func (s *Selector) buildPrompt(deals []entity.ScrapedDeal) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You identify and summarize the %[1]d most detailed deals from a list, by selecting deals that have the most detailed, high quality description and the most clear price.
Respond strictly in JSON with no explanation, using this format. You should provide the price as a number derived from the description. If the price of a deal isn't clear, do not include that deal in your response.
Most important is that you respond with the %[1]d deals that have the most detailed product description with price. It's not important to mention the terms of the deal; most important is a thorough description of the product.
Be careful with products that are described as "$XXX off" or "reduced by $XXX" - this isn't the actual price of the product. Only respond with products when you are highly confident about the price.

{"deals": [
    {
        "product_description": "Your clearly expressed summary of the product in 4-5 sentences. Details of the item are much more important than why it's a good deal. Avoid mentioning discounts and coupons; focus on the item itself.",
        "price": 99.99,
        "url": "the url as provided"
    },
    ...
]}

Deals:

`, s.maxDeals)

	for i, deal := range deals {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(deal.Describe())
	}

	fmt.Fprintf(&b, "\n\nStrictly respond in JSON and include exactly %d deals, no more.", s.maxDeals)

	return b.String()
}
