package feed

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"dealradar/internal/domain"
	"dealradar/internal/domain/entity"
	"dealradar/pkg/contextx"
	"dealradar/pkg/errcodes"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// Fetcher pulls raw deals from configured RSS feeds. Output is ordered by
// feed then item, not deduplicated; dedup happens in the selector.
type Fetcher struct {
	parser       *gofeed.Parser
	feedURLs     []string
	itemsPerFeed int
}

func NewFetcher(feedURLs []string, itemsPerFeed int) *Fetcher {
	return &Fetcher{
		parser:       gofeed.NewParser(),
		feedURLs:     feedURLs,
		itemsPerFeed: itemsPerFeed,
	}
}

// FetchDeals scrapes every configured feed. A broken feed is logged and
// skipped; the scan cycle continues with whatever the others produced.
// An error is returned only when every feed failed.
func (f *Fetcher) FetchDeals(ctx context.Context) ([]entity.ScrapedDeal, error) {
	var (
		deals  []entity.ScrapedDeal
		failed int
	)

	for _, feedURL := range f.feedURLs {
		parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			failed++
			logger(ctx).Error("feed fetch failed", "feed", feedURL, "error", err)
			continue
		}

		items := parsed.Items
		if f.itemsPerFeed > 0 && len(items) > f.itemsPerFeed {
			items = items[:f.itemsPerFeed]
		}

		for _, item := range items {
			deal, ok := convertItem(item)
			if !ok {
				continue
			}
			deals = append(deals, deal)
		}
	}

	if len(f.feedURLs) > 0 && failed == len(f.feedURLs) {
		return nil, domain.NewError(errcodes.FeedUnavailable, fmt.Sprintf("all %d feeds failed", failed))
	}

	logger(ctx).Info("feeds scraped", "deals", len(deals), "feeds_failed", failed)

	return deals, nil
}

func convertItem(item *gofeed.Item) (entity.ScrapedDeal, bool) {
	if item == nil || item.Link == "" {
		return entity.ScrapedDeal{}, false
	}

	body := item.Content
	if body == "" {
		body = item.Description
	}

	fetchedAt := time.Now()
	if item.PublishedParsed != nil {
		fetchedAt = *item.PublishedParsed
	}

	return entity.ScrapedDeal{
		URL:       item.Link,
		Title:     strings.TrimSpace(item.Title),
		RawText:   stripHTML(body),
		FetchedAt: fetchedAt,
	}, true
}

// stripHTML reduces feed markup to plain text good enough for a prompt.
func stripHTML(s string) string {
	plain := htmlTagPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(plain), " ")
}
