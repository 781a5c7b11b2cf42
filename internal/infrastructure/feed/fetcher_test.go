package feed_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"dealradar/internal/infrastructure/feed"
)

const feedTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Test Deals</title>
<link>https://deals.test</link>
<description>deals</description>
%s
</channel>
</rss>`

func feedItem(title, link, description string) string {
	return fmt.Sprintf(`<item><title>%s</title><link>%s</link><description>%s</description></item>`,
		title, link, description)
}

func TestFetchDeals(t *testing.T) {
	rq := require.New(t)

	body := fmt.Sprintf(feedTemplate,
		feedItem("Speaker deal", "https://deals.test/1", "A &lt;b&gt;loud&lt;/b&gt; bluetooth speaker for $49")+
			feedItem("No link deal", "", "dropped")+
			feedItem("Laptop deal", "https://deals.test/2", "A thin laptop"),
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	fetcher := feed.NewFetcher([]string{server.URL}, 0)

	deals, err := fetcher.FetchDeals(context.Background())
	rq.NoError(err)
	rq.Len(deals, 2)

	rq.Equal("https://deals.test/1", deals[0].URL)
	rq.Equal("Speaker deal", deals[0].Title)
	rq.Equal("A loud bluetooth speaker for $49", deals[0].RawText)
	rq.Equal("https://deals.test/2", deals[1].URL)
}

func TestFetchDealsItemLimit(t *testing.T) {
	rq := require.New(t)

	body := fmt.Sprintf(feedTemplate,
		feedItem("One", "https://deals.test/1", "a")+
			feedItem("Two", "https://deals.test/2", "b")+
			feedItem("Three", "https://deals.test/3", "c"),
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	deals, err := feed.NewFetcher([]string{server.URL}, 2).FetchDeals(context.Background())
	rq.NoError(err)
	rq.Len(deals, 2)
}

func TestFetchDealsAllFeedsFailing(t *testing.T) {
	rq := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	deals, err := feed.NewFetcher([]string{server.URL}, 0).FetchDeals(context.Background())
	rq.Error(err)
	rq.Empty(deals)
}

func TestFetchDealsPartialFailure(t *testing.T) {
	rq := require.New(t)

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, fmt.Sprintf(feedTemplate, feedItem("One", "https://deals.test/1", "a")))
	}))
	defer good.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer bad.Close()

	deals, err := feed.NewFetcher([]string{bad.URL, good.URL}, 0).FetchDeals(context.Background())
	rq.NoError(err)
	rq.Len(deals, 1)
}
