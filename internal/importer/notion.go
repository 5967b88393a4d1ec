package importer

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/jomei/notionapi"
)

const (
	databasePageSize = 50
	blockPageSize    = 100
)

// NotionClient covers the two Notion calls the import makes: database
// queries and block children.
type NotionClient struct {
	api *notionapi.Client
}

// NewNotionClient builds a client for the given integration token. A
// baseURL other than the public API host routes every request there.
func NewNotionClient(apiKey, baseURL string, timeout time.Duration) *NotionClient {
	hc := &http.Client{Timeout: timeout}
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" && u.Host != "api.notion.com" {
		hc.Transport = &rebase{base: u, next: http.DefaultTransport}
	}
	return &NotionClient{
		api: notionapi.NewClient(notionapi.Token(apiKey), notionapi.WithHTTPClient(hc)),
	}
}

// rebase rewrites the scheme and host of outgoing requests.
type rebase struct {
	base *url.URL
	next http.RoundTripper
}

func (t *rebase) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = t.base.Scheme
	r.URL.Host = t.base.Host
	r.Host = t.base.Host
	return t.next.RoundTrip(r)
}

// QueryDatabase returns every page of a database, following cursors.
func (c *NotionClient) QueryDatabase(ctx context.Context, databaseID string) ([]notionapi.Page, error) {
	var pages []notionapi.Page
	req := &notionapi.DatabaseQueryRequest{PageSize: databasePageSize}
	for {
		res, err := c.api.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
		if err != nil {
			return nil, err
		}
		for _, p := range res.Results {
			if len(p.Properties) > 0 {
				pages = append(pages, p)
			}
		}
		if !res.HasMore || res.NextCursor == "" {
			return pages, nil
		}
		req.StartCursor = notionapi.Cursor(res.NextCursor)
	}
}

// Children lists the direct children of a block or page.
func (c *NotionClient) Children(ctx context.Context, blockID string) ([]notionapi.Block, error) {
	var blocks []notionapi.Block
	pg := &notionapi.Pagination{PageSize: blockPageSize}
	for {
		res, err := c.api.Block.GetChildren(ctx, notionapi.BlockID(blockID), pg)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, res.Results...)
		if !res.HasMore || res.NextCursor == "" {
			return blocks, nil
		}
		pg.StartCursor = notionapi.Cursor(res.NextCursor)
	}
}
