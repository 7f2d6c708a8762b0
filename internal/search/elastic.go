package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
)

// MovieDoc is the shape indexed per movie. Genres are indexed as display
// names so the filter vocabulary matches what callers send.
type MovieDoc struct {
	ID          string   `json:"-"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	ReleaseDate *string  `json:"release_date"`
	Genres      []string `json:"genres"`
	VoteAverage float64  `json:"vote_average"`
}

// Query is a validated full-text search request.
type Query struct {
	Title     string
	Genres    []string // normalized display names
	MinRating *float64
}

// Client wraps the Elasticsearch movies index. It only ever returns ranked
// ids; hydration against the catalog is the caller's job.
type Client struct {
	es     *elasticsearch.Client
	index  string
	logger *slog.Logger
}

func NewClient(url, index string, logger *slog.Logger) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Client{es: es, index: index, logger: logger}, nil
}

// Search runs the full-text query and returns movie ids in relevance order.
func (c *Client) Search(ctx context.Context, q Query) ([]string, error) {
	var filters []map[string]interface{}
	if len(q.Genres) > 0 {
		filters = append(filters, map[string]interface{}{
			"terms": map[string]interface{}{"genres": q.Genres},
		})
	}
	if q.MinRating != nil {
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{
				"vote_average": map[string]interface{}{"gte": *q.MinRating},
			},
		})
	}

	// Filter-only queries (no title) rank by the filters alone.
	must := []map[string]interface{}{}
	if q.Title != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     q.Title,
				"fields":    []string{"title", "overview", "genres"},
				"fuzziness": "AUTO",
			},
		})
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filters,
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.String())
	}

	var envelope struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(envelope.Hits.Hits))
	for _, hit := range envelope.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Reindex drops the index and rebuilds it from scratch with the given docs.
// Returns the number of indexed documents.
func (c *Client) Reindex(ctx context.Context, docs []MovieDoc) (int, error) {
	exists, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("check index: %w", err)
	}
	exists.Body.Close()
	if exists.StatusCode == 200 {
		del, err := c.es.Indices.Delete([]string{c.index}, c.es.Indices.Delete.WithContext(ctx))
		if err != nil {
			return 0, fmt.Errorf("delete index: %w", err)
		}
		del.Body.Close()
	}

	mapping := `{
		"mappings": {
			"properties": {
				"title":        {"type": "text"},
				"overview":     {"type": "text"},
				"release_date": {"type": "date"},
				"genres":       {"type": "keyword"},
				"vote_average": {"type": "float"}
			}
		}
	}`
	create, err := c.es.Indices.Create(
		c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))),
	)
	if err != nil {
		return 0, fmt.Errorf("create index: %w", err)
	}
	defer create.Body.Close()
	if create.IsError() {
		return 0, fmt.Errorf("create index: %s", create.String())
	}

	if len(docs) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	for _, doc := range docs {
		meta := map[string]interface{}{
			"index": map[string]interface{}{"_index": c.index, "_id": doc.ID},
		}
		if err := json.NewEncoder(&buf).Encode(meta); err != nil {
			return 0, fmt.Errorf("encode bulk meta: %w", err)
		}
		if err := json.NewEncoder(&buf).Encode(doc); err != nil {
			return 0, fmt.Errorf("encode bulk doc: %w", err)
		}
	}

	res, err := c.es.Bulk(&buf, c.es.Bulk.WithContext(ctx), c.es.Bulk.WithRefresh("true"))
	if err != nil {
		return 0, fmt.Errorf("bulk index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("bulk index: %s", res.String())
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkResp); err != nil {
		return 0, fmt.Errorf("decode bulk response: %w", err)
	}
	if bulkResp.Errors {
		failed := 0
		for _, item := range bulkResp.Items {
			for _, op := range item {
				if op.Status >= 300 {
					failed++
				}
			}
		}
		c.logger.Warn("bulk index finished with failures", "failed", failed, "total", len(docs))
		return len(docs) - failed, fmt.Errorf("failed to index %d of %d movies", failed, len(docs))
	}

	return len(docs), nil
}
