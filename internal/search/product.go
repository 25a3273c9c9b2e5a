package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fekuna/omnipos-register/internal/model"
)

const productMapping = `{
	"mappings": {
		"properties": {
			"id":       { "type": "keyword" },
			"name":     { "type": "text" },
			"category": { "type": "keyword" },
			"barcode":  { "type": "keyword" },
			"price":    { "type": "double" },
			"stock":    { "type": "integer" },
			"created":  { "type": "keyword" }
		}
	}
}`

// ProductIndex mirrors catalog products into a search index.
type ProductIndex struct {
	client *Client
	index  string
}

func NewProductIndex(client *Client, index string) *ProductIndex {
	return &ProductIndex{client: client, index: index}
}

func (p *ProductIndex) EnsureIndex(ctx context.Context) error {
	return p.client.CreateIndex(ctx, p.index, productMapping)
}

func (p *ProductIndex) IndexProduct(ctx context.Context, product *model.Product) error {
	return p.client.Index(ctx, p.index, product.ID, product)
}

func (p *ProductIndex) DeleteProduct(ctx context.Context, id string) error {
	return p.client.Delete(ctx, p.index, id)
}

// SearchProducts returns the ids of products matching keyword on name or
// barcode, optionally restricted to one category. Ids are in score order.
func (p *ProductIndex) SearchProducts(ctx context.Context, keyword, category string) ([]string, error) {
	must := []map[string]any{
		{
			"query_string": map[string]any{
				"query":  fmt.Sprintf("*%s*", escapeQuery(keyword)),
				"fields": []string{"name^3", "barcode"},
			},
		},
	}
	if category != "" {
		must = append(must, map[string]any{
			"term": map[string]any{"category": category},
		})
	}
	q := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"must": must},
		},
		"size":    1000,
		"_source": []string{"id"},
	}

	res, err := p.client.Search(ctx, p.index, q)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var src struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(hit.Source, &src); err == nil && src.ID != "" {
			ids = append(ids, src.ID)
			continue
		}
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// escapeQuery backslashes query_string reserved characters.
func escapeQuery(s string) string {
	const reserved = `+-=&|><!(){}[]^"~*?:\/`
	out := make([]rune, 0, len(s))
	for _, r := range s {
		for _, c := range reserved {
			if r == c {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, r)
	}
	return string(out)
}
