package repository

import (
	"context"
	"encoding/json"
	"strings"

	"m365-admin-service/internal/graph"
)

// forEachItem обходит постраничный ресурс и декодирует каждый элемент в T.
func forEachItem[T any](ctx context.Context, c *graph.Client, url string, fn func(T) error) error {
	return c.ListPages(ctx, url, func(raw json.RawMessage) error {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return err
		}
		return fn(item)
	})
}

// odataQuote экранирует строковый литерал для $filter-выражения.
func odataQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
