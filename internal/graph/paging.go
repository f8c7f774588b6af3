package graph

import (
	"context"
	"encoding/json"
)

type listPage struct {
	Value    []json.RawMessage `json:"value"`
	NextLink string            `json:"@odata.nextLink"`
}

// ListPages обходит все страницы ресурса по @odata.nextLink в порядке
// сервера и вызывает fn для каждого элемента. Каждая страница запрашивается
// отдельным вызовом, поэтому обновление токена между страницами не ломает
// обход и не дублирует элементы.
func (c *Client) ListPages(ctx context.Context, url string, fn func(json.RawMessage) error) error {
	for url != "" {
		var page listPage

		if err := c.Get(ctx, url, &page); err != nil {
			return err
		}

		for _, item := range page.Value {
			if err := fn(item); err != nil {
				return err
			}
		}

		url = page.NextLink
	}

	return nil
}
