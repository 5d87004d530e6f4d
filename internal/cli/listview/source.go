package listview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	httpclient "fantasy/internal/cli/http"
)

// Source is the backend a View pages through.
type Source[T any] interface {
	Count(ctx context.Context, filter string) (*httpclient.ResponseWrapper[int64], error)
	Page(ctx context.Context, page, recordsNumber int, filter string) (*httpclient.ResponseWrapper[[]T], error)
	Delete(ctx context.Context, id int64) (*httpclient.ResponseWrapper[json.RawMessage], error)
}

// Endpoint is a Source backed by an API collection such as "/api/countries".
type Endpoint[T any] struct {
	client *httpclient.Client
	base   string
}

func NewEndpoint[T any](client *httpclient.Client, base string) *Endpoint[T] {
	return &Endpoint[T]{client: client, base: strings.TrimRight(base, "/")}
}

func (e *Endpoint[T]) Count(ctx context.Context, filter string) (*httpclient.ResponseWrapper[int64], error) {
	query := url.Values{}
	if filter != "" {
		query.Set("filter", filter)
	}
	return httpclient.Get[int64](ctx, e.client, withQuery(e.base+"/totalRecordsPaginated", query))
}

func (e *Endpoint[T]) Page(ctx context.Context, page, recordsNumber int, filter string) (*httpclient.ResponseWrapper[[]T], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("recordsnumber", strconv.Itoa(recordsNumber))
	if filter != "" {
		query.Set("filter", filter)
	}
	return httpclient.Get[[]T](ctx, e.client, withQuery(e.base+"/paginated", query))
}

func (e *Endpoint[T]) Delete(ctx context.Context, id int64) (*httpclient.ResponseWrapper[json.RawMessage], error) {
	return httpclient.Delete(ctx, e.client, fmt.Sprintf("%s/%d", e.base, id))
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
