package netsuite

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"
)

type fakeRestlet struct {
	pages      map[int]PageResponse
	failures   map[int][]error
	requested  []int
	totalPages int
}

func newFakeRestlet(totalPages int) *fakeRestlet {
	f := &fakeRestlet{
		pages:      make(map[int]PageResponse),
		failures:   make(map[int][]error),
		totalPages: totalPages,
	}
	for page := 1; page <= totalPages; page++ {
		f.pages[page] = PageResponse{
			Summary: &pageSummary{TotalPages: totalPages, TotalRecords: totalPages},
			Data: map[string]json.RawMessage{
				fmt.Sprintf("id-%d", page): json.RawMessage(fmt.Sprintf(`{"page":%d}`, page)),
			},
		}
	}
	return f
}

func (f *fakeRestlet) FetchPage(ctx context.Context, action string, pageNumber int) (PageResponse, error) {
	f.requested = append(f.requested, pageNumber)
	if queued := f.failures[pageNumber]; len(queued) > 0 {
		err := queued[0]
		f.failures[pageNumber] = queued[1:]
		return PageResponse{}, err
	}
	return f.pages[pageNumber], nil
}

func TestFetchAllPages_MergesAllPages(t *testing.T) {
	api := newFakeRestlet(3)
	result, err := fetchAllPages(context.Background(), api, "get_bins", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 3 {
		t.Fatalf("expected 3 merged records, got %d", len(result.Records))
	}
	if result.TotalPages != 3 || result.TotalRecords != 3 {
		t.Fatalf("unexpected totals: %+v", result)
	}
}

func TestFetchAllPages_MissingSummaryIsNotFound(t *testing.T) {
	api := newFakeRestlet(1)
	api.pages[1] = PageResponse{Data: map[string]json.RawMessage{"x": json.RawMessage(`{}`)}}

	_, err := fetchAllPages(context.Background(), api, "get_bins", 0)
	typed, ok := AsError(err)
	if !ok || typed.Kind != KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFetchAllPages_ServerErrorPropagates(t *testing.T) {
	api := newFakeRestlet(3)
	api.failures[2] = []error{NewUpstreamError(503, "unavailable")}

	_, err := fetchAllPages(context.Background(), api, "get_bins", 0)
	typed, ok := AsError(err)
	if !ok || typed.Kind != KindUpstreamServer {
		t.Fatalf("expected upstream server error, got %v", err)
	}
}

func TestFetchAllPages_ClientErrorPageIsSkipped(t *testing.T) {
	api := newFakeRestlet(3)
	api.failures[2] = []error{NewUpstreamError(404, "missing page")}

	result, err := fetchAllPages(context.Background(), api, "get_bins", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records with page 2 skipped, got %d", len(result.Records))
	}
}

func TestFetchAllPages_RetryRestartsFromPageOne(t *testing.T) {
	api := newFakeRestlet(3)
	api.failures[2] = []error{NewUpstreamError(500, "transient")}

	breaker := newBreaker("test", 5, time.Minute)
	policy := testPolicy(3)

	result, err := policy.Do(context.Background(), breaker, "fetch", func() (interface{}, error) {
		return fetchAllPages(context.Background(), api, "get_bins", 0)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fetch := result.(*FetchResult)
	if len(fetch.Records) != 3 {
		t.Fatalf("expected complete record set after restart, got %d", len(fetch.Records))
	}

	pageOneRequests := 0
	for _, page := range api.requested {
		if page == 1 {
			pageOneRequests++
		}
	}
	// Two passes, each hitting page 1 for the summary and again in the loop.
	if pageOneRequests < 2 {
		t.Fatalf("expected fetch to restart from page 1, requests: %v", api.requested)
	}
}

func TestFetchAllPages_EmptyAccumulatorIsNotFound(t *testing.T) {
	api := newFakeRestlet(2)
	api.pages[1] = PageResponse{Summary: &pageSummary{TotalPages: 2, TotalRecords: 0}}
	api.pages[2] = PageResponse{}

	_, err := fetchAllPages(context.Background(), api, "get_bins", 0)
	typed, ok := AsError(err)
	if !ok || typed.Kind != KindNotFound {
		t.Fatalf("expected not found for empty fetch, got %v", err)
	}
}
