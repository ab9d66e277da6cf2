package store

import (
	"context"
	"errors"
	"testing"
)

type fakeFetchTable struct {
	name     string
	rows     []Row
	countErr error
}

func (f *fakeFetchTable) Name() string { return f.name }

func (f *fakeFetchTable) Select(ctx context.Context, filter Row, limit int, offset int) ([]Row, error) {
	if offset >= len(f.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[offset:end], nil
}

func (f *fakeFetchTable) Insert(ctx context.Context, rows []Row) error { return nil }
func (f *fakeFetchTable) Upsert(ctx context.Context, rows []Row) error { return nil }
func (f *fakeFetchTable) DeleteWhere(ctx context.Context, column string, op string, value interface{}) error {
	return nil
}

func (f *fakeFetchTable) Count(ctx context.Context) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.rows)), nil
}

func makeRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{"internal_id": i}
	}
	return rows
}

func TestFetchAllRecords_ProgressPerBatch(t *testing.T) {
	client := &fakeFetchTable{name: "sql_netsuite_items", rows: makeRows(5)}

	var progress []FetchProgress
	records, err := FetchAllRecords(context.Background(), client, 2, func(p FetchProgress) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	if len(progress) != 3 {
		t.Fatalf("expected 3 progress reports, got %d", len(progress))
	}

	want := []struct {
		fetched, currentBatch, offset int
		percentage                    float64
	}{
		{2, 2, 0, 40},
		{4, 2, 2, 80},
		{5, 1, 4, 100},
	}
	for i, w := range want {
		p := progress[i]
		if p.Fetched != w.fetched || p.CurrentBatchSize != w.currentBatch || p.CurrentOffset != w.offset {
			t.Fatalf("batch %d: got fetched=%d current=%d offset=%d", i, p.Fetched, p.CurrentBatchSize, p.CurrentOffset)
		}
		if p.Total == nil || *p.Total != 5 {
			t.Fatalf("batch %d: expected total 5, got %v", i, p.Total)
		}
		if p.Percentage != w.percentage {
			t.Fatalf("batch %d: expected %.2f%%, got %.2f%%", i, w.percentage, p.Percentage)
		}
		if p.BatchSize != 2 || p.Table != "sql_netsuite_items" {
			t.Fatalf("batch %d: unexpected batch size or table: %+v", i, p)
		}
	}
}

func TestFetchAllRecords_PercentageRounded(t *testing.T) {
	client := &fakeFetchTable{name: "netsuite_bins", rows: makeRows(3)}

	var first FetchProgress
	_, err := FetchAllRecords(context.Background(), client, 1, func(p FetchProgress) {
		if p.CurrentOffset == 0 {
			first = p
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Percentage != 33.33 {
		t.Fatalf("expected 33.33, got %v", first.Percentage)
	}
}

func TestFetchAllRecords_CountFailureTolerated(t *testing.T) {
	client := &fakeFetchTable{
		name:     "netsuite_items",
		rows:     makeRows(3),
		countErr: errors.New("count unavailable"),
	}

	var progress []FetchProgress
	records, err := FetchAllRecords(context.Background(), client, 2, func(p FetchProgress) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("count failure must not abort the fetch: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, p := range progress {
		if p.Total != nil {
			t.Fatalf("batch %d: expected nil total, got %v", i, *p.Total)
		}
		if p.Percentage != 0 {
			t.Fatalf("batch %d: expected 0%% with unknown total, got %v", i, p.Percentage)
		}
	}
}

func TestFetchAllRecords_EmptyTable(t *testing.T) {
	client := &fakeFetchTable{name: "netsuite_users"}

	records, err := FetchAllRecords(context.Background(), client, 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}
