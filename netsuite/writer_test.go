package netsuite

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/pragadastech/wms-ai-py2/store"
)

type fakeTableClient struct {
	name        string
	deleted     []string
	upserts     []int
	inserts     []int
	failOnChunk int
}

func (f *fakeTableClient) Name() string { return f.name }

func (f *fakeTableClient) Select(ctx context.Context, filter store.Row, limit int, offset int) ([]store.Row, error) {
	return nil, nil
}

func (f *fakeTableClient) Insert(ctx context.Context, rows []store.Row) error {
	if f.failOnChunk > 0 && len(f.inserts)+1 == f.failOnChunk {
		return errors.New("insert failed")
	}
	f.inserts = append(f.inserts, len(rows))
	return nil
}

func (f *fakeTableClient) Upsert(ctx context.Context, rows []store.Row) error {
	if f.failOnChunk > 0 && len(f.upserts)+1 == f.failOnChunk {
		return errors.New("upsert failed")
	}
	f.upserts = append(f.upserts, len(rows))
	return nil
}

func (f *fakeTableClient) DeleteWhere(ctx context.Context, column string, op string, value interface{}) error {
	f.deleted = append(f.deleted, fmt.Sprintf("%s %s %v", column, op, value))
	return nil
}

func (f *fakeTableClient) Count(ctx context.Context) (int64, error) { return 0, nil }

func makeRows(n int) []store.Row {
	rows := make([]store.Row, n)
	for i := range rows {
		rows[i] = store.Row{"internal_id": strconv.Itoa(i), "bin_data": "{}"}
	}
	return rows
}

func TestWriteRecords_ChunksOfThousand(t *testing.T) {
	client := &fakeTableClient{name: "netsuite_bins"}
	spec, _ := TableSpecFor("netsuite_bins")

	successful, err := writeRecords(context.Background(), client, spec, makeRows(2500), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if successful != 2500 {
		t.Fatalf("expected 2500 successful operations, got %d", successful)
	}
	if len(client.upserts) != 3 || client.upserts[0] != 1000 || client.upserts[1] != 1000 || client.upserts[2] != 500 {
		t.Fatalf("expected chunks 1000/1000/500, got %v", client.upserts)
	}
	if len(client.inserts) != 0 {
		t.Fatalf("keyed table must not use plain insert: %v", client.inserts)
	}
}

func TestWriteRecords_ClearPredicatePerTable(t *testing.T) {
	locations := &fakeTableClient{name: "netsuite_locations"}
	spec, _ := TableSpecFor("netsuite_locations")
	if _, err := writeRecords(context.Background(), locations, spec, makeRows(1), 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locations.deleted) != 1 || locations.deleted[0] != "location_id <> 0" {
		t.Fatalf("unexpected clear predicate: %v", locations.deleted)
	}

	bins := &fakeTableClient{name: "netsuite_bins"}
	binSpec, _ := TableSpecFor("netsuite_bins")
	if _, err := writeRecords(context.Background(), bins, binSpec, makeRows(1), 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bins.deleted) != 1 || bins.deleted[0] != "internal_id <> 0" {
		t.Fatalf("unexpected clear predicate: %v", bins.deleted)
	}
}

func TestWriteRecords_InventoryUsesInsert(t *testing.T) {
	client := &fakeTableClient{name: "sql_netsuite_inventory"}
	spec, _ := TableSpecFor("sql_netsuite_inventory")

	if _, err := writeRecords(context.Background(), client, spec, makeRows(150), 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.inserts) != 2 || client.inserts[0] != 100 || client.inserts[1] != 50 {
		t.Fatalf("expected insert chunks 100/50, got %v", client.inserts)
	}
	if len(client.upserts) != 0 {
		t.Fatalf("fan-out table must not upsert: %v", client.upserts)
	}
}

func TestWriteRecords_ChunkFailureKeepsEarlierChunks(t *testing.T) {
	client := &fakeTableClient{name: "netsuite_bins", failOnChunk: 2}
	spec, _ := TableSpecFor("netsuite_bins")

	successful, err := writeRecords(context.Background(), client, spec, makeRows(2500), 1000)
	typed, ok := AsError(err)
	if !ok || typed.Kind != KindStoreWrite {
		t.Fatalf("expected store write error, got %v", err)
	}
	if successful != 1000 {
		t.Fatalf("expected first chunk to stay committed, got %d", successful)
	}
	if len(client.upserts) != 1 {
		t.Fatalf("expected exactly one committed chunk, got %v", client.upserts)
	}
}
