package store

import (
	"context"
	"math"
	"time"

	"github.com/pragadastech/wms-ai-py2/config"
)

const (
	defaultFetchBatchSize = 1000
	fetchBatchDelay       = 100 * time.Millisecond
)

// FetchProgress reports one completed batch of a full-table read. Total is
// nil when the row count could not be determined up front; Percentage is 0
// in that case.
type FetchProgress struct {
	Table            string  `json:"table"`
	Fetched          int     `json:"fetched"`
	Total            *int64  `json:"total"`
	Percentage       float64 `json:"percentage"`
	CurrentBatchSize int     `json:"current_batch"`
	BatchSize        int     `json:"batch_size"`
	CurrentOffset    int     `json:"current_offset"`
}

// FetchAllRecords reads the whole table in batches so a large sync snapshot
// never has to fit into a single driver round trip. A failed count query is
// tolerated; the fetch proceeds with an unknown total. onBatch is optional.
func FetchAllRecords(ctx context.Context, client TableClient, batchSize int, onBatch func(FetchProgress)) ([]Row, error) {
	logger := config.GetLogger()
	if batchSize <= 0 {
		batchSize = defaultFetchBatchSize
	}

	var total *int64
	if count, err := client.Count(ctx); err != nil {
		config.LogError(logger, "store", "FetchAllRecords", "count "+client.Name(), nil, err)
	} else {
		total = &count
	}

	capacity := 0
	if total != nil {
		capacity = int(*total)
	}
	records := make([]Row, 0, capacity)
	for offset := 0; ; offset += batchSize {
		if offset > 0 {
			if err := sleepBetweenBatches(ctx); err != nil {
				return nil, err
			}
		}
		batch, err := client.Select(ctx, nil, batchSize, offset)
		if err != nil {
			config.LogError(logger, "store", "FetchAllRecords", "select "+client.Name(), map[string]interface{}{"offset": offset}, err)
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		records = append(records, batch...)

		progress := FetchProgress{
			Table:            client.Name(),
			Fetched:          len(records),
			Total:            total,
			CurrentBatchSize: len(batch),
			BatchSize:        batchSize,
			CurrentOffset:    offset,
		}
		if total != nil && *total > 0 {
			progress.Percentage = math.Round(float64(len(records))/float64(*total)*100*100) / 100
		}
		if onBatch != nil {
			onBatch(progress)
		}

		if len(batch) < batchSize {
			break
		}
		if total != nil && int64(len(records)) >= *total {
			break
		}
	}

	logger.WithField("table", client.Name()).WithField("records", len(records)).Info("fetched all records")
	return records, nil
}

func sleepBetweenBatches(ctx context.Context) error {
	timer := time.NewTimer(fetchBatchDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
