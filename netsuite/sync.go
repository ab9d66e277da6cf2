package netsuite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pragadastech/wms-ai-py2/config"
	"github.com/pragadastech/wms-ai-py2/store"
	"github.com/pragadastech/wms-ai-py2/utils"
)

const (
	syncLockTTL        = 10 * time.Minute
	syncStatusCacheTTL = 24 * time.Hour
)

// Action names understood by the restlet, keyed by destination table.
var actionForTable = map[string]string{
	"netsuite_locations":     "get_locations",
	"netsuite_users":         "get_users",
	"netsuite_bins":          "get_bins",
	"netsuite_items":         "get_items",
	"netsuite_inventory":     "get_inventory",
	"netsuite_sales_orders":  "get_salesOrders",
	"sql_netsuite_bins":      "get_bins",
	"sql_netsuite_items":     "get_items",
	"sql_netsuite_inventory": "get_inventory",
}

func ActionForTable(table string) (string, error) {
	action, ok := actionForTable[table]
	if !ok {
		return "", NewConfigError("no sync action for table: %s", table)
	}
	return action, nil
}

// SyncResult is the summary returned to the route layer after one full
// fetch-and-store cycle.
type SyncResult struct {
	Status               string    `json:"status"`
	Message              string    `json:"message"`
	Table                string    `json:"table"`
	Action               string    `json:"action"`
	TotalRecords         int       `json:"total_records"`
	TotalPages           int       `json:"total_pages"`
	SuccessfulOperations int       `json:"successful_operations"`
	FetchingTime         float64   `json:"fetching_time"`
	StorageTime          float64   `json:"storage_time"`
	TotalProcessingTime  float64   `json:"total_processing_time"`
	CompletedAt          time.Time `json:"completed_at"`
	Data                 RecordSet `json:"data,omitempty"`
}

// SyncService composes the fetcher, mapper and writer behind one operation.
// The breaker is shared with the bin-count relay.
type SyncService struct {
	api       PageFetcher
	breaker   *Breaker
	retry     RetryPolicy
	tables    func(table string) store.TableClient
	pageDelay time.Duration
}

func NewSyncService(api PageFetcher, breaker *Breaker, db *gorm.DB) *SyncService {
	return &SyncService{
		api:     api,
		breaker: breaker,
		retry:   NewRetryPolicy(defaultMaxRetries, defaultBaseDelay),
		tables: func(table string) store.TableClient {
			return store.NewGormTable(db, table)
		},
		pageDelay: defaultPageDelay,
	}
}

// SyncFromUpstream fetches every page of the given action and replaces the
// destination table's contents with the mapped rows.
func (s *SyncService) SyncFromUpstream(ctx context.Context, action string, table string) (*SyncResult, error) {
	logger := config.GetLogger()
	start := time.Now()

	spec, err := TableSpecFor(table)
	if err != nil {
		return nil, err
	}

	release, err := utils.SyncLock(ctx, table, "netsuite", "SyncFromUpstream", syncLockTTL)
	if err != nil {
		return nil, NewServiceUnavailable(err)
	}
	defer release()

	fetched, err := s.retry.Do(ctx, s.breaker, "fetch "+action, func() (interface{}, error) {
		return fetchAllPages(ctx, s.api, action, s.pageDelay)
	})
	if err != nil {
		return nil, err
	}
	fetch := fetched.(*FetchResult)

	rows := spec.MapRecords(fetch.Records)
	if len(rows) == 0 {
		return nil, errors.New("no valid data to store")
	}

	storeStart := time.Now()
	successful, err := writeRecords(ctx, s.tables(table), spec, rows, syncChunkSize)
	if err != nil {
		return nil, err
	}
	storageTime := time.Since(storeStart).Seconds()

	result := &SyncResult{
		Status:               "success",
		Message:              "Data fetched and stored successfully",
		Table:                table,
		Action:               action,
		TotalRecords:         fetch.TotalRecords,
		TotalPages:           fetch.TotalPages,
		SuccessfulOperations: successful,
		FetchingTime:         fetch.FetchSeconds,
		StorageTime:          storageTime,
		TotalProcessingTime:  time.Since(start).Seconds(),
		CompletedAt:          time.Now().UTC(),
		Data:                 fetch.Records,
	}

	summary := *result
	summary.Data = nil
	if err := config.SetRedisObject("SyncStatus:"+table, summary, syncStatusCacheTTL); err != nil {
		config.LogError(logger, "netsuite", "SyncFromUpstream", "caching sync status", table, err)
	}

	logger.WithField("table", table).WithField("records", successful).Info("sync completed")
	return result, nil
}

// LastSyncStatus returns the cached summary of the table's most recent sync.
func LastSyncStatus(table string) (*SyncResult, bool, error) {
	var summary SyncResult
	found, err := config.GetRedisObject("SyncStatus:"+table, &summary)
	if err != nil || !found {
		return nil, false, err
	}
	return &summary, true, nil
}
