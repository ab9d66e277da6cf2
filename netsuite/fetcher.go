package netsuite

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pragadastech/wms-ai-py2/config"
)

const defaultPageDelay = 500 * time.Millisecond

// PageFetcher is what the paginated fetch needs from the restlet client.
type PageFetcher interface {
	FetchPage(ctx context.Context, action string, pageNumber int) (PageResponse, error)
}

// FetchResult is the accumulated record set of one complete fetch.
type FetchResult struct {
	Records      RecordSet
	TotalPages   int
	TotalRecords int
	FetchSeconds float64
}

// fetchAllPages drives pages 1..N strictly in order and merges each page's
// data with key-overwrite semantics. Pagination is not resumable: a server
// error on any page propagates so the retry policy restarts from page 1.
// Non-server page failures are logged and skipped.
func fetchAllPages(ctx context.Context, api PageFetcher, action string, pageDelay time.Duration) (*FetchResult, error) {
	logger := config.GetLogger()
	if pageDelay < 0 {
		pageDelay = defaultPageDelay
	}
	start := time.Now()

	first, err := api.FetchPage(ctx, action, 1)
	if err != nil {
		config.LogError(logger, "netsuite", "fetchAllPages", "initial request "+action, nil, err)
		return nil, err
	}
	if first.Summary == nil {
		logger.WithField("action", action).Warn("no summary information found in api response")
		return nil, NewNotFoundError("no summary information found in api response")
	}

	totalPages := first.Summary.TotalPages
	totalRecords := first.Summary.TotalRecords
	logger.WithFields(logrus.Fields{
		"action":        action,
		"total_pages":   totalPages,
		"total_records": totalRecords,
	}).Info("starting paginated fetch")

	allData := make(RecordSet, totalRecords)
	for page := 1; page <= totalPages; page++ {
		pageStart := time.Now()
		resp, err := api.FetchPage(ctx, action, page)
		if err != nil {
			if typed, ok := AsError(err); ok && typed.Kind == KindUpstreamServer {
				config.LogError(logger, "netsuite", "fetchAllPages", "server error, restarting fetch", map[string]interface{}{"action": action, "page": page}, err)
				return nil, err
			}
			config.LogError(logger, "netsuite", "fetchAllPages", "skipping failed page", map[string]interface{}{"action": action, "page": page}, err)
		} else if len(resp.Data) == 0 {
			logger.WithFields(logrus.Fields{"action": action, "page": page}).Warn("no data found in page")
		} else {
			for id, record := range resp.Data {
				allData[id] = record
			}
			logger.WithFields(logrus.Fields{
				"action":  action,
				"page":    page,
				"pages":   totalPages,
				"elapsed": time.Since(pageStart).String(),
			}).Info("fetched page")
		}

		// Fixed pause between pages to stay under the restlet rate limit.
		if pageDelay > 0 && page < totalPages {
			if err := sleepContext(ctx, pageDelay); err != nil {
				return nil, err
			}
		}
	}

	if len(allData) == 0 {
		logger.WithField("action", action).Warn("no data was successfully fetched from any page")
		return nil, NewNotFoundError("no data was successfully fetched from any page")
	}

	return &FetchResult{
		Records:      allData,
		TotalPages:   totalPages,
		TotalRecords: totalRecords,
		FetchSeconds: time.Since(start).Seconds(),
	}, nil
}
