package netsuite

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/pragadastech/wms-ai-py2/config"
	"github.com/pragadastech/wms-ai-py2/store"
)

const syncChunkSize = 1000

// writeRecords replaces the table's contents with rows: clear everything,
// then write fixed-size chunks in order. A chunk failure propagates without
// rolling back chunks already committed.
func writeRecords(ctx context.Context, client store.TableClient, spec TableSpec, rows []store.Row, chunkSize int) (int, error) {
	logger := config.GetLogger()
	if chunkSize <= 0 {
		chunkSize = syncChunkSize
	}

	logger.WithField("table", spec.Name).Info("clearing existing data")
	if err := client.DeleteWhere(ctx, spec.IDColumn, "<>", "0"); err != nil {
		config.LogError(logger, "netsuite", "writeRecords", "clearing table "+spec.Name, nil, err)
		return 0, &Error{Kind: KindStoreWrite, Message: "failed clearing table " + spec.Name, Err: err}
	}

	successful := 0
	for i := 0; i < len(rows); i += chunkSize {
		end := i + chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[i:end]
		chunkIndex := i/chunkSize + 1

		var err error
		if spec.usesPlainInsert() {
			err = client.Insert(ctx, chunk)
		} else {
			err = client.Upsert(ctx, chunk)
		}
		if err != nil {
			config.LogError(logger, "netsuite", "writeRecords", "storing chunk", map[string]interface{}{
				"table": spec.Name,
				"chunk": chunkIndex,
				"rows":  len(chunk),
			}, err)
			return successful, NewStoreWriteError(spec.Name, chunkIndex, err)
		}
		successful += len(chunk)
		logger.WithFields(logrus.Fields{
			"table": spec.Name,
			"chunk": chunkIndex,
			"rows":  len(chunk),
		}).Info("stored chunk")
	}
	return successful, nil
}
