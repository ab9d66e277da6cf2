package netsuite

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pragadastech/wms-ai-py2/store"
	"github.com/pragadastech/wms-ai-py2/utils"
)

type syncTarget struct {
	Action string
	Table  string
}

// Route names map onto the restlet action and the destination table the
// frontend reads.
var syncTargets = map[string]syncTarget{
	"locations":    {Action: "get_locations", Table: "netsuite_locations"},
	"users":        {Action: "get_users", Table: "netsuite_users"},
	"bins":         {Action: "get_bins", Table: "sql_netsuite_bins"},
	"inventory":    {Action: "get_inventory", Table: "sql_netsuite_inventory"},
	"items":        {Action: "get_items", Table: "sql_netsuite_items"},
	"sales-orders": {Action: "get_salesOrders", Table: "netsuite_sales_orders"},
}

func respondError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	if typed, ok := AsError(err); ok {
		c.JSON(status, gin.H{"error": string(typed.Kind), "detail": typed.Message})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// RegisterRoutes wires the sync endpoints onto the router group.
func RegisterRoutes(r gin.IRoutes, svc *SyncService, db *gorm.DB) {
	for name := range syncTargets {
		r.GET("/netsuite/"+name, SyncTargetHandler(svc, name))
	}
	r.GET("/netsuite/status/:table", SyncStatusHandler())
	r.GET("/netsuite/records/:table", FetchRecordsHandler(db))
	r.GET("/netsuite/inventory/export", InventoryExportHandler(db))
	r.POST("/netsuite/sync", SyncPublishHandler())
}

func SyncTargetHandler(svc *SyncService, name string) gin.HandlerFunc {
	target := syncTargets[name]
	return func(c *gin.Context) {
		result, err := svc.SyncFromUpstream(c.Request.Context(), target.Action, target.Table)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func SyncStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		table := c.Param("table")
		if _, err := TableSpecFor(table); err != nil {
			respondError(c, err)
			return
		}
		summary, found, err := LastSyncStatus(table)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "no sync recorded for " + table})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func FetchRecordsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		table := c.Param("table")
		if _, err := TableSpecFor(table); err != nil {
			respondError(c, err)
			return
		}
		batchSize := utils.IntFromEnv("STORE_FETCH_BATCH_SIZE", 500)
		client := store.NewGormTable(db, table)
		records, err := store.FetchAllRecords(c.Request.Context(), client, batchSize, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"table":   table,
			"total":   len(records),
			"records": records,
		})
	}
}
