package bincount

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pragadastech/wms-ai-py2/models"
	"github.com/pragadastech/wms-ai-py2/netsuite"
)

func respondError(c *gin.Context, err error) {
	status := netsuite.HTTPStatus(err)
	if typed, ok := netsuite.AsError(err); ok {
		c.JSON(status, gin.H{"error": string(typed.Kind), "detail": typed.Message})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// RegisterRoutes wires the bin-count endpoints onto the router group.
func RegisterRoutes(r gin.IRoutes, svc *Service, db *gorm.DB) {
	r.POST("/bin-count", SubmitHandler(svc))
	r.POST("/bin-count/bulk", BulkStoreHandler(svc))
	r.GET("/bin-count/records", RecordsHandler(db))
	r.GET("/bin-count/export", ExportHandler(db))
	r.POST("/netsuite/single-bin", SingleBinHandler(svc))
}

// SubmitHandler stores one submission and relays it upstream.
func SubmitHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sub Submission
		if err := c.ShouldBindJSON(&sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		result, err := svc.Submit(c.Request.Context(), sub)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// SingleBinHandler relays one submission without persisting it.
func SingleBinHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sub Submission
		if err := c.ShouldBindJSON(&sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := sub.Validate(); err != nil {
			respondError(c, err)
			return
		}
		ack, err := svc.Relay(c.Request.Context(), sub)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":           "Bin inventory data successfully sent to NetSuite",
			"netsuite_response": ack,
		})
	}
}

// BulkStoreHandler stores a binId -> items map without relaying; the poller
// forwards the records on its next tick.
func BulkStoreHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			BinData  map[string][]ItemCount `json:"binData" binding:"required"`
			Metadata Metadata               `json:"metadata"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		result, err := svc.StoreBinCounts(c.Request.Context(), req.BinData, req.Metadata)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// RecordsHandler returns the stored submission payloads.
func RecordsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var records []models.BinCountRecord
		if err := db.WithContext(c.Request.Context()).Order("created_at").Find(&records).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(records) == 0 {
			c.JSON(http.StatusOK, gin.H{
				"message":       "No bin count records found",
				"total_records": 0,
				"data":          []json.RawMessage{},
			})
			return
		}
		data := make([]json.RawMessage, 0, len(records))
		for _, record := range records {
			if len(record.BinData) > 0 {
				data = append(data, record.BinData)
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"message":       "Bin count records fetched successfully",
			"total_records": len(records),
			"data":          data,
		})
	}
}
