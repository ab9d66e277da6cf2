package label

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pragadastech/wms-ai-py2/models"
	"github.com/pragadastech/wms-ai-py2/netsuite"
	"github.com/pragadastech/wms-ai-py2/utils"
)

// RegisterRoutes wires the label endpoints onto the router group.
func RegisterRoutes(r gin.IRoutes, gen *Generator, db *gorm.DB) {
	r.POST("/labels/generate", GenerateHandler(gen))
	r.GET("/labels/:orderId", ListHandler(db))
}

func GenerateHandler(gen *Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		labels, err := gen.GenerateForOrder(c.Request.Context(), req)
		if err != nil {
			status := netsuite.HTTPStatus(err)
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"order_id":     req.OrderId,
			"total_labels": len(labels),
			"labels":       labels,
		})
	}
}

func ListHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderId := c.Param("orderId")
		labels, err := models.GetLabelsByOrder(c.Request.Context(), db, orderId)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no labels generated for order " + orderId})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"order_id":     orderId,
			"total_labels": len(labels),
			"labels":       labels,
		})
	}
}
