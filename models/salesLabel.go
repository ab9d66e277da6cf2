package models

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/pragadastech/wms-ai-py2/utils"
)

// GeneratedSalesLabel records one SSCC carton label generated for a sales
// order line. SsccCode is unique across the table so a serial reference is
// never printed twice.
type GeneratedSalesLabel struct {
	ID               uint            `gorm:"primary_key;auto_increment" json:"id"`
	OrderId          string          `gorm:"index;size:64" json:"order_id"`
	ItemId           string          `gorm:"size:64" json:"item_id"`
	LineId           int             `json:"line_id"`
	LabelNumber      int             `json:"label_number"`
	CartonIndex      int             `json:"carton_index"`
	TotalCartons     int             `json:"total_cartons"`
	SsccCode         string          `gorm:"unique;size:32" json:"sscc_code"`
	SsccDisplay      string          `gorm:"size:64" json:"sscc_display"`
	TrackingNumber   string          `gorm:"size:100" json:"tracking_number"`
	LabelHtml        string          `gorm:"type:mediumtext" json:"label_html"`
	PackingslipData  json.RawMessage `gorm:"type:json" json:"packingslip_data"`
	ImageUrl         string          `gorm:"size:512" json:"image_url"`
	Status           string          `gorm:"size:32;default:'generated'" json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// GetLabelsByOrder returns the labels generated for an order in print order.
func GetLabelsByOrder(ctx context.Context, db *gorm.DB, orderId string) ([]GeneratedSalesLabel, error) {
	var labels []GeneratedSalesLabel
	if err := db.WithContext(ctx).
		Where("order_id = ?", orderId).
		Order("line_id, label_number").
		Find(&labels).Error; err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, utils.ErrorRecordNotFound
	}
	return labels, nil
}
