// Package label builds SSCC carton labels for sales orders: sequencing,
// label HTML, and the rendered-image artifact pipeline.
package label

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pragadastech/wms-ai-py2/config"
	"github.com/pragadastech/wms-ai-py2/models"
	"github.com/pragadastech/wms-ai-py2/netsuite"
	"github.com/pragadastech/wms-ai-py2/sscc"
)

// Renderer turns label HTML into a raster image. The actual rendering is an
// external service; tests use a stub.
type Renderer interface {
	Render(ctx context.Context, html string, width int, height int) (image.Image, error)
}

type OrderItem struct {
	ItemId       string `json:"item_id"`
	ItemName     string `json:"item_name"`
	UpcCode      string `json:"upc_code" binding:"required"`
	LineId       int    `json:"line_id" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required"`
	TotalCartons int    `json:"total_cartons"`
}

type OrderRequest struct {
	OrderId        string      `json:"order_id" binding:"required"`
	TrackingNumber string      `json:"tracking_number"`
	Items          []OrderItem `json:"items" binding:"required"`
}

// CartonLabel is one computed label before persistence.
type CartonLabel struct {
	ItemId       string `json:"item_id"`
	LineId       int    `json:"line_id"`
	LabelNumber  int    `json:"label_number"`
	CartonIndex  int    `json:"carton_index"`
	TotalCartons int    `json:"total_cartons"`
	SsccCode     string `json:"sscc_code"`
	SsccDisplay  string `json:"sscc_display"`
	Html         string `json:"-"`
}

// BuildLabels computes every carton label for the order. One label per unit
// of quantity; cartons wrap across the item's total carton count. Pure, so
// the sequencing is testable without a database.
func BuildLabels(req OrderRequest) ([]CartonLabel, error) {
	if len(req.Items) == 0 {
		return nil, netsuite.NewValidationError("order has no items")
	}

	var labels []CartonLabel
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, netsuite.NewValidationError("item %s has no quantity", item.ItemId)
		}
		totalCartons := item.TotalCartons
		if totalCartons < 1 {
			totalCartons = item.Quantity
		}

		for labelCount := 0; labelCount < item.Quantity; labelCount++ {
			code, err := sscc.Generate(item.UpcCode, item.LineId, labelCount+1)
			if err != nil {
				return nil, netsuite.NewValidationError("item %s: %v", item.ItemId, err)
			}
			cartonIndex := sscc.CartonIndex(labelCount, totalCartons)
			label := CartonLabel{
				ItemId:       item.ItemId,
				LineId:       item.LineId,
				LabelNumber:  labelCount + 1,
				CartonIndex:  cartonIndex,
				TotalCartons: totalCartons,
				SsccCode:     code.Code,
				SsccDisplay:  code.Display,
			}
			label.Html = buildLabelHTML(req, item, label)
			labels = append(labels, label)
		}
	}
	return labels, nil
}

func buildLabelHTML(req OrderRequest, item OrderItem, label CartonLabel) string {
	var b strings.Builder
	b.WriteString(`<html><body><table class="label">`)
	fmt.Fprintf(&b, `<tr><td class="pleft" colspan="2"><b>SHIP FROM:</b> PragadasTech Fulfillment</td></tr>`)
	fmt.Fprintf(&b, `<tr><td class="pleft" colspan="2"><b>ORDER: </b>%s</td></tr>`, req.OrderId)
	if req.TrackingNumber != "" {
		fmt.Fprintf(&b, `<tr><td class="pleft" colspan="2"><b>TRACKING: </b>%s</td></tr>`, req.TrackingNumber)
	}
	fmt.Fprintf(&b, `<tr><td class="pleft" colspan="2"><b>UPC: </b>%s / SINGLE ASIN</td></tr>`, item.UpcCode)
	fmt.Fprintf(&b, `<tr><td class="pleft" colspan="2"><b>ITEM: </b>%s</td></tr>`, item.ItemName)
	fmt.Fprintf(&b, `<tr><td class="pleft" colspan="2"><b>CARTON: %d of %d</b></td></tr>`, label.CartonIndex, label.TotalCartons)
	fmt.Fprintf(&b, `<tr><td class="sscc" colspan="2">%s</td></tr>`, label.SsccDisplay)
	fmt.Fprintf(&b, `<tr><td class="barcode" colspan="2">%s</td></tr>`, label.SsccCode)
	b.WriteString(`</table></body></html>`)
	return b.String()
}

// Generator persists labels and, when a renderer is wired, produces the
// printable image artifacts.
type Generator struct {
	db       *gorm.DB
	renderer Renderer
	upload   func(ctx context.Context, objectName string, img image.Image) (string, error)
}

func NewGenerator(db *gorm.DB, renderer Renderer) *Generator {
	return &Generator{db: db, renderer: renderer, upload: SaveLabelImage}
}

// GenerateForOrder builds, stores and optionally renders every label of the
// order. Render/upload failures are logged per label and do not fail the
// batch; the label row stays without an image url.
func (g *Generator) GenerateForOrder(ctx context.Context, req OrderRequest) ([]models.GeneratedSalesLabel, error) {
	logger := config.GetLogger()

	labels, err := BuildLabels(req)
	if err != nil {
		return nil, err
	}

	packingslip, _ := json.Marshal(req)
	stored := make([]models.GeneratedSalesLabel, 0, len(labels))
	for _, label := range labels {
		row := models.GeneratedSalesLabel{
			OrderId:         req.OrderId,
			ItemId:          label.ItemId,
			LineId:          label.LineId,
			LabelNumber:     label.LabelNumber,
			CartonIndex:     label.CartonIndex,
			TotalCartons:    label.TotalCartons,
			SsccCode:        label.SsccCode,
			SsccDisplay:     label.SsccDisplay,
			TrackingNumber:  req.TrackingNumber,
			LabelHtml:       label.Html,
			PackingslipData: packingslip,
			Status:          "generated",
		}

		if g.renderer != nil {
			row.ImageUrl = g.renderLabel(ctx, req.OrderId, label)
			if row.ImageUrl != "" {
				row.Status = "rendered"
			}
		}

		if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
			config.LogError(logger, "label", "GenerateForOrder", "persisting label", label.SsccCode, err)
			return stored, err
		}
		stored = append(stored, row)
	}

	logger.WithField("order_id", req.OrderId).WithField("labels", len(stored)).Info("labels generated")
	return stored, nil
}

func (g *Generator) renderLabel(ctx context.Context, orderId string, label CartonLabel) string {
	logger := config.GetLogger()

	img, err := g.renderer.Render(ctx, label.Html, labelWidth, labelHeight)
	if err != nil {
		config.LogError(logger, "label", "renderLabel", "rendering", label.SsccCode, err)
		return ""
	}

	objectName := fmt.Sprintf("labels/%s/%s-%d.png", orderId, label.SsccCode, time.Now().Unix())
	url, err := g.upload(ctx, objectName, NormalizeLabelImage(img))
	if err != nil {
		config.LogError(logger, "label", "renderLabel", "uploading", objectName, err)
		return ""
	}
	return url
}
