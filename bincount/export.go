package bincount

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/pragadastech/wms-ai-py2/models"
)

// ExportHandler streams the stored bin counts as an xlsx workbook, one row
// per counted item with a quantity total at the bottom.
func ExportHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var records []models.BinCountRecord
		if err := db.WithContext(c.Request.Context()).Order("created_at").Find(&records).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		f := excelize.NewFile()
		sheet := "Sheet1"

		f.SetCellValue(sheet, "A1", "BinId")
		f.SetCellValue(sheet, "B1", "BinName")
		f.SetCellValue(sheet, "C1", "Location")
		f.SetCellValue(sheet, "D1", "UserName")
		f.SetCellValue(sheet, "E1", "ItemId")
		f.SetCellValue(sheet, "F1", "ItemName")
		f.SetCellValue(sheet, "G1", "Quantity")
		f.SetCellValue(sheet, "H1", "Acknowledged")

		row := 2
		total := decimal.Zero
		for _, record := range records {
			var sub Submission
			if err := json.Unmarshal(record.BinData, &sub); err != nil {
				continue
			}
			acknowledged := "no"
			if len(record.NetsuiteResponse) > 0 {
				acknowledged = "yes"
			}
			for _, item := range sub.ItemData {
				quantity := 0
				if item.Quantity != nil {
					quantity = *item.Quantity
				}
				total = total.Add(decimal.NewFromInt(int64(quantity)))

				f.SetCellValue(sheet, "A"+fmt.Sprint(row), record.BinId)
				f.SetCellValue(sheet, "B"+fmt.Sprint(row), sub.BinName)
				f.SetCellValue(sheet, "C"+fmt.Sprint(row), sub.LocationName)
				f.SetCellValue(sheet, "D"+fmt.Sprint(row), sub.UserName)
				if item.ItemId != nil {
					f.SetCellValue(sheet, "E"+fmt.Sprint(row), *item.ItemId)
				}
				f.SetCellValue(sheet, "F"+fmt.Sprint(row), item.ItemName)
				f.SetCellValue(sheet, "G"+fmt.Sprint(row), quantity)
				f.SetCellValue(sheet, "H"+fmt.Sprint(row), acknowledged)
				row++
			}
		}

		f.SetCellValue(sheet, "F"+fmt.Sprint(row), "Total")
		f.SetCellValue(sheet, "G"+fmt.Sprint(row), total.String())

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=bin-counts.xlsx")
		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write file"})
		}
	}
}
