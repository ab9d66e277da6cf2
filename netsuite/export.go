package netsuite

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/pragadastech/wms-ai-py2/store"
	"github.com/pragadastech/wms-ai-py2/utils"
)

// InventoryExportHandler streams the synced inventory rows as an xlsx
// workbook. on_hand/available arrive as strings from the restlet; rows whose
// quantities do not parse keep "0" in the totals.
func InventoryExportHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := store.NewGormTable(db, "sql_netsuite_inventory")
		records, err := store.FetchAllRecords(c.Request.Context(), client, 0, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		f := excelize.NewFile()
		sheet := "Sheet1"

		f.SetCellValue(sheet, "A1", "InternalId")
		f.SetCellValue(sheet, "B1", "Item")
		f.SetCellValue(sheet, "C1", "BinNumber")
		f.SetCellValue(sheet, "D1", "Location")
		f.SetCellValue(sheet, "E1", "Status")
		f.SetCellValue(sheet, "F1", "OnHand")
		f.SetCellValue(sheet, "G1", "Available")

		totalOnHand := decimal.Zero
		totalAvailable := decimal.Zero
		for i, record := range records {
			row := fmt.Sprint(i + 2)
			f.SetCellValue(sheet, "A"+row, stringCell(record, "internal_id"))
			f.SetCellValue(sheet, "B"+row, stringCell(record, "item"))
			f.SetCellValue(sheet, "C"+row, stringCell(record, "bin_number"))
			f.SetCellValue(sheet, "D"+row, stringCell(record, "location"))
			f.SetCellValue(sheet, "E"+row, stringCell(record, "status"))

			onHand := stringCell(record, "on_hand")
			available := stringCell(record, "available")
			f.SetCellValue(sheet, "F"+row, onHand)
			f.SetCellValue(sheet, "G"+row, available)

			if value, err := utils.ConvertStringToDecimal(onHand); err == nil {
				totalOnHand = totalOnHand.Add(value)
			}
			if value, err := utils.ConvertStringToDecimal(available); err == nil {
				totalAvailable = totalAvailable.Add(value)
			}
		}

		summaryRow := fmt.Sprint(len(records) + 2)
		f.SetCellValue(sheet, "E"+summaryRow, "Total")
		f.SetCellValue(sheet, "F"+summaryRow, totalOnHand.String())
		f.SetCellValue(sheet, "G"+summaryRow, totalAvailable.String())

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=inventory.xlsx")
		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write file"})
		}
	}
}

func stringCell(row store.Row, column string) string {
	switch value := row[column].(type) {
	case string:
		return value
	case []byte:
		return string(value)
	case nil:
		return ""
	default:
		return fmt.Sprint(value)
	}
}
