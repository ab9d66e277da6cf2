package netsuite

import (
	"encoding/json"

	"github.com/pragadastech/wms-ai-py2/config"
	"github.com/pragadastech/wms-ai-py2/store"
)

type tableKind int

const (
	blobTable tableKind = iota
	structuredBins
	structuredItems
	inventoryFanOut
	inventoryFirstDetail
)

// TableSpec pins down one destination table: its identity column for the
// pre-write clear and how a fetched record becomes rows.
type TableSpec struct {
	Name       string
	IDColumn   string
	dataColumn string
	kind       tableKind
}

var tableSpecs = map[string]TableSpec{
	"netsuite_locations":     {Name: "netsuite_locations", IDColumn: "location_id", dataColumn: "location_data", kind: blobTable},
	"netsuite_users":         {Name: "netsuite_users", IDColumn: "internal_id", dataColumn: "user_data", kind: blobTable},
	"netsuite_bins":          {Name: "netsuite_bins", IDColumn: "internal_id", dataColumn: "bin_data", kind: blobTable},
	"netsuite_items":         {Name: "netsuite_items", IDColumn: "internal_id", dataColumn: "item_data", kind: blobTable},
	"netsuite_sales_orders":  {Name: "netsuite_sales_orders", IDColumn: "internal_id", dataColumn: "sales_order_data", kind: blobTable},
	"netsuite_inventory":     {Name: "netsuite_inventory", IDColumn: "internal_id", dataColumn: "inventory_data", kind: inventoryFirstDetail},
	"sql_netsuite_bins":      {Name: "sql_netsuite_bins", IDColumn: "internal_id", kind: structuredBins},
	"sql_netsuite_items":     {Name: "sql_netsuite_items", IDColumn: "internal_id", kind: structuredItems},
	"sql_netsuite_inventory": {Name: "sql_netsuite_inventory", IDColumn: "internal_id", kind: inventoryFanOut},
}

func TableSpecFor(table string) (TableSpec, error) {
	spec, ok := tableSpecs[table]
	if !ok {
		return TableSpec{}, NewConfigError("unknown table name: %s", table)
	}
	return spec, nil
}

// usesPlainInsert is true for the inventory fan-out table, which has no
// primary key and is safe only because the writer clears it first.
func (s TableSpec) usesPlainInsert() bool {
	return s.kind == inventoryFanOut
}

// MapRecords turns a fetched record set into rows for this table. Records
// that fail to decode are logged and skipped, never failing the whole sync.
func (s TableSpec) MapRecords(records RecordSet) []store.Row {
	switch s.kind {
	case structuredBins:
		return mapStructured(s, records, mapBinRecord)
	case structuredItems:
		return mapStructured(s, records, mapItemRecord)
	case inventoryFanOut:
		return mapInventoryFanOut(records)
	case inventoryFirstDetail:
		return mapInventoryFirstDetail(s, records)
	default:
		rows := make([]store.Row, 0, len(records))
		for id, record := range records {
			rows = append(rows, store.Row{s.IDColumn: id, s.dataColumn: string(record)})
		}
		return rows
	}
}

func mapStructured(s TableSpec, records RecordSet, mapOne func(id string, fields map[string]interface{}) store.Row) []store.Row {
	logger := config.GetLogger()
	rows := make([]store.Row, 0, len(records))
	for id, record := range records {
		var fields map[string]interface{}
		if err := json.Unmarshal(record, &fields); err != nil {
			config.LogError(logger, "netsuite", "MapRecords", "skipping malformed record", map[string]interface{}{"table": s.Name, "id": id}, err)
			continue
		}
		rows = append(rows, mapOne(id, fields))
	}
	return rows
}

func mapBinRecord(id string, fields map[string]interface{}) store.Row {
	return store.Row{
		"internal_id": id,
		"bin_number":  stringField(fields, "bin_number", ""),
		"location":    stringField(fields, "location", ""),
		"memo":        stringField(fields, "memo", ""),
		// The upstream payload misspells this key; read it as sent.
		"bin_orientation":   stringField(fields, "bin_orentation", ""),
		"aisle_no":          stringField(fields, "aisle_no", ""),
		"bin":               stringField(fields, "bin", ""),
		"inactive_bin":      boolField(fields, "inactive_bin", false),
		"inventory_counted": boolField(fields, "inventory_counted", false),
		"room":              stringField(fields, "room", ""),
		"wh":                stringField(fields, "wh", ""),
	}
}

func mapItemRecord(id string, fields map[string]interface{}) store.Row {
	return store.Row{
		"internal_id": id,
		"name":        stringField(fields, "name", ""),
		"upc_code":    stringField(fields, "upc_code", ""),
	}
}

type inventoryLocation struct {
	ItemDetails []map[string]interface{} `json:"itemDetails"`
}

// mapInventoryFanOut expands {item: {location: {itemDetails: [...]}}} into
// one row per detail entry.
func mapInventoryFanOut(records RecordSet) []store.Row {
	logger := config.GetLogger()
	rows := make([]store.Row, 0, len(records))
	for itemId, record := range records {
		var locations map[string]inventoryLocation
		if err := json.Unmarshal(record, &locations); err != nil {
			config.LogError(logger, "netsuite", "MapRecords", "skipping malformed inventory record", map[string]interface{}{"id": itemId}, err)
			continue
		}
		for _, location := range locations {
			for _, detail := range location.ItemDetails {
				rows = append(rows, store.Row{
					"internal_id": stringField(detail, "internal_id", ""),
					"item":        stringField(detail, "item", ""),
					"bin_number":  stringField(detail, "bin_number", ""),
					"location":    stringField(detail, "location", ""),
					"status":      stringField(detail, "status", ""),
					"on_hand":     stringField(detail, "on_hand", "0"),
					"available":   stringField(detail, "available", "0"),
				})
			}
		}
	}
	return rows
}

type rawInventoryLocation struct {
	ItemDetails []json.RawMessage `json:"itemDetails"`
}

// mapInventoryFirstDetail keeps only the first detail under the synthetic
// location key "all"; anything else falls back to the record verbatim.
func mapInventoryFirstDetail(s TableSpec, records RecordSet) []store.Row {
	rows := make([]store.Row, 0, len(records))
	for itemId, record := range records {
		data := string(record)
		var locations map[string]rawInventoryLocation
		if err := json.Unmarshal(record, &locations); err == nil {
			if all, ok := locations["all"]; ok && len(all.ItemDetails) > 0 {
				data = string(all.ItemDetails[0])
			}
		}
		rows = append(rows, store.Row{s.IDColumn: itemId, s.dataColumn: data})
	}
	return rows
}

func stringField(fields map[string]interface{}, key string, def string) string {
	if value, ok := fields[key].(string); ok {
		return value
	}
	return def
}

func boolField(fields map[string]interface{}, key string, def bool) bool {
	if value, ok := fields[key].(bool); ok {
		return value
	}
	return def
}
