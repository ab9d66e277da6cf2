package models

import "encoding/json"

// Blob tables keep the NetSuite record verbatim in one JSON column, keyed by
// the record's internal id. The structured sql_* tables flatten the fields the
// frontend filters on.

type NetsuiteLocation struct {
	LocationId   string          `gorm:"primary_key;size:64" json:"location_id"`
	LocationData json.RawMessage `gorm:"type:json" json:"location_data"`
}

type NetsuiteUser struct {
	InternalId string          `gorm:"primary_key;size:64" json:"internal_id"`
	UserData   json.RawMessage `gorm:"type:json" json:"user_data"`
}

type NetsuiteBin struct {
	InternalId string          `gorm:"primary_key;size:64" json:"internal_id"`
	BinData    json.RawMessage `gorm:"type:json" json:"bin_data"`
}

type NetsuiteItem struct {
	InternalId string          `gorm:"primary_key;size:64" json:"internal_id"`
	ItemData   json.RawMessage `gorm:"type:json" json:"item_data"`
}

type NetsuiteInventory struct {
	InternalId    string          `gorm:"primary_key;size:64" json:"internal_id"`
	InventoryData json.RawMessage `gorm:"type:json" json:"inventory_data"`
}

type NetsuiteSalesOrder struct {
	InternalId     string          `gorm:"primary_key;size:64" json:"internal_id"`
	SalesOrderData json.RawMessage `gorm:"type:json" json:"sales_order_data"`
}

type SqlNetsuiteBin struct {
	InternalId       string `gorm:"primary_key;size:64" json:"internal_id"`
	BinNumber        string `gorm:"size:100" json:"bin_number"`
	Location         string `gorm:"size:100" json:"location"`
	Memo             string `gorm:"type:text" json:"memo"`
	BinOrientation   string `gorm:"size:100" json:"bin_orientation"`
	AisleNo          string `gorm:"size:100" json:"aisle_no"`
	Bin              string `gorm:"size:100" json:"bin"`
	InactiveBin      bool   `gorm:"not null;default:false" json:"inactive_bin"`
	InventoryCounted bool   `gorm:"not null;default:false" json:"inventory_counted"`
	Room             string `gorm:"size:100" json:"room"`
	Wh               string `gorm:"size:100" json:"wh"`
}

type SqlNetsuiteItem struct {
	InternalId string `gorm:"primary_key;size:64" json:"internal_id"`
	Name       string `gorm:"size:255" json:"name"`
	UpcCode    string `gorm:"index;size:64" json:"upc_code"`
}

// SqlNetsuiteInventory has no primary key: one NetSuite item fans out to one
// row per location/bin detail, and the table is fully replaced on every sync.
type SqlNetsuiteInventory struct {
	InternalId string `gorm:"index;size:64" json:"internal_id"`
	Item       string `gorm:"size:255" json:"item"`
	BinNumber  string `gorm:"size:100" json:"bin_number"`
	Location   string `gorm:"size:100" json:"location"`
	Status     string `gorm:"size:100" json:"status"`
	OnHand     string `gorm:"size:64" json:"on_hand"`
	Available  string `gorm:"size:64" json:"available"`
}
