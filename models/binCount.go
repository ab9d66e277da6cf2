package models

import (
	"encoding/json"
	"time"
)

// BinCountRecord keeps every bin-count submission received from the handheld
// scanners. NetsuiteResponse stays NULL until the upstream acknowledgement
// arrives, which is how the background poller finds unrelayed counts.
type BinCountRecord struct {
	ID               uint            `gorm:"primary_key;auto_increment" json:"id"`
	BinId            string          `gorm:"index;size:64" json:"bin_id"`
	BinData          json.RawMessage `gorm:"type:json" json:"bin_data"`
	NetsuiteResponse json.RawMessage `gorm:"type:json" json:"netsuite_response"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
