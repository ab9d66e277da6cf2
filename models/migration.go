package models

import (
	"log"

	"github.com/pragadastech/wms-ai-py2/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&NetsuiteLocation{}, &NetsuiteUser{}, &NetsuiteBin{}, &NetsuiteItem{},
		&NetsuiteInventory{}, &NetsuiteSalesOrder{},
		&SqlNetsuiteBin{}, &SqlNetsuiteItem{}, &SqlNetsuiteInventory{},
		&BinCountRecord{},
		&GeneratedSalesLabel{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
