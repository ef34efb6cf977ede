package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/eximflow/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Ensuring database schema", "databasePath", databasePath)
	} else {
		stdlog.Println("Ensuring database schema for:", databasePath)
	}

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS entity_master (
		iec_code TEXT PRIMARY KEY,
		entity_name TEXT NOT NULL,
		formatted_name TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS exim_export (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		Mode TEXT,
		SB_Number TEXT,
		SB_Date TEXT,
		HS_Code TEXT,
		Product_Name TEXT,
		Product TEXT,
		IEC TEXT,
		Exporter_Name TEXT,
		Exporter TEXT,
		QUANTITY_KG REAL NOT NULL DEFAULT 0,
		Per_KG_Rate REAL NOT NULL DEFAULT 0,
		Total_Value REAL NOT NULL DEFAULT 0,
		Per_KG_INR REAL NOT NULL DEFAULT 0,
		Total_Value_INR REAL NOT NULL DEFAULT 0,
		Exporter_City TEXT,
		Exporter_State TEXT,
		Consignee_Name TEXT,
		Consignee TEXT,
		Port_of_Destination TEXT,
		Country_of_Destination TEXT,
		CHAPTER TEXT,
		uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS exim_import (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		Shipment_Mode TEXT,
		BE_Number TEXT,
		BE_Date TEXT,
		HS_Code TEXT,
		Product_Name TEXT,
		Product TEXT,
		ICE TEXT,
		Importer_Name TEXT,
		Importer TEXT,
		QUANTITY_KG REAL NOT NULL DEFAULT 0,
		Per_KG_Rate REAL NOT NULL DEFAULT 0,
		Total_Value REAL NOT NULL DEFAULT 0,
		Per_KG_INR REAL NOT NULL DEFAULT 0,
		Total_Value_INR REAL NOT NULL DEFAULT 0,
		Importer_City TEXT,
		Importer_State TEXT,
		Exporter_Name TEXT,
		Exporter TEXT,
		Port_of_Origin TEXT,
		Port_of_Country TEXT,
		CHAPTER TEXT,
		uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_exim_export_iec ON exim_export(IEC);
	CREATE INDEX IF NOT EXISTS idx_exim_import_ice ON exim_import(ICE);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}
