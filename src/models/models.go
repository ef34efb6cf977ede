package models

import "fmt"

// DataType selects which of the two shipment schemas a batch uses.
// Export batches carry IEC/SB/Consignee vocabulary, import batches ICE/BE.
type DataType string

const (
	DataTypeExport DataType = "export"
	DataTypeImport DataType = "import"
)

func ParseDataType(s string) (DataType, error) {
	switch DataType(s) {
	case DataTypeExport:
		return DataTypeExport, nil
	case DataTypeImport:
		return DataTypeImport, nil
	default:
		return "", fmt.Errorf("unknown data_type %q (want \"export\" or \"import\")", s)
	}
}

// ShipmentRecord is one row of an uploaded batch, with neutral field names.
// The data_type of the owning Batch decides the external column vocabulary
// (IEC vs ICE, SB vs BE, and so on); processing steps look at these fields,
// never at column names. Values stay raw strings until the financial
// transform coerces them.
type ShipmentRecord struct {
	Mode               string `json:"mode"`                // Mode / Shipment Mode
	RecordNumber       string `json:"record_number"`       // SB Number / BE Number
	RecordDate         string `json:"record_date"`         // SB Date / BE Date
	HSCode             string `json:"hs_code"`             // HS Code
	ProductDescription string `json:"product_description"` // Product Description
	IdentifierCode     string `json:"identifier_code"`     // IEC / ICE
	EntityName         string `json:"entity_name"`         // Exporter_Name / Importer_Name
	EntityFormatted    string `json:"entity_formatted"`    // Exporter / Importer (registry key)
	Quantity           string `json:"quantity"`            // Quantity / QUANTITY
	Unit               string `json:"unit"`                // Unit
	UnitRateLocal      string `json:"unit_rate_local"`     // Unit Rate INR
	Category           string `json:"category"`            // Category (currency bucket)
	City               string `json:"city"`                // Exporter City / Importer City
	State              string `json:"state"`               // Exporter State / Importer State
	CounterpartyName   string `json:"counterparty_name"`   // Consignee Name / Exporter Name
	Port               string `json:"port"`                // Port of Destination / Port of Origin
	PortCountry        string `json:"port_country"`        // Country of Destination / Port of Country
}

// Batch is an ordered sequence of shipment records sharing one data_type.
type Batch struct {
	DataType DataType         `json:"data_type"`
	Records  []ShipmentRecord `json:"records"`
}

// Schema binds a data_type to its external column vocabulary: the source
// spreadsheet headers consumed by the parsers and the fixed, ordered output
// column list the bulk writer appends. The output column order is part of
// the downstream contract and must not change.
type Schema struct {
	DataType DataType

	// Source headers as they appear in the uploaded file. The *_Name
	// headers are pre-normalized by the parsers ("Exporter Name" arrives
	// as "Exporter_Name").
	ModeHeader         string
	NumberHeader       string
	DateHeader         string
	IdentifierHeader   string
	NameHeader         string
	CityHeader         string
	StateHeader        string
	CounterpartyHeader string
	PortHeader         string
	PortCountryHeader  string

	// Destination table and its ordered columns.
	OutputTable   string
	OutputColumns []string
}

// Headers shared by both schemas.
const (
	HeaderHSCode      = "HS Code"
	HeaderProduct     = "Product Description"
	HeaderQuantity    = "Quantity"
	HeaderQuantityAlt = "QUANTITY"
	HeaderUnit        = "Unit"
	HeaderUnitRate    = "Unit Rate INR"
	HeaderCategory    = "Category"
)

var exportSchema = Schema{
	DataType:           DataTypeExport,
	ModeHeader:         "Mode",
	NumberHeader:       "SB Number",
	DateHeader:         "SB Date",
	IdentifierHeader:   "IEC",
	NameHeader:         "Exporter_Name",
	CityHeader:         "Exporter City",
	StateHeader:        "Exporter State",
	CounterpartyHeader: "Consignee Name",
	PortHeader:         "Port of Destination",
	PortCountryHeader:  "Country of Destination",
	OutputTable:        "exim_export",
	OutputColumns: []string{
		"Mode", "SB_Number", "SB_Date", "HS_Code", "Product_Name", "Product",
		"IEC", "Exporter_Name", "Exporter",
		"QUANTITY_KG", "Per_KG_Rate", "Total_Value", "Per_KG_INR", "Total_Value_INR",
		"Exporter_City", "Exporter_State", "Consignee_Name", "Consignee",
		"Port_of_Destination", "Country_of_Destination", "CHAPTER",
	},
}

var importSchema = Schema{
	DataType:           DataTypeImport,
	ModeHeader:         "Shipment Mode",
	NumberHeader:       "BE Number",
	DateHeader:         "BE Date",
	IdentifierHeader:   "ICE",
	NameHeader:         "Importer_Name",
	CityHeader:         "Importer City",
	StateHeader:        "Importer State",
	CounterpartyHeader: "Exporter_Name",
	PortHeader:         "Port of Origin",
	PortCountryHeader:  "Port of Country",
	OutputTable:        "exim_import",
	OutputColumns: []string{
		"Shipment_Mode", "BE_Number", "BE_Date", "HS_Code", "Product_Name", "Product",
		"ICE", "Importer_Name", "Importer",
		"QUANTITY_KG", "Per_KG_Rate", "Total_Value", "Per_KG_INR", "Total_Value_INR",
		"Importer_City", "Importer_State", "Exporter_Name", "Exporter",
		"Port_of_Origin", "Port_of_Country", "CHAPTER",
	},
}

func SchemaFor(dt DataType) Schema {
	if dt == DataTypeImport {
		return importSchema
	}
	return exportSchema
}
