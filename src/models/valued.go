package models

// ValuedRecord is the terminal output shape of the pipeline: one shipment
// row after entity reconciliation and financial normalization. Field order
// mirrors the output column order of both schemas, so Values() can feed the
// bulk writer positionally for either data_type.
//
// Every numeric field is finite and rounded to 2 decimal places; absent or
// unparsable source values arrive here as 0. String fields use "" for
// missing, which the writer stores as SQL NULL.
type ValuedRecord struct {
	Mode             string  `json:"mode"`
	RecordNumber     string  `json:"record_number"`
	RecordDate       string  `json:"record_date"` // ISO date, "" when unparseable
	HSCode           string  `json:"hs_code"`
	ProductName      string  `json:"product_name"`
	ProductKey       string  `json:"product_key"` // compact alphanumeric key
	IdentifierCode   string  `json:"identifier_code"`
	EntityName       string  `json:"entity_name"`
	EntityKey        string  `json:"entity_key"`
	QuantityKG       float64 `json:"quantity_kg"`
	PerKGRateUSD     float64 `json:"per_kg_rate_usd"`
	TotalValueUSD    float64 `json:"total_value_usd"`
	PerKGRateINR     float64 `json:"per_kg_rate_inr"`
	TotalValueINR    float64 `json:"total_value_inr"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	CounterpartyName string  `json:"counterparty_name"`
	CounterpartyKey  string  `json:"counterparty_key"`
	Port             string  `json:"port"`
	PortCountry      string  `json:"port_country"`
	Chapter          string  `json:"chapter"`
}

// Values returns the record's fields in output column order, mapping empty
// strings to nil so the database stores NULL rather than "".
func (r ValuedRecord) Values() []any {
	return []any{
		nullable(r.Mode), nullable(r.RecordNumber), nullable(r.RecordDate),
		nullable(r.HSCode), nullable(r.ProductName), nullable(r.ProductKey),
		nullable(r.IdentifierCode), nullable(r.EntityName), nullable(r.EntityKey),
		r.QuantityKG, r.PerKGRateUSD, r.TotalValueUSD, r.PerKGRateINR, r.TotalValueINR,
		nullable(r.City), nullable(r.State),
		nullable(r.CounterpartyName), nullable(r.CounterpartyKey),
		nullable(r.Port), nullable(r.PortCountry), nullable(r.Chapter),
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
