package models

import "time"

// ExchangeRateEntry is one observation of the custom exchange-rate table:
// the local-currency-to-USD rate effective from Date for one currency
// Category. The rate table is immutable reference data, kept sorted by
// date ascending within each category.
type ExchangeRateEntry struct {
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	RateUSD  float64   `json:"rate_usd"`
}
