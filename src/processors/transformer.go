package processors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/username/eximflow/backend/src/logger"
	"github.com/username/eximflow/backend/src/models"
	"github.com/username/eximflow/backend/src/utils"
)

const (
	// MetricTonUnit triggers the x1000 kilogram conversion of quantities.
	MetricTonUnit = "MTS"
)

// bulkUnits are the ton-family unit tags whose per-unit rates are quoted
// per ton and must be divided down to a kilogram basis.
var bulkUnits = map[string]bool{"Ton": true, MetricTonUnit: true}

type shipmentTransformer struct {
	rates    RateSource
	resolver *RateResolver
}

func NewShipmentTransformer(rates RateSource) ShipmentTransformer {
	return &shipmentTransformer{rates: rates, resolver: NewRateResolver()}
}

// Transform runs the financial normalization pipeline over a reconciled
// batch: date parsing, quantity conversion to kilograms, the backward as-of
// exchange-rate join, USD/local per-kilogram rates and totals, numeric and
// string cleanup, derived text keys, and chapter classification. Exactly one
// ValuedRecord is produced per input row.
//
// Monetary columns are computed at full precision and rounded to 2 decimals
// in a single final pass (round-late). Value-level problems (bad dates,
// unparseable numbers) degrade to documented defaults; only an empty batch
// or an unreachable rate table fails the transform.
func (t *shipmentTransformer) Transform(ctx context.Context, batch models.Batch) ([]models.ValuedRecord, error) {
	if len(batch.Records) == 0 {
		return nil, fmt.Errorf("transform: empty batch for data_type %q", batch.DataType)
	}

	n := len(batch.Records)
	logger.L.Info("Transform START", "dataType", batch.DataType, "rows", n)

	// Dates and categories feed the as-of join; unparseable dates become
	// the zero-time sentinel and later miss every rate.
	dates := make([]time.Time, n)
	categories := make([]string, n)
	badDates := 0
	for i, rec := range batch.Records {
		dates[i] = utils.ParseFlexibleDate(strings.TrimSpace(rec.RecordDate))
		if dates[i].IsZero() {
			badDates++
		}
		categories[i] = strings.TrimSpace(rec.Category)
	}
	if badDates > 0 {
		logger.L.Warn("Transform: rows with unparseable dates fall back to neutral exchange rate", "dataType", batch.DataType, "rows", badDates)
	}

	table, err := t.rates.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("transform: loading exchange rates: %w", err)
	}
	resolvedRates := t.resolver.Resolve(dates, categories, table)

	out := make([]models.ValuedRecord, n)
	for i, rec := range batch.Records {
		unit := strings.TrimSpace(rec.Unit)

		quantity := utils.ParseFloatOrZero(rec.Quantity)
		quantityKG := quantity
		if unit == MetricTonUnit {
			quantityKG = quantity * 1000
		}

		// Missing or zero rates are replaced by the neutral rate 1: the
		// local value then doubles as the USD-equivalent reading instead
		// of dropping the row or dividing by zero.
		rate := resolvedRates[i]
		if rate <= 0 {
			rate = 1
		}

		unitRateLocal := utils.ParseFloatOrZero(rec.UnitRateLocal)
		usdValue := unitRateLocal / rate

		perKGUSD := usdValue
		perKGINR := unitRateLocal
		if bulkUnits[unit] {
			perKGUSD = usdValue / 1000
			perKGINR = unitRateLocal / 1000
		}
		totalUSD := quantityKG * perKGUSD
		totalINR := quantityKG * perKGINR

		hsCode := cleanHSCode(rec.HSCode)

		out[i] = models.ValuedRecord{
			Mode:             cleanText(rec.Mode),
			RecordNumber:     cleanIdentifierString(rec.RecordNumber),
			RecordDate:       utils.FormatISODate(dates[i]),
			HSCode:           hsCode,
			ProductName:      cleanText(rec.ProductDescription),
			ProductKey:       textKey(rec.ProductDescription),
			IdentifierCode:   cleanIdentifierString(rec.IdentifierCode),
			EntityName:       cleanText(rec.EntityName),
			EntityKey:        cleanText(rec.EntityFormatted),
			QuantityKG:       utils.CleanMoney(quantityKG),
			PerKGRateUSD:     utils.CleanMoney(perKGUSD),
			TotalValueUSD:    utils.CleanMoney(totalUSD),
			PerKGRateINR:     utils.CleanMoney(perKGINR),
			TotalValueINR:    utils.CleanMoney(totalINR),
			City:             cleanText(rec.City),
			State:            cleanText(rec.State),
			CounterpartyName: cleanText(rec.CounterpartyName),
			CounterpartyKey:  textKey(rec.CounterpartyName),
			Port:             cleanText(rec.Port),
			PortCountry:      cleanText(rec.PortCountry),
			Chapter:          classifyChapter(hsCode),
		}
	}

	logger.L.Info("Transform END", "dataType", batch.DataType, "rows", len(out))
	return out, nil
}

// cleanText trims a free-text column, maps null-like literals to missing
// and uppercases the rest.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if IsNullLike(s) {
		return ""
	}
	return strings.ToUpper(s)
}

// textKey builds the compact alphanumeric "short name" derived from a
// free-text column.
func textKey(s string) string {
	if IsNullLike(strings.TrimSpace(s)) {
		return ""
	}
	return strings.ToUpper(CleanSpecialCharsSpaces(s))
}

// cleanHSCode strips the trailing ".0" artifact numeric-to-string coercion
// leaves on classification codes, then trims.
func cleanHSCode(code string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(code), ".0"))
}

// cleanIdentifierString trims an identifier-ish column and maps null-like
// literals to true-missing.
func cleanIdentifierString(s string) string {
	s = strings.TrimSpace(s)
	if IsNullLike(s) {
		return ""
	}
	return s
}

// classifyChapter derives the commodity chapter bucket from the first two
// characters of the classification code. CH-38 is a catch-all for anything
// outside chapters 28 and 29, not a real classification.
func classifyChapter(hsCode string) string {
	switch {
	case strings.HasPrefix(hsCode, "28"):
		return "CH-28"
	case strings.HasPrefix(hsCode, "29"):
		return "CH-29"
	default:
		return "CH-38"
	}
}
