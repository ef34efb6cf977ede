package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/xuri/excelize/v2"

	"github.com/username/eximflow/backend/src/logger"
	"github.com/username/eximflow/backend/src/models"
	"github.com/username/eximflow/backend/src/utils"
)

const rateCacheKey = "exchange_rate_table"

// expected headers of the custom exchange-rate workbook.
const (
	rateHeaderDate     = "Date"
	rateHeaderCategory = "Category"
	rateHeaderRate     = "ExchangeRateUSD"
)

// FileRateSource loads the custom exchange-rate table from an xlsx workbook
// (Date / Category / ExchangeRateUSD columns) and caches the parsed,
// date-sorted table between transforms. An unreadable file is a collaborator
// error, retried once; a readable file with no usable rows is a valid empty
// table — every lookup then falls back to the neutral rate.
type FileRateSource struct {
	path  string
	cache *cache.Cache
}

func NewFileRateSource(path string, cacheExpiry time.Duration) *FileRateSource {
	return &FileRateSource{
		path:  path,
		cache: cache.New(cacheExpiry, 2*cacheExpiry),
	}
}

func (s *FileRateSource) ReadAll(ctx context.Context) ([]models.ExchangeRateEntry, error) {
	if cached, found := s.cache.Get(rateCacheKey); found {
		return cached.([]models.ExchangeRateEntry), nil
	}

	entries, err := s.load()
	if err != nil {
		logger.L.Warn("Exchange-rate load failed, retrying once", "path", s.path, "error", err)
		entries, err = s.load()
		if err != nil {
			return nil, fmt.Errorf("exchange-rate table %s unavailable after retry: %w", s.path, err)
		}
	}

	s.cache.Set(rateCacheKey, entries, cache.DefaultExpiration)
	logger.L.Info("Exchange-rate table loaded", "path", s.path, "entries", len(entries))
	return entries, nil
}

func (s *FileRateSource) load() ([]models.ExchangeRateEntry, error) {
	xl, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer xl.Close()

	sheetName := xl.GetSheetName(0)
	rows, err := xl.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return []models.ExchangeRateEntry{}, nil
	}

	colDate, colCategory, colRate := -1, -1, -1
	for i, h := range rows[0] {
		switch h {
		case rateHeaderDate:
			colDate = i
		case rateHeaderCategory:
			colCategory = i
		case rateHeaderRate:
			colRate = i
		}
	}
	if colDate < 0 || colCategory < 0 || colRate < 0 {
		return nil, fmt.Errorf("workbook is missing one of the %s/%s/%s columns", rateHeaderDate, rateHeaderCategory, rateHeaderRate)
	}

	entries := make([]models.ExchangeRateEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		date := utils.ParseFlexibleDate(cellAt(row, colDate))
		rate := utils.ParseFloatOrZero(cellAt(row, colRate))
		category := cellAt(row, colCategory)
		if date.IsZero() || category == "" || rate <= 0 {
			logger.L.Warn("Skipping malformed exchange-rate row", "date", cellAt(row, colDate), "category", category, "rate", cellAt(row, colRate))
			continue
		}
		entries = append(entries, models.ExchangeRateEntry{Date: date, Category: category, RateUSD: rate})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	return entries, nil
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
