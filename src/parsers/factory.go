package parsers

import "fmt"

func GetParser(format string) (ShipmentParser, error) {
	switch format {
	case "xlsx":
		return NewExcelParser(), nil
	case "csv":
		return NewCSVParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for format: %s", format)
	}
}
