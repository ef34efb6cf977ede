package validation

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/username/eximflow/backend/src/logger"
)

// AllowedClientContentTypes is a map for quick lookup of allowed
// client-declared MIME types for shipment uploads.
var AllowedClientContentTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true, // .xlsx
	"application/vnd.ms-excel": true, // legacy Excel MIME, often sent for xlsx/csv alike
	"text/csv":                 true,
	"application/csv":          true,
	"text/plain":               true, // CSVs are often plain text
	"application/octet-stream": true, // fallback; magic bytes decide
}

// xlsxMagic is the ZIP local-file-header signature; xlsx workbooks are ZIP
// containers.
var xlsxMagic = []byte{0x50, 0x4b, 0x03, 0x04}

// ValidateClientContentType checks the Content-Type header provided by the client.
func ValidateClientContentType(contentType string) error {
	normalized := strings.ToLower(strings.Split(contentType, ";")[0])
	if !AllowedClientContentTypes[strings.TrimSpace(normalized)] {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("client-declared file type '%s' is not allowed for shipment upload", contentType)
	}
	return nil
}

// ValidateFileContentByMagicBytes checks the actual file content signature
// against the declared upload format and returns the detected content type.
// The read pointer is reset so the parser can consume the full file.
func ValidateFileContentByMagicBytes(file io.ReadSeeker, format string) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file is nil")
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}
	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}

	detected := http.DetectContentType(buffer[:n])
	detected = strings.ToLower(strings.Split(detected, ";")[0])

	switch format {
	case "xlsx":
		if !bytes.HasPrefix(buffer[:n], xlsxMagic) {
			return detected, fmt.Errorf("file content does not look like an xlsx workbook (detected %s)", detected)
		}
	case "csv":
		// CSV has no signature; require a text-like detection and rely on
		// the parser to reject anything that is not actually CSV.
		if detected != "text/plain" && detected != "text/csv" && !strings.HasPrefix(detected, "text/") {
			return detected, fmt.Errorf("file content does not look like CSV text (detected %s)", detected)
		}
	default:
		return detected, fmt.Errorf("unsupported upload format %q", format)
	}
	return detected, nil
}
