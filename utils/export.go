package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Supported export formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_\-]+`)

// ExportFormatError reports an unsupported export format
type ExportFormatError struct {
	Format string
}

func (e *ExportFormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q (use json, csv or xlsx)", e.Format)
}

// NormalizeFormat lower-cases a requested format and defaults it to json
func NormalizeFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatXLSX:
		return format, nil
	}
	return "", &ExportFormatError{Format: format}
}

// ContentType returns the MIME type served for an export format
func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json; charset=utf-8"
	}
}

// SanitizeFilename keeps a report name safe for use in file names and object keys
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "report"
	}
	return name
}

// ExportFilename builds "<name>_<YYYYMMDD>.<format>"
func ExportFilename(name, format string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), at.UTC().Format("20060102"), format)
}

// ArchiveKey builds the object key under which an exported report is archived
func ArchiveKey(name, format string, at time.Time) string {
	return fmt.Sprintf("reports/%s/%s.%s", SanitizeFilename(name), at.UTC().Format("20060102T150405Z"), format)
}
