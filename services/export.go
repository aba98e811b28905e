package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/kendall-kelly/repair-service-api/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const xlsxSheetName = "Report"

// ReportExport is a rendered report file
type ReportExport struct {
	Name        string
	Format      string
	Filename    string
	ContentType string
	Data        []byte
}

// ExportReport runs a report and renders it as json, csv or xlsx
func (s *Service) ExportReport(ctx context.Context, name, format string) (*ReportExport, error) {
	format, err := utils.NormalizeFormat(format)
	if err != nil {
		return nil, validationError("INVALID_FORMAT", "%s", err.Error())
	}
	result, err := s.RunReport(ctx, name)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch format {
	case utils.FormatCSV:
		data, err = RenderCSV(result)
	case utils.FormatXLSX:
		data, err = RenderXLSX(result)
	default:
		data, err = json.Marshal(result)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s report %s: %w", format, name, err)
	}

	return &ReportExport{
		Name:        result.Name,
		Format:      format,
		Filename:    utils.ExportFilename(result.Name, format, s.now()),
		ContentType: utils.ContentType(format),
		Data:        data,
	}, nil
}

// RenderCSV writes a header row of column labels followed by one record per row
func RenderCSV(result *ReportResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := make([]string, 0, len(result.Columns))
	for _, c := range result.Columns {
		headers = append(headers, c.Label)
	}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, row := range result.Rows {
		record := make([]string, 0, len(result.Columns))
		for _, c := range result.Columns {
			record = append(record, formatCell(row[c.Key]))
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}

// RenderXLSX writes a single-sheet workbook with a title, a generation
// timestamp and a styled header row
func RenderXLSX(result *ReportResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}

	title := result.Title
	if title == "" {
		title = result.Name
	}
	if err := f.SetCellValue(xlsxSheetName, "A1", title); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(xlsxSheetName, "A1", "A1", titleStyle); err != nil {
		return nil, err
	}
	generated := result.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	if err := f.SetCellValue(xlsxSheetName, "A2", "Generated: "+generated.UTC().Format("2006-01-02 15:04:05")); err != nil {
		return nil, err
	}

	for i, c := range result.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 4)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(xlsxSheetName, cell, c.Label); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(xlsxSheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(xlsxSheetName, colName, colName, 20); err != nil {
			return nil, err
		}
	}

	for r, row := range result.Rows {
		for i, c := range result.Columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+5)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(xlsxSheetName, cell, xlsxValue(row[c.Key], c.DataType)); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// xlsxValue keeps numeric columns numeric so spreadsheets can sum them
func xlsxValue(v interface{}, dataType string) interface{} {
	if v == nil {
		return ""
	}
	switch dataType {
	case ColumnCurrency, ColumnNumber, ColumnRating:
		if d, ok := toDecimal(v); ok {
			f, _ := d.Float64()
			return f
		}
	}
	return formatCell(v)
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.UTC().Format("2006-01-02 15:04:05")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case decimal.Decimal:
		return val.StringFixed(2)
	default:
		return fmt.Sprintf("%v", val)
	}
}
