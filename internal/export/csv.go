package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// BOM lets spreadsheet tools detect UTF-8
const BOM = "\xEF\xBB\xBF"

// WriteCSV writes the sheet as UTF-8 CSV with a byte-order mark
func WriteCSV(w io.Writer, s Sheet) error {
	if _, err := io.WriteString(w, BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(s.Headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(s.Headers))
	for _, row := range s.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = formatCell(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}
