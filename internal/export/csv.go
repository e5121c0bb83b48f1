package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range t.Rows {
		record := make([]string, 0, len(fixedColumns)+len(r.Cells))
		record = append(record,
			r.Email,
			strconv.FormatBool(r.IsAdmin),
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.Name,
			strconv.Itoa(r.Score),
			r.Tier,
		)
		record = append(record, r.Cells...)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", r.Email, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
