// Package export flattens scored users into a table and writes it as CSV,
// JSON or Parquet.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/alphalever/backend/internal/domain/scoring"
	"github.com/alphalever/backend/internal/service"
)

type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// ParseFormat accepts a format name case-insensitively; empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON, FormatParquet:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv, json or parquet)", s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "text/csv"
	}
}

func (f Format) Extension() string {
	return "." + string(f)
}

// fixedColumns precede one column per factor id.
var fixedColumns = []string{"email", "is_admin", "created_at", "name", "score", "tier"}

// Table is every user flattened to one row, factor columns in configuration order.
type Table struct {
	FactorIDs []string
	Rows      []Row
}

type Row struct {
	Email     string          `json:"email"`
	IsAdmin   bool            `json:"is_admin"`
	CreatedAt time.Time       `json:"created_at"`
	Name      string          `json:"name"`
	Score     int             `json:"score"`
	Tier      string          `json:"tier"`
	Answers   scoring.Answers `json:"answers"`
	// Cells holds the formatted answer per FactorIDs entry; "" when unanswered.
	Cells []string `json:"-"`
}

func NewTable(cfg *scoring.Config, users []service.ScoredUser) Table {
	t := Table{Rows: make([]Row, 0, len(users))}
	for _, f := range cfg.Factors {
		t.FactorIDs = append(t.FactorIDs, f.ID)
	}
	for _, su := range users {
		cells := make([]string, len(cfg.Factors))
		for i, f := range cfg.Factors {
			if raw, ok := su.User.Answers[f.ID]; ok {
				cells[i] = formatCell(f, raw)
			}
		}
		answers := su.User.Answers
		if answers == nil {
			answers = scoring.Answers{}
		}
		t.Rows = append(t.Rows, Row{
			Email:     su.User.Email,
			IsAdmin:   su.User.IsAdmin,
			CreatedAt: su.User.CreatedAt,
			Name:      su.User.Name,
			Score:     su.Result.Score,
			Tier:      su.Result.Tier.Name,
			Answers:   answers,
			Cells:     cells,
		})
	}
	return t
}

func (t Table) Header() []string {
	out := make([]string, 0, len(fixedColumns)+len(t.FactorIDs))
	out = append(out, fixedColumns...)
	return append(out, t.FactorIDs...)
}

// formatCell renders a raw answer as text. Checklists become their checked
// item ids, in configuration order, joined by ';'.
func formatCell(f scoring.Factor, raw any) string {
	if f.Kind == scoring.KindChecklist {
		checked := scoring.CheckedItems(raw)
		var ids []string
		for _, it := range f.Items {
			if checked[it.ID] {
				ids = append(ids, it.ID)
			}
		}
		return strings.Join(ids, ";")
	}

	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Write encodes t in format f, gzip-compressed when compress is set.
func Write(w io.Writer, f Format, t Table, compress bool) error {
	if !compress {
		return write(w, f, t)
	}
	zw := gzip.NewWriter(w)
	if err := write(zw, f, t); err != nil {
		_ = zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	return nil
}

func write(w io.Writer, f Format, t Table) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	case FormatParquet:
		return WriteParquet(w, t)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}
