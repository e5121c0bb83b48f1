package export

import (
	"fmt"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"
)

// UserRecord is the Parquet schema of one exported user.
type UserRecord struct {
	Email     string         `parquet:"email,snappy"`
	IsAdmin   bool           `parquet:"is_admin"`
	CreatedAt time.Time      `parquet:"created_at,snappy"`
	Name      string         `parquet:"name,snappy"`
	Score     int32          `parquet:"score,snappy"`
	Tier      string         `parquet:"tier,snappy,dict"`
	Answers   []AnswerRecord `parquet:"answers"`
}

// AnswerRecord is one answered factor. Unanswered factors are omitted.
type AnswerRecord struct {
	FactorID string `parquet:"factor_id,snappy,dict"`
	Value    string `parquet:"value,snappy"`
}

func parquetRecords(t Table) []UserRecord {
	out := make([]UserRecord, len(t.Rows))
	for i, r := range t.Rows {
		rec := UserRecord{
			Email:     r.Email,
			IsAdmin:   r.IsAdmin,
			CreatedAt: r.CreatedAt.UTC(),
			Name:      r.Name,
			Score:     int32(r.Score),
			Tier:      r.Tier,
		}
		for j, cell := range r.Cells {
			if _, answered := r.Answers[t.FactorIDs[j]]; answered {
				rec.Answers = append(rec.Answers, AnswerRecord{FactorID: t.FactorIDs[j], Value: cell})
			}
		}
		out[i] = rec
	}
	return out
}

func WriteParquet(w io.Writer, t Table) error {
	writer := parquet.NewGenericWriter[UserRecord](w)
	if _, err := writer.Write(parquetRecords(t)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}
