package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

type jsonDocument struct {
	ExportedAt string   `json:"exported_at"`
	Factors    []string `json:"factors"`
	Users      []Row    `json:"users"`
}

func WriteJSON(w io.Writer, t Table) error {
	doc := jsonDocument{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Factors:    t.FactorIDs,
		Users:      t.Rows,
	}
	if doc.Factors == nil {
		doc.Factors = []string{}
	}
	if doc.Users == nil {
		doc.Users = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode json export: %w", err)
	}
	return nil
}
