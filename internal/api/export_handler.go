package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/alphalever/backend/internal/export"
)

// exportUsers streams every user with their score and answers.
// @Summary      Export users
// @Description  Bulk export as CSV (default), JSON or Parquet. CSV columns: email, is_admin, created_at, name, score, tier, then one column per factor.
// @Tags         Rankings
// @Produce      text/csv
// @Produce      json
// @Produce      application/vnd.apache.parquet
// @Param        format  query  string  false  "csv | json | parquet"
// @Param        gzip    query  bool    false  "gzip-compress the file"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /export [get]
func (h *Handler) exportUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	compress, _ := strconv.ParseBool(q.Get("gzip"))

	users, err := h.scoreboard.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("failed to load users for export", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load users")
		return
	}

	// Encode fully before writing so a failure can still produce a 500.
	var buf bytes.Buffer
	table := export.NewTable(h.scoreboard.Config(), users)
	if err := export.Write(&buf, format, table, compress); err != nil {
		h.logger.Error("failed to encode export", "format", format, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to encode export")
		return
	}

	filename := "alphalever-export" + format.Extension()
	contentType := format.ContentType()
	if compress {
		filename += ".gz"
		contentType = "application/gzip"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
