package api

import (
	"net/http"

	"github.com/alphalever/backend/internal/domain/scoring"
)

// ── Request / Response types ────────────────────────────────────────────────

type ScoreResponse struct {
	Score     int                   `json:"score" example:"653"`
	Tier      scoring.Tier          `json:"tier"`
	Breakdown []scoring.FactorScore `json:"breakdown,omitempty"`
}

type FactorsResponse struct {
	TotalWeight float64          `json:"total_weight" example:"1.196"`
	Sections    []string         `json:"sections"`
	Factors     []scoring.Factor `json:"factors"`
}

func newScoreResponse(res scoring.Result) ScoreResponse {
	return ScoreResponse{Score: res.Score, Tier: res.Tier, Breakdown: res.Breakdown}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// health reports liveness.
// @Summary      Health check
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listFactors returns the active factor configuration.
// @Summary      List scoring factors
// @Description  Returns every factor with its kind, weight and scoring parameters, in questionnaire order.
// @Tags         Scoring
// @Produce      json
// @Success      200  {object}  FactorsResponse
// @Router       /factors [get]
func (h *Handler) listFactors(w http.ResponseWriter, r *http.Request) {
	cfg := h.scoreboard.Config()
	respondJSON(w, http.StatusOK, FactorsResponse{
		TotalWeight: cfg.TotalWeight(),
		Sections:    cfg.Sections(),
		Factors:     cfg.Factors,
	})
}

// listTiers returns the tier table.
// @Summary      List tiers
// @Tags         Scoring
// @Produce      json
// @Success      200  {array}  scoring.Tier
// @Router       /tiers [get]
func (h *Handler) listTiers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, scoring.Tiers())
}

// previewScore scores an answer bag without storing it.
// @Summary      Preview a score
// @Description  Scores the posted answers (factor id → raw value). Nothing is persisted; malformed values count as 0.
// @Tags         Scoring
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]interface{}  true  "Answer bag"
// @Success      200   {object}  ScoreResponse
// @Failure      400   {object}  map[string]string
// @Router       /score [post]
func (h *Handler) previewScore(w http.ResponseWriter, r *http.Request) {
	var answers scoring.Answers
	if !decodeJSON(w, r, &answers) {
		return
	}
	respondJSON(w, http.StatusOK, newScoreResponse(h.scoreboard.Preview(answers)))
}
