package api

import (
	"net/http"
	"strconv"
)

type LeaderboardEntryResponse struct {
	Rank  int    `json:"rank" example:"1"`
	Email string `json:"email" example:"jake@example.com"`
	Name  string `json:"name" example:"Jake"`
	Score int    `json:"score" example:"912"`
	Tier  string `json:"tier" example:"Apex"`
}

// getLeaderboard ranks users by score.
// @Summary      Leaderboard
// @Description  Users ordered by descending score; ties keep registration order.
// @Tags         Rankings
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries (0 = all)"
// @Success      200    {array}   LeaderboardEntryResponse
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /leaderboard [get]
func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := h.scoreboard.Leaderboard(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to build leaderboard", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to build leaderboard")
		return
	}

	response := make([]LeaderboardEntryResponse, len(entries))
	for i, e := range entries {
		response[i] = LeaderboardEntryResponse{
			Rank:  e.Rank,
			Email: e.Email,
			Name:  e.Name,
			Score: e.Score,
			Tier:  e.Tier.Name,
		}
	}
	respondJSON(w, http.StatusOK, response)
}
