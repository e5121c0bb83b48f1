package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alphalever/backend/internal/domain/scoring"
	"github.com/alphalever/backend/internal/service"
)

// adminCodeHeader carries the admin code on assessment requests.
const adminCodeHeader = "X-Admin-Code"

// ── Request / Response types ────────────────────────────────────────────────

type CreateUserRequest struct {
	Email     string `json:"email" example:"jake@example.com"`
	Name      string `json:"name" example:"Jake"`
	AdminCode string `json:"admin_code,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	return nil
}

type UpdateUserRequest struct {
	Name string `json:"name" example:"Jacob"`
}

func (r *UpdateUserRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

type SaveAnswersRequest struct {
	Answers scoring.Answers `json:"answers"`
}

func (r *SaveAnswersRequest) Validate() error {
	if r.Answers == nil {
		return errors.New("answers is required")
	}
	return nil
}

type SetAssessmentRequest struct {
	Value any `json:"value" swaggertype:"number" example:"80"`
}

func (r *SetAssessmentRequest) Validate() error {
	if r.Value == nil {
		return errors.New("value is required")
	}
	return nil
}

type UserResponse struct {
	ID        string          `json:"id" example:"a1b2c3d4e5f6a7b8"`
	Email     string          `json:"email" example:"jake@example.com"`
	Name      string          `json:"name" example:"Jake"`
	IsAdmin   bool            `json:"is_admin"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Score     int             `json:"score" example:"653"`
	Tier      string          `json:"tier" example:"Contender"`
	Answers   scoring.Answers `json:"answers,omitempty"`
}

func newUserResponse(su *service.ScoredUser, withAnswers bool) UserResponse {
	resp := UserResponse{
		ID:        su.User.ID,
		Email:     su.User.Email,
		Name:      su.User.Name,
		IsAdmin:   su.User.IsAdmin,
		CreatedAt: su.User.CreatedAt,
		UpdatedAt: su.User.UpdatedAt,
		Score:     su.Result.Score,
		Tier:      su.Result.Tier.Name,
	}
	if withAnswers {
		resp.Answers = su.User.Answers
	}
	return resp
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createUser registers a user.
// @Summary      Register a user
// @Description  Registers a user by email. A correct admin_code marks the user as admin; a wrong one is rejected.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      CreateUserRequest  true  "User to register"
// @Success      201   {object}  UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users [post]
func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	su, err := h.scoreboard.Register(r.Context(), req.Email, req.Name, req.AdminCode)
	if h.handleStoreError(w, err, "user") {
		return
	}

	respondJSON(w, http.StatusCreated, newUserResponse(su, true))
}

// listUsers lists users in registration order.
// @Summary      List users
// @Tags         Users
// @Produce      json
// @Success      200  {array}   UserResponse
// @Failure      500  {object}  map[string]string
// @Router       /users [get]
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.scoreboard.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load users")
		return
	}

	response := make([]UserResponse, len(users))
	for i := range users {
		response[i] = newUserResponse(&users[i], false)
	}
	respondJSON(w, http.StatusOK, response)
}

// getUser returns a user with their answers and score.
// @Summary      Get a user
// @Tags         Users
// @Produce      json
// @Param        email  path      string  true  "User email"
// @Success      200    {object}  UserResponse
// @Failure      404    {object}  map[string]string
// @Router       /users/{email} [get]
func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	su, err := h.scoreboard.GetUser(r.Context(), r.PathValue("email"))
	if h.handleStoreError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, newUserResponse(su, true))
}

// updateUser changes the display name.
// @Summary      Rename a user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        email  path      string             true  "User email"
// @Param        body   body      UpdateUserRequest  true  "New name"
// @Success      200    {object}  UserResponse
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /users/{email} [put]
func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	su, err := h.scoreboard.Rename(r.Context(), r.PathValue("email"), req.Name)
	if h.handleStoreError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, newUserResponse(su, true))
}

// deleteUser removes a user.
// @Summary      Delete a user
// @Tags         Users
// @Param        email  path  string  true  "User email"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users/{email} [delete]
func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if h.handleStoreError(w, h.scoreboard.DeleteUser(r.Context(), r.PathValue("email")), "user") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// saveAnswers replaces a user's answers.
// @Summary      Save answers
// @Description  Replaces the user's answer bag and returns the new score. Values for admin-assessed factors are ignored.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        email  path      string              true  "User email"
// @Param        body   body      SaveAnswersRequest  true  "Answers"
// @Success      200    {object}  UserResponse
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /users/{email}/answers [put]
func (h *Handler) saveAnswers(w http.ResponseWriter, r *http.Request) {
	var req SaveAnswersRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	su, err := h.scoreboard.SaveAnswers(r.Context(), r.PathValue("email"), req.Answers)
	if h.handleStoreError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, newUserResponse(su, true))
}

// setAssessment records an admin-assessed factor.
// @Summary      Set an admin assessment
// @Description  Sets the value of a read-only factor. Requires the admin code in the X-Admin-Code header.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        email         path      string                true  "User email"
// @Param        factorID      path      string                true  "Factor ID"
// @Param        X-Admin-Code  header    string                true  "Admin code"
// @Param        body          body      SetAssessmentRequest  true  "Value"
// @Success      200           {object}  UserResponse
// @Failure      400           {object}  map[string]string
// @Failure      403           {object}  map[string]string
// @Failure      404           {object}  map[string]string
// @Router       /users/{email}/assessments/{factorID} [put]
func (h *Handler) setAssessment(w http.ResponseWriter, r *http.Request) {
	var req SetAssessmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	su, err := h.scoreboard.SetAssessment(r.Context(),
		r.PathValue("email"), r.PathValue("factorID"), r.Header.Get(adminCodeHeader), req.Value)
	if h.handleStoreError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, newUserResponse(su, true))
}
