package profile

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/user/devconnect-go/apperror"
	"github.com/user/devconnect-go/auth"
)

// Handlers provides HTTP handlers for profile management.
type Handlers struct {
	service  *ProfileService
	validate *validator.Validate
}

// NewHandlers creates new profile Handlers.
func NewHandlers(service *ProfileService) *Handlers {
	return &Handlers{service: service, validate: validator.New()}
}

// HandleGetMyProfile godoc
// @Summary Get current user's profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} profile.Profile
// @Failure 400 {object} apperror.ErrorResponse "No profile for this user"
// @Router /profile/me [get]
func (h *Handlers) HandleGetMyProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("missing credentials", nil))
			return
		}

		p, err := h.service.GetMyProfile(r.Context(), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, p)
	}
}

// HandleUpsert godoc
// @Summary Create or update the caller's profile
// @Description Partial update: only fields present in the body overwrite stored values.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profileBody body profile.UpsertProfileRequest true "Profile fields"
// @Success 201 {object} profile.Profile
// @Router /profile [post]
func (h *Handlers) HandleUpsert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("missing credentials", nil))
			return
		}

		var req UpsertProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		p, err := h.service.Upsert(r.Context(), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusCreated, p)
	}
}

// HandleList godoc
// @Summary List all profiles
// @Tags Profile
// @Produce json
// @Success 200 {array} profile.Profile
// @Router /profile [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := h.service.List(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, profiles)
	}
}

// HandleGetByUser godoc
// @Summary Get a profile by user id
// @Tags Profile
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} profile.Profile
// @Failure 400 {object} apperror.ErrorResponse "Profile not found"
// @Router /profile/user/{userID} [get]
func (h *Handlers) HandleGetByUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
		if err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("profile not found", nil))
			return
		}

		p, err := h.service.GetByUser(r.Context(), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, p)
	}
}

// HandleGithubRepos godoc
// @Summary List a GitHub user's latest public repos
// @Tags Profile
// @Produce json
// @Param username path string true "GitHub username"
// @Success 200 {array} profile.Repo
// @Failure 404 {object} apperror.ErrorResponse "No Github profile found"
// @Router /profile/github/{username} [get]
func (h *Handlers) HandleGithubRepos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repos, err := h.service.GithubRepos(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, repos)
	}
}

// HandleDeleteAccount godoc
// @Summary Delete the caller's account
// @Description Cascades: removes the user's posts, profile, and user record.
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /profile [delete]
func (h *Handlers) HandleDeleteAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("missing credentials", nil))
			return
		}

		if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, map[string]string{"msg": "User deleted successfully"})
	}
}

// HandleAddExperience godoc
// @Summary Add an experience entry
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param experienceBody body profile.AddExperienceRequest true "Experience entry"
// @Success 201 {object} profile.Profile
// @Failure 400 {object} apperror.ErrorResponse "Validation failure or no profile yet"
// @Router /profile/experience [put]
func (h *Handlers) HandleAddExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("missing credentials", nil))
			return
		}

		var req AddExperienceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := h.validate.Struct(req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("title, company and from date are required", err))
			return
		}

		p, err := h.service.AddExperience(r.Context(), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusCreated, p)
	}
}

// HandleRemoveExperience godoc
// @Summary Remove an experience entry by id
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Param entryID path string true "Experience entry ID"
// @Success 201 {object} profile.Profile
// @Failure 400 {object} apperror.ErrorResponse "Unknown entry id"
// @Router /profile/experience/{entryID} [delete]
func (h *Handlers) HandleRemoveExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("missing credentials", nil))
			return
		}

		p, err := h.service.RemoveExperience(r.Context(), userID, chi.URLParam(r, "entryID"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusCreated, p)
	}
}

// HandleAddEducation godoc
// @Summary Add an education entry
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param educationBody body profile.AddEducationRequest true "Education entry"
// @Success 201 {object} profile.Profile
// @Failure 400 {object} apperror.ErrorResponse "Validation failure or no profile yet"
// @Router /profile/education [put]
func (h *Handlers) HandleAddEducation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("missing credentials", nil))
			return
		}

		var req AddEducationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := h.validate.Struct(req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("school, degree, field of study and from date are required", err))
			return
		}

		p, err := h.service.AddEducation(r.Context(), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusCreated, p)
	}
}

// HandleRemoveEducation godoc
// @Summary Remove an education entry by id
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Param entryID path string true "Education entry ID"
// @Success 201 {object} profile.Profile
// @Failure 400 {object} apperror.ErrorResponse "Unknown entry id"
// @Router /profile/education/{entryID} [delete]
func (h *Handlers) HandleRemoveEducation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("missing credentials", nil))
			return
		}

		p, err := h.service.RemoveEducation(r.Context(), userID, chi.URLParam(r, "entryID"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusCreated, p)
	}
}
