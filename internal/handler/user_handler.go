package handler

import (
	"net/http"
	"strings"

	"jokes-api/internal/middleware"
	"jokes-api/internal/model"
	"jokes-api/internal/service"
	"jokes-api/pkg/apierror"
)

type UserHandler struct {
	users *service.UserService
	auth  *service.AuthService
}

func NewUserHandler(users *service.UserService, auth *service.AuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

// Update edits the principal's name and email. The old token names the old
// email, so a fresh one is returned with the user.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("authentication required"))
		return
	}

	var payload model.EditUserRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if strings.TrimSpace(payload.Email) == "" {
		payload.Email = principal.Email
	}
	if strings.TrimSpace(payload.Name) == "" {
		payload.Name = principal.Name
	}

	user, err := h.users.Edit(r.Context(), principal.Email, payload.Name, payload.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.auth.IssueFor(user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.EditedUser{User: user.Public(), Token: token}, nil)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("authentication required"))
		return
	}

	email := r.URL.Query().Get("email")
	if strings.TrimSpace(email) == "" {
		writeError(w, apierror.BadRequest("email query parameter is required", "email"))
		return
	}

	if err := h.users.DeleteAccount(r.Context(), principal, email); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}
