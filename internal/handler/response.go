package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"jokes-api/internal/model"
	"jokes-api/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    apierror.CodeInternal,
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		body.Message = "User not found"
	case errors.Is(err, model.ErrJokeNotFound):
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		body.Message = "Joke not found"
	case errors.Is(err, model.ErrDuplicateEmail):
		status = http.StatusConflict
		body.Code = apierror.CodeConflict
		body.Message = "Email already registered"
	case errors.Is(err, model.ErrDuplicateKey):
		status = http.StatusConflict
		body.Code = apierror.CodeConflict
		body.Message = "Resource already exists"
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		body.Code = apierror.CodeInvalidCredentials
		body.Message = "Invalid credentials"
	case errors.Is(err, model.ErrInvalidToken):
		status = http.StatusUnauthorized
		body.Code = apierror.CodeUnauthenticated
		body.Message = "Invalid or expired token"
	case errors.Is(err, model.ErrPrincipalNotFound):
		status = http.StatusUnauthorized
		body.Code = apierror.CodePrincipalNotFound
		body.Message = "Token user no longer exists"
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		body.Code = apierror.CodeForbidden
		body.Message = "Access denied"
	case errors.Is(err, model.ErrUpstreamUnavailable):
		status = http.StatusServiceUnavailable
		body.Code = apierror.CodeUpstreamUnavailable
		body.Message = "Joke API is unavailable"
	case errors.Is(err, model.ErrUpstreamFailure):
		status = http.StatusBadGateway
		body.Code = apierror.CodeUpstreamError
		body.Message = "Joke API request failed"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		body.Code = apierror.CodeBadRequest
		body.Message = "Invalid input"
	case errors.Is(err, model.ErrStore), errors.Is(err, model.ErrJokeIDSpace):
		body.Code = apierror.CodeStoreError
		body.Message = "Storage failure"
		slog.Error("store error", "error", err)
	default:
		slog.Error("unhandled error in writeError", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return apierror.BadRequest("invalid JSON body", "")
	}
	return nil
}

const maxBodyBytes = 1 << 16
