package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"jokes-api/internal/middleware"
	"jokes-api/internal/model"
	"jokes-api/internal/service"
	"jokes-api/pkg/apierror"
)

type JokeHandler struct {
	jokes   *service.JokeService
	fetcher service.JokeFetcher
}

func NewJokeHandler(jokes *service.JokeService, fetcher service.JokeFetcher) *JokeHandler {
	return &JokeHandler{jokes: jokes, fetcher: fetcher}
}

func (h *JokeHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("authentication required"))
		return
	}

	var payload model.CreateJokeRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	joke, err := h.jokes.Create(r.Context(), payload.Joke, &principal, payload.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, model.CreatedJoke{JokeID: joke.ID}, nil)
}

func (h *JokeHandler) List(w http.ResponseWriter, r *http.Request) {
	jokes, err := h.jokes.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if jokes == nil {
		jokes = []model.Joke{}
	}

	writeSuccess(w, http.StatusOK, model.JokeList{Jokes: jokes}, &model.Meta{Total: len(jokes)})
}

func (h *JokeHandler) Get(w http.ResponseWriter, r *http.Request) {
	joke, err := h.jokes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, joke, nil)
}

func (h *JokeHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("authentication required"))
		return
	}

	var payload model.UpdateJokeRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.jokes.Update(r.Context(), principal, id, payload.Joke); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"updated": true, "joke_id": id}, nil)
}

func (h *JokeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("authentication required"))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.jokes.Delete(r.Context(), principal, id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true, "joke_id": id}, nil)
}

func (h *JokeHandler) Owner(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("authentication required"))
		return
	}

	owner, err := h.jokes.IsOwner(r.Context(), chi.URLParam(r, "id"), principal)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"is_owner": owner}, nil)
}

// Random imports a joke from the external API right now, authored by the
// caller.
func (h *JokeHandler) Random(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("authentication required"))
		return
	}

	joke, err := h.jokes.Import(r.Context(), h.fetcher, &principal)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, joke, nil)
}
