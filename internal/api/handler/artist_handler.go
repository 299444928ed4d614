package handler

import (
	"encoding/json"
	"net/http"

	"melodia/internal/api/middleware"
	"melodia/internal/app/service"
	"melodia/internal/common"

	"github.com/go-chi/chi/v5"
)

type ArtistHandler struct {
	artistService *service.ArtistService
}

func NewArtistHandler(artistService *service.ArtistService) *ArtistHandler {
	return &ArtistHandler{artistService: artistService}
}

// RegisterRoutes mounts the artist routes. Reads are public; mutations
// require an authenticated admin.
func (h *ArtistHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/names", h.names)
	r.Get("/search/{name}", h.search)
	r.Get("/{artistID}", h.getByID)
	r.Get("/{artistID}/songs", h.songs)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator, middleware.AdminOnly)
		r.Post("/create", h.create)
		r.Put("/update/{artistID}", h.update)
		r.Delete("/delete/{artistID}", h.delete)
	})
}

func (h *ArtistHandler) list(w http.ResponseWriter, r *http.Request) {
	artists, err := h.artistService.List(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, artists)
}

func (h *ArtistHandler) names(w http.ResponseWriter, r *http.Request) {
	artists, err := h.artistService.Names(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, artists)
}

func (h *ArtistHandler) search(w http.ResponseWriter, r *http.Request) {
	artists, err := h.artistService.Search(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, artists)
}

func (h *ArtistHandler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "artistID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid artist ID")
		return
	}

	artist, err := h.artistService.GetByID(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, artist)
}

func (h *ArtistHandler) songs(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "artistID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid artist ID")
		return
	}

	songs, err := h.artistService.Songs(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, songs)
}

func (h *ArtistHandler) create(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	var in service.ArtistInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	artist, err := h.artistService.Create(r.Context(), actorID, in)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, artist)
}

func (h *ArtistHandler) update(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	id, err := pathID(r, "artistID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid artist ID")
		return
	}

	var in service.ArtistInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	artist, err := h.artistService.Update(r.Context(), actorID, id, in)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, artist)
}

func (h *ArtistHandler) delete(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	id, err := pathID(r, "artistID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid artist ID")
		return
	}

	if err := h.artistService.Delete(r.Context(), actorID, id); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Artist deleted successfully"})
}
