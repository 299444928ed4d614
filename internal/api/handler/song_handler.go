package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"melodia/internal/api/middleware"
	"melodia/internal/app/service"
	"melodia/internal/common"

	"github.com/go-chi/chi/v5"
)

type SongHandler struct {
	songService *service.SongService
}

func NewSongHandler(songService *service.SongService) *SongHandler {
	return &SongHandler{songService: songService}
}

// RegisterRoutes mounts the song routes. Reads are public; mutations require
// an authenticated admin.
func (h *SongHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/search", h.search)
	r.Get("/{songID}", h.getByID)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator, middleware.AdminOnly)
		r.Post("/create", h.create)
		r.Put("/update/{songID}", h.update)
		r.Delete("/delete/{songID}", h.delete)
	})
}

func (h *SongHandler) list(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songService.List(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, songs)
}

func (h *SongHandler) search(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	artist := r.URL.Query().Get("artist")

	songs, err := h.songService.Search(r.Context(), title, artist)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, songs)
}

func (h *SongHandler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "songID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	song, err := h.songService.GetByID(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, song)
}

func (h *SongHandler) create(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	var in service.SongInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	song, err := h.songService.Create(r.Context(), actorID, in)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, song)
}

func (h *SongHandler) update(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	id, err := pathID(r, "songID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	var in service.SongInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	song, err := h.songService.Update(r.Context(), actorID, id, in)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, song)
}

func (h *SongHandler) delete(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	id, err := pathID(r, "songID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	if err := h.songService.Delete(r.Context(), actorID, id); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Song deleted successfully"})
}

// pathID parses a chi URL parameter as an int64 id.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
