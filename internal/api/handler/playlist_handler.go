package handler

import (
	"encoding/json"
	"net/http"

	"melodia/internal/api/middleware"
	"melodia/internal/app/service"
	"melodia/internal/common"

	"github.com/go-chi/chi/v5"
)

type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

// RegisterRoutes mounts the playlist routes. All of them require an
// authenticated caller; ownership checks live in the service.
func (h *PlaylistHandler) RegisterRoutes(r chi.Router) {
	r.Post("/createPlaylist", h.create)
	r.Get("/user/{userID}", h.listByUser)
	r.Get("/others/{userID}", h.listOthers)
	r.Get("/{playlistID}", h.getByID)
	r.Put("/{playlistID}/update", h.rename)
	r.Delete("/{playlistID}/delete", h.delete)
	r.Post("/add-song", h.addSong)
	r.Delete("/remove-song/{songID}", h.removeSong)
}

func (h *PlaylistHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	var in service.PlaylistInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	playlist, err := h.playlistService.Create(r.Context(), userID, in)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, playlist)
}

func (h *PlaylistHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	playlists, err := h.playlistService.ListByUser(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, playlists)
}

func (h *PlaylistHandler) listOthers(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	playlists, err := h.playlistService.ListByOthers(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, playlists)
}

func (h *PlaylistHandler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "playlistID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	playlist, err := h.playlistService.GetByID(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, playlist)
}

func (h *PlaylistHandler) rename(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	id, err := pathID(r, "playlistID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.playlistService.Rename(r.Context(), userID, id, req.Title); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Playlist updated successfully"})
}

func (h *PlaylistHandler) delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	id, err := pathID(r, "playlistID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	if err := h.playlistService.Delete(r.Context(), userID, id); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Playlist deleted successfully"})
}

func (h *PlaylistHandler) addSong(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	var req struct {
		PlaylistID int64 `json:"playlist_id"`
		SongID     int64 `json:"song_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.playlistService.AddSong(r.Context(), userID, req.PlaylistID, req.SongID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Song added to playlist"})
}

func (h *PlaylistHandler) removeSong(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	songID, err := pathID(r, "songID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	if err := h.playlistService.RemoveSong(r.Context(), userID, songID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Song removed from playlist"})
}
