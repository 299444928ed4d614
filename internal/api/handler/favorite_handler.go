package handler

import (
	"encoding/json"
	"net/http"

	"melodia/internal/api/middleware"
	"melodia/internal/app/service"
	"melodia/internal/common"

	"github.com/go-chi/chi/v5"
)

type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

func (h *FavoriteHandler) RegisterRoutes(r chi.Router) {
	r.Get("/user/{userID}", h.list)
	r.Post("/add", h.add)
	r.Delete("/{userID}/{songID}/remove", h.remove)
	r.Get("/check/{userID}/{songID}", h.status)
}

// ownUserID parses the userID path parameter and rejects requests where it
// does not match the authenticated caller. Favorites are private.
func ownUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return 0, false
	}
	pathUserID, err := pathID(r, "userID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return 0, false
	}
	if pathUserID != userID {
		common.RespondWithError(w, http.StatusForbidden, "favorites belong to another user")
		return 0, false
	}
	return userID, true
}

func (h *FavoriteHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownUserID(w, r)
	if !ok {
		return
	}

	songs, err := h.favoriteService.List(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, songs)
}

func (h *FavoriteHandler) add(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	var req struct {
		SongID int64 `json:"song_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.favoriteService.Add(r.Context(), userID, req.SongID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, common.MessageResponse{Message: "Song added to favorites"})
}

func (h *FavoriteHandler) remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownUserID(w, r)
	if !ok {
		return
	}
	songID, err := pathID(r, "songID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	if err := h.favoriteService.Remove(r.Context(), userID, songID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Song removed from favorites"})
}

func (h *FavoriteHandler) status(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownUserID(w, r)
	if !ok {
		return
	}
	songID, err := pathID(r, "songID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	exists, err := h.favoriteService.Exists(r.Context(), userID, songID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"favorite": exists})
}
