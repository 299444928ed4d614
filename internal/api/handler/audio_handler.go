package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"melodia/internal/common"

	"github.com/go-chi/chi/v5"
)

// AudioHandler answers existence checks for audio files served from the
// public directory.
type AudioHandler struct {
	publicDir string
}

func NewAudioHandler(publicDir string) *AudioHandler {
	return &AudioHandler{publicDir: publicDir}
}

func (h *AudioHandler) RegisterRoutes(r chi.Router) {
	r.Get("/check-audio/{filename}", h.checkAudio)
}

func (h *AudioHandler) checkAudio(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	// Reject anything that could escape the public directory.
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	_, err := os.Stat(filepath.Join(h.publicDir, filename))
	exists := err == nil
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}
