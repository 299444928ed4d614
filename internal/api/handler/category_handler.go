package handler

import (
	"encoding/json"
	"net/http"

	"melodia/internal/api/middleware"
	"melodia/internal/app/service"
	"melodia/internal/common"

	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterRoutes mounts the category routes. Reads are public; mutations
// require an authenticated admin.
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/all", h.list)
	r.Get("/{categoryID}", h.getByID)
	r.Get("/{categoryID}/songs", h.songs)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator, middleware.AdminOnly)
		r.Post("/create", h.create)
		r.Put("/update/{categoryID}", h.update)
		r.Delete("/delete/{categoryID}", h.delete)
	})
}

func (h *CategoryHandler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "categoryID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	category, err := h.categoryService.GetByID(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) songs(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "categoryID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	songs, err := h.categoryService.Songs(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, songs)
}

func (h *CategoryHandler) create(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	var in service.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	category, err := h.categoryService.Create(r.Context(), actorID, in)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) update(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	id, err := pathID(r, "categoryID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var in service.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	category, err := h.categoryService.Update(r.Context(), actorID, id, in)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) delete(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	id, err := pathID(r, "categoryID")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	if err := h.categoryService.Delete(r.Context(), actorID, id); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Category deleted successfully"})
}
