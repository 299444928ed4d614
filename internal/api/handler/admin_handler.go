package handler

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"melodia/internal/api/middleware"
	"melodia/internal/app/service"
	"melodia/internal/domain/model"
	"melodia/internal/platform/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

//go:embed templates/admin/*.html
var adminTemplates embed.FS

// AdminHandler serves the server-rendered management panel. It authenticates
// with cookie sessions instead of bearer tokens and renders HTML, not JSON.
type AdminHandler struct {
	adminService    *service.AdminService
	songService     *service.SongService
	artistService   *service.ArtistService
	categoryService *service.CategoryService
	sessions        session.Store
	templates       map[string]*template.Template
	log             zerolog.Logger
}

func NewAdminHandler(
	adminService *service.AdminService,
	songService *service.SongService,
	artistService *service.ArtistService,
	categoryService *service.CategoryService,
	sessions session.Store,
	log zerolog.Logger,
) *AdminHandler {
	pages := []string{
		"login", "dashboard",
		"songs", "song_form",
		"artists", "artist_form",
		"categories", "category_form",
		"users",
	}
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		templates[page] = template.Must(template.ParseFS(adminTemplates,
			"templates/admin/layout.html",
			"templates/admin/"+page+".html"))
	}

	return &AdminHandler{
		adminService:    adminService,
		songService:     songService,
		artistService:   artistService,
		categoryService: categoryService,
		sessions:        sessions,
		templates:       templates,
		log:             log,
	}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/login", h.loginPage)
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminSession(h.sessions))
		r.Post("/logout", h.logout)
		r.Get("/", h.dashboard)

		r.Get("/songs", h.songList)
		r.Get("/songs/new", h.songForm)
		r.Post("/songs", h.songCreate)
		r.Get("/songs/{songID}/edit", h.songForm)
		r.Post("/songs/{songID}", h.songUpdate)
		r.Post("/songs/{songID}/delete", h.songDelete)

		r.Get("/artists", h.artistList)
		r.Get("/artists/new", h.artistForm)
		r.Post("/artists", h.artistCreate)
		r.Get("/artists/{artistID}/edit", h.artistForm)
		r.Post("/artists/{artistID}", h.artistUpdate)
		r.Post("/artists/{artistID}/delete", h.artistDelete)

		r.Get("/categories", h.categoryList)
		r.Get("/categories/new", h.categoryForm)
		r.Post("/categories", h.categoryCreate)
		r.Get("/categories/{categoryID}/edit", h.categoryForm)
		r.Post("/categories/{categoryID}", h.categoryUpdate)
		r.Post("/categories/{categoryID}/delete", h.categoryDelete)

		r.Get("/users", h.userList)
	})
}

// viewData is the payload every page template receives.
type viewData struct {
	Title   string
	Admin   *session.Session
	Flashes []session.Flash
	Error   string
	Data    interface{}
}

func (h *AdminHandler) render(w http.ResponseWriter, r *http.Request, page string, data viewData) {
	if id, sess, ok := middleware.GetAdminSession(r.Context()); ok {
		data.Admin = sess
		data.Flashes = session.PopFlashes(r.Context(), h.sessions, id, sess)
	}

	tmpl, ok := h.templates[page]
	if !ok {
		h.log.Error().Str("page", page).Msg("unknown admin template")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		h.log.Error().Err(err).Str("page", page).Msg("failed to render admin template")
	}
}

func (h *AdminHandler) flashAndRedirect(w http.ResponseWriter, r *http.Request, kind, text, target string) {
	if id, _, ok := middleware.GetAdminSession(r.Context()); ok {
		if err := session.AddFlash(r.Context(), h.sessions, id, kind, text); err != nil {
			h.log.Warn().Err(err).Msg("failed to store flash message")
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// loginFlashes maps the codes carried on the login redirect to the message
// shown above the form. There is no session yet at that point, so the flash
// travels in the query string instead of the store.
var loginFlashes = map[string]string{
	"invalid_credentials": "Invalid email or password",
	"server_error":        "Something went wrong, try again",
}

func (h *AdminHandler) loginPage(w http.ResponseWriter, r *http.Request) {
	data := viewData{Title: "Sign in"}
	if text, ok := loginFlashes[r.URL.Query().Get("flash")]; ok {
		data.Flashes = []session.Flash{{Kind: "error", Text: text}}
	}
	h.render(w, r, "login", data)
}

func (h *AdminHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/admin/login?flash=invalid_credentials", http.StatusSeeOther)
		return
	}

	user, err := h.adminService.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		http.Redirect(w, r, "/admin/login?flash=invalid_credentials", http.StatusSeeOther)
		return
	}

	id, err := h.sessions.Create(r.Context(), &session.Session{
		AdminID: user.ID,
		Name:    user.FirstName + " " + user.LastName,
		Email:   user.Email,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create admin session")
		http.Redirect(w, r, "/admin/login?flash=server_error", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    id,
		Path:     "/admin",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) logout(w http.ResponseWriter, r *http.Request) {
	if id, _, ok := middleware.GetAdminSession(r.Context()); ok {
		if err := h.sessions.Destroy(r.Context(), id); err != nil {
			h.log.Warn().Err(err).Msg("failed to destroy admin session")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/admin",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func (h *AdminHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	_, sess, _ := middleware.GetAdminSession(r.Context())

	dash, err := h.adminService.Dashboard(r.Context(), sess.AdminID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load dashboard")
		h.render(w, r, "dashboard", viewData{Title: "Dashboard", Error: "Failed to load dashboard data"})
		return
	}
	h.render(w, r, "dashboard", viewData{Title: "Dashboard", Data: dash})
}

func (h *AdminHandler) songList(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songService.List(r.Context())
	if err != nil {
		h.render(w, r, "songs", viewData{Title: "Songs", Error: "Failed to load songs"})
		return
	}
	h.render(w, r, "songs", viewData{Title: "Songs", Data: songs})
}

// songFormData backs both the create and edit forms.
type songFormData struct {
	Song       *model.SongDetail
	Artists    []model.Artist
	Categories []model.Category
}

func (h *AdminHandler) songForm(w http.ResponseWriter, r *http.Request) {
	artists, err := h.artistService.Names(r.Context())
	if err != nil {
		h.render(w, r, "song_form", viewData{Title: "Song", Error: "Failed to load artists"})
		return
	}
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		h.render(w, r, "song_form", viewData{Title: "Song", Error: "Failed to load categories"})
		return
	}

	data := songFormData{Artists: artists, Categories: categories}
	if raw := chi.URLParam(r, "songID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		song, err := h.songService.GetByID(r.Context(), id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		data.Song = song
	}
	h.render(w, r, "song_form", viewData{Title: "Song", Data: data})
}

func (h *AdminHandler) songCreate(w http.ResponseWriter, r *http.Request) {
	_, sess, _ := middleware.GetAdminSession(r.Context())

	in, err := songInputFromForm(r)
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Invalid form submission", "/admin/songs/new")
		return
	}
	if _, err := h.songService.Create(r.Context(), sess.AdminID, in); err != nil {
		h.flashAndRedirect(w, r, "error", "Failed to create song: "+err.Error(), "/admin/songs/new")
		return
	}
	h.flashAndRedirect(w, r, "success", "Song created", "/admin/songs")
}

func (h *AdminHandler) songUpdate(w http.ResponseWriter, r *http.Request) {
	_, sess, _ := middleware.GetAdminSession(r.Context())
	id, err := pathID(r, "songID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	in, err := songInputFromForm(r)
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Invalid form submission", "/admin/songs")
		return
	}
	if _, err := h.songService.Update(r.Context(), sess.AdminID, id, in); err != nil {
		h.flashAndRedirect(w, r, "error", "Failed to update song: "+err.Error(), "/admin/songs")
		return
	}
	h.flashAndRedirect(w, r, "success", "Song updated", "/admin/songs")
}

func (h *AdminHandler) songDelete(w http.ResponseWriter, r *http.Request) {
	_, sess, _ := middleware.GetAdminSession(r.Context())
	id, err := pathID(r, "songID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.songService.Delete(r.Context(), sess.AdminID, id); err != nil {
		h.flashAndRedirect(w, r, "error", "Failed to delete song: "+err.Error(), "/admin/songs")
		return
	}
	h.flashAndRedirect(w, r, "success", "Song deleted", "/admin/songs")
}

func songInputFromForm(r *http.Request) (service.SongInput, error) {
	if err := r.ParseForm(); err != nil {
		return service.SongInput{}, err
	}

	duration, _ := strconv.Atoi(r.FormValue("duration"))
	in := service.SongInput{
		Title:     r.FormValue("title"),
		Album:     r.FormValue("album"),
		Duration:  duration,
		PathSong:  r.FormValue("path_song"),
		ImagePath: r.FormValue("image_path"),
	}
	for _, raw := range r.Form["artist_ids"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return service.SongInput{}, err
		}
		in.ArtistIDs = append(in.ArtistIDs, id)
	}
	for _, raw := range r.Form["category_ids"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return service.SongInput{}, err
		}
		in.CategoryIDs = append(in.CategoryIDs, id)
	}
	return in, nil
}

func (h *AdminHandler) artistList(w http.ResponseWriter, r *http.Request) {
	artists, err := h.artistService.List(r.Context())
	if err != nil {
		h.render(w, r, "artists", viewData{Title: "Artists", Error: "Failed to load artists"})
		return
	}
	h.render(w, r, "artists", viewData{Title: "Artists", Data: artists})
}

func (h *AdminHandler) artistForm(w http.ResponseWriter, r *http.Request) {
	var artist *model.Artist
	if raw := chi.URLParam(r, "artistID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		artist, err = h.artistService.GetByID(r.Context(), id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
	}
	h.render(w, r, "artist_form", viewData{Title: "Artist", Data: artist})
}

func (h *AdminHandler) artistCreate(w http.ResponseWriter, r *http.Request) {
	_, sess, _ := middleware.GetAdminSession(r.Context())
	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "Invalid form submission", "/admin/artists/new")
		return
	}

	in := service.ArtistInput{Name: r.FormValue("name")}
	if photo := r.FormValue("photo"); photo != "" {
		in.Photo = &photo
	}
	if _, err := h.artistService.Create(r.Context(), sess.AdminID, in); err != nil {
		h.flashAndRedirect(w, r, "error", "Failed to create artist: "+err.Error(), "/admin/artists/new")
		return
	}
	h.flashAndRedirect(w, r, "success", "Artist created", "/admin/artists")
}

func (h *AdminHandler) artistUpdate(w http.ResponseWriter, r *http.Request) {
	_, sess, _ := middleware.GetAdminSession(r.Context())
	id, err := pathID(r, "artistID")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "Invalid form submission", "/admin/artists")
		return
	}

	in := service.ArtistInput{Name: r.FormValue("name")}
	if photo := r.FormValue("photo"); photo != "" {
		in.Photo = &photo
	}
	if _, err := h.artistService.Update(r.Context(), sess.AdminID, id, in); err != nil {
		h.flashAndRedirect(w, r, "error", "Failed to update artist: "+err.Error(), "/admin/artists")
		return
	}
	h.flashAndRedirect(w, r, "success", "Artist updated", "/admin/artists")
}

func (h *AdminHandler) artistDelete(w http.ResponseWriter, r *http.Request) {
	_, sess, _ := middleware.GetAdminSession(r.Context())
	id, err := pathID(r, "artistID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.artistService.Delete(r.Context(), sess.AdminID, id); err != nil {
		h.flashAndRedirect(w, r, "error", "Failed to delete artist: "+err.Error(), "/admin/artists")
		return
	}
	h.flashAndRedirect(w, r, "success", "Artist deleted", "/admin/artists")
}

func (h *AdminHandler) categoryList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		h.render(w, r, "categories", viewData{Title: "Categories", Error: "Failed to load categories"})
		return
	}
	h.render(w, r, "categories", viewData{Title: "Categories", Data: categories})
}

func (h *AdminHandler) categoryForm(w http.ResponseWriter, r *http.Request) {
	var category *model.Category
	if raw := chi.URLParam(r, "categoryID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		category, err = h.categoryService.GetByID(r.Context(), id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
	}
	h.render(w, r, "category_form", viewData{Title: "Category", Data: category})
}

func (h *AdminHandler) categoryCreate(w http.ResponseWriter, r *http.Request) {
	_, sess, _ := middleware.GetAdminSession(r.Context())
	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "Invalid form submission", "/admin/categories/new")
		return
	}

	in := service.CategoryInput{Name: r.FormValue("name")}
	if _, err := h.categoryService.Create(r.Context(), sess.AdminID, in); err != nil {
		h.flashAndRedirect(w, r, "error", "Failed to create category: "+err.Error(), "/admin/categories/new")
		return
	}
	h.flashAndRedirect(w, r, "success", "Category created", "/admin/categories")
}

func (h *AdminHandler) categoryUpdate(w http.ResponseWriter, r *http.Request) {
	_, sess, _ := middleware.GetAdminSession(r.Context())
	id, err := pathID(r, "categoryID")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "Invalid form submission", "/admin/categories")
		return
	}

	in := service.CategoryInput{Name: r.FormValue("name")}
	if _, err := h.categoryService.Update(r.Context(), sess.AdminID, id, in); err != nil {
		h.flashAndRedirect(w, r, "error", "Failed to update category: "+err.Error(), "/admin/categories")
		return
	}
	h.flashAndRedirect(w, r, "success", "Category updated", "/admin/categories")
}

func (h *AdminHandler) categoryDelete(w http.ResponseWriter, r *http.Request) {
	_, sess, _ := middleware.GetAdminSession(r.Context())
	id, err := pathID(r, "categoryID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.categoryService.Delete(r.Context(), sess.AdminID, id); err != nil {
		h.flashAndRedirect(w, r, "error", "Failed to delete category: "+err.Error(), "/admin/categories")
		return
	}
	h.flashAndRedirect(w, r, "success", "Category deleted", "/admin/categories")
}

func (h *AdminHandler) userList(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.Users(r.Context())
	if err != nil {
		h.render(w, r, "users", viewData{Title: "Users", Error: "Failed to load users"})
		return
	}
	h.render(w, r, "users", viewData{Title: "Users", Data: users})
}
