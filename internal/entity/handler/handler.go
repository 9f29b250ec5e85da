package handler

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kycdesk/internal/entity/models"
	"kycdesk/internal/entity/profile"
	"kycdesk/internal/entity/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Service is the entity directory as seen by the transport.
type Service interface {
	List(ctx context.Context) []models.Entity
	Get(ctx context.Context, id string) (models.Entity, bool)
	State(ctx context.Context) service.State
	Add(ctx context.Context) models.Entity
	Select(ctx context.Context, id string) bool
	UpdateField(ctx context.Context, id, key, raw string) (models.Entity, error)
	Replace(ctx context.Context, entities []models.Entity) error
	Reload(ctx context.Context) error
	SetTab(tab models.Tab) bool
	SetView(mode models.ViewMode) bool
	Profile(ctx context.Context, id string) ([]profile.Section, error)
	ExportText(ctx context.Context, id, section string) (string, error)
	Ping(ctx context.Context) error
}

// Handler serves the desk page, its form posts and the JSON API.
type Handler struct {
	directory Service
	logger    *slog.Logger
	pages     *template.Template
}

// New parses the embedded templates and builds a Handler.
func New(directory Service, logger *slog.Logger) *Handler {
	return &Handler{
		directory: directory,
		logger:    logger,
		pages:     template.Must(template.New("pages").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")),
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handlePage)
	r.Post("/entities", h.handleAddForm)
	r.Post("/entities/{id}/select", h.handleSelectForm)
	r.Post("/entities/{id}/fields", h.handleFieldForm)
	r.Post("/view/{mode}", h.handleViewForm)
	r.Post("/tabs/{tab}", h.handleTabForm)
	r.Get("/entities/{id}/export", h.handleExportText)

	r.Route("/api", func(r chi.Router) {
		r.Get("/entities", h.handleListEntities)
		r.Post("/entities", h.handleAddEntity)
		r.Get("/entities/{id}", h.handleGetEntity)
		r.Patch("/entities/{id}", h.handlePatchEntity)
		r.Get("/entities/{id}/profile", h.handleGetProfile)
		r.Get("/entities/{id}/export", h.handleExportText)
		r.Get("/selection", h.handleGetSelection)
		r.Put("/selection", h.handlePutSelection)
		r.Put("/view", h.handlePutView)
		r.Get("/fields", h.handleListFields)
		r.Get("/export", h.handleExportCollection)
		r.Post("/import", h.handleImportCollection)
		r.Post("/reload", h.handleReload)
	})

	r.Get("/healthz", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.directory.Ping(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "health check failed", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
