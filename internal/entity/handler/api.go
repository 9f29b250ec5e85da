package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"kycdesk/internal/entity/fields"
	"kycdesk/internal/entity/models"
	"kycdesk/internal/entity/profile"
	dErrors "kycdesk/pkg/domain-errors"
	"kycdesk/pkg/platform/httputil"
	"kycdesk/pkg/requestcontext"
)

type entityListResponse struct {
	Entities   []models.Entity `json:"entities"`
	SelectedID string          `json:"selectedId,omitempty"`
}

type patchFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type selectionRequest struct {
	ID string `json:"id"`
}

type selectionResponse struct {
	SelectedID string `json:"selectedId,omitempty"`
	Tab        string `json:"tab"`
	View       string `json:"view"`
}

type viewRequest struct {
	View string `json:"view"`
	Tab  string `json:"tab,omitempty"`
}

type profileSection struct {
	Title string         `json:"title"`
	Lines []profile.Line `json:"lines"`
	Empty bool           `json:"empty"`
}

type fieldDescriptor struct {
	Key     string      `json:"key"`
	Label   string      `json:"label"`
	Tab     string      `json:"tab"`
	Kind    fields.Kind `json:"kind"`
	Default string      `json:"default,omitempty"`
}

type importResponse struct {
	Count int `json:"count"`
}

func (h *Handler) handleListEntities(w http.ResponseWriter, r *http.Request) {
	state := h.directory.State(r.Context())
	httputil.WriteJSON(w, http.StatusOK, entityListResponse{Entities: state.Entities, SelectedID: state.SelectedID})
}

func (h *Handler) handleAddEntity(w http.ResponseWriter, r *http.Request) {
	e := h.directory.Add(r.Context())
	w.Header().Set("Location", "/api/entities/"+e.ID)
	httputil.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	e, ok := h.directory.Get(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "entity not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) handlePatchEntity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeJSON[patchFieldRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	e, err := h.directory.UpdateField(ctx, chi.URLParam(r, "id"), strings.TrimSpace(req.Field), req.Value)
	if err != nil {
		h.logger.WarnContext(ctx, "field update rejected",
			"request_id", requestID,
			"field", req.Field,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	sections, err := h.directory.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]profileSection, 0, len(sections))
	for _, s := range sections {
		lines := s.Populated()
		if lines == nil {
			lines = []profile.Line{}
		}
		out = append(out, profileSection{Title: s.Title, Lines: lines, Empty: s.Empty()})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleExportText(w http.ResponseWriter, r *http.Request) {
	text, err := h.directory.ExportText(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("section"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteText(w, http.StatusOK, text)
}

func (h *Handler) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	state := h.directory.State(r.Context())
	httputil.WriteJSON(w, http.StatusOK, selectionResponse{
		SelectedID: state.SelectedID,
		Tab:        string(state.Tab),
		View:       string(state.View),
	})
}

func (h *Handler) handlePutSelection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeJSON[selectionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if !h.directory.Select(ctx, req.ID) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "entity not found"))
		return
	}
	h.handleGetSelection(w, r)
}

func (h *Handler) handlePutView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeJSON[viewRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if req.View != "" {
		mode, ok := models.ParseViewMode(req.View)
		if !ok {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "view must be edit or profile"))
			return
		}
		h.directory.SetView(mode)
	}
	if req.Tab != "" {
		tab, ok := models.ParseTab(req.Tab)
		if !ok {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unknown tab"))
			return
		}
		h.directory.SetTab(tab)
	}
	h.handleGetSelection(w, r)
}

func (h *Handler) handleListFields(w http.ResponseWriter, _ *http.Request) {
	var out []fieldDescriptor
	for _, tab := range models.Tabs {
		for _, f := range fields.TabFields(tab) {
			out = append(out, fieldDescriptor{Key: f.Key, Label: f.Label, Tab: string(tab), Kind: f.Kind, Default: f.Default})
		}
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleExportCollection(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", `attachment; filename="kyc_entities.json"`)
	httputil.WriteJSON(w, http.StatusOK, h.directory.List(r.Context()))
}

func (h *Handler) handleImportCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	entities, ok := httputil.DecodeJSON[[]models.Entity](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if *entities == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "expected a JSON list of entities"))
		return
	}
	if err := h.directory.Replace(ctx, *entities); err != nil {
		h.logger.WarnContext(ctx, "import rejected", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "entities imported", "request_id", requestID, "count", len(*entities))
	httputil.WriteJSON(w, http.StatusOK, importResponse{Count: len(*entities)})
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.directory.Reload(ctx); err != nil {
		h.logger.ErrorContext(ctx, "reload failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "store unavailable"))
		return
	}
	h.handleListEntities(w, r)
}
