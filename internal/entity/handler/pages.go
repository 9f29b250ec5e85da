package handler

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"kycdesk/internal/entity/fields"
	"kycdesk/internal/entity/models"
	"kycdesk/internal/entity/profile"
	"kycdesk/internal/entity/service"
	dErrors "kycdesk/pkg/domain-errors"
	"kycdesk/pkg/platform/httputil"
	"kycdesk/pkg/requestcontext"
)

var templateFuncs = template.FuncMap{
	"lastUpdated": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format("2006-01-02 15:04:05")
	},
	"orDefault": func(s, def string) string {
		if strings.TrimSpace(s) == "" {
			return def
		}
		return s
	},
}

type pageData struct {
	Entities     []models.Entity
	SelectedID   string
	Selected     *models.Entity
	Edit         bool
	Tabs         []tabItem
	Form         *formView
	Sections     []sectionCard
	FullText     string
	NoDataMarker string
	Error        string
}

type tabItem struct {
	Key    models.Tab
	Label  string
	Active bool
}

type formView struct {
	Heading     string
	Placeholder bool
	Fields      []formField
}

type formField struct {
	Key   string
	Label string
	Kind  fields.Kind
	Value string
	Min   string
	Max   string
}

type sectionCard struct {
	Title string
	Lines []profile.Line
	Text  string
}

func buildPage(state service.State) pageData {
	data := pageData{
		Entities:     state.Entities,
		SelectedID:   state.SelectedID,
		Edit:         state.View != models.ViewProfile,
		NoDataMarker: profile.NoDataMarker,
	}
	sel, ok := state.Selected()
	if !ok {
		return data
	}
	data.Selected = &sel

	if !data.Edit {
		sections := profile.Build(sel)
		for _, s := range sections {
			data.Sections = append(data.Sections, sectionCard{Title: s.Title, Lines: s.Populated(), Text: s.Text()})
		}
		data.FullText = profile.FullText(sections)
		return data
	}

	for _, t := range models.Tabs {
		data.Tabs = append(data.Tabs, tabItem{Key: t, Label: t.Label(), Active: t == state.Tab})
	}
	layout := fields.Layout(state.Tab)
	form := &formView{Heading: layout.Heading, Placeholder: state.Tab == models.TabFiles}
	for _, f := range fields.TabFields(state.Tab) {
		form.Fields = append(form.Fields, formField{
			Key:   f.Key,
			Label: f.Label,
			Kind:  f.Kind,
			Value: f.FormValue(sel),
			Min:   f.Min,
			Max:   f.Max,
		})
	}
	data.Form = form
	return data
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "")
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	data := buildPage(h.directory.State(r.Context()))
	data.Error = errMsg

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.pages.ExecuteTemplate(w, "index.html", data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
	}
}

func (h *Handler) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleAddForm(w http.ResponseWriter, r *http.Request) {
	h.directory.Add(r.Context())
	h.redirectHome(w, r)
}

func (h *Handler) handleSelectForm(w http.ResponseWriter, r *http.Request) {
	h.directory.Select(r.Context(), chi.URLParam(r, "id"))
	h.redirectHome(w, r)
}

func (h *Handler) handleFieldForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.renderPage(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	_, err := h.directory.UpdateField(ctx, chi.URLParam(r, "id"), r.PostForm.Get("field"), r.PostForm.Get("value"))
	if err != nil {
		h.logger.WarnContext(ctx, "field update rejected",
			"request_id", requestcontext.RequestID(ctx),
			"field", r.PostForm.Get("field"),
			"error", err,
		)
		h.renderPage(w, r, httputil.StatusFor(dErrors.CodeOf(err)), err.Error())
		return
	}
	h.redirectHome(w, r)
}

func (h *Handler) handleViewForm(w http.ResponseWriter, r *http.Request) {
	mode, ok := models.ParseViewMode(chi.URLParam(r, "mode"))
	if !ok {
		h.renderPage(w, r, http.StatusBadRequest, "unknown view mode")
		return
	}
	h.directory.SetView(mode)
	h.redirectHome(w, r)
}

func (h *Handler) handleTabForm(w http.ResponseWriter, r *http.Request) {
	tab, ok := models.ParseTab(chi.URLParam(r, "tab"))
	if !ok {
		h.renderPage(w, r, http.StatusBadRequest, "unknown tab")
		return
	}
	h.directory.SetTab(tab)
	h.redirectHome(w, r)
}
