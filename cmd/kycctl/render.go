package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kycdesk/internal/entity/fields"
	"kycdesk/internal/entity/models"
	"kycdesk/internal/entity/profile"
)

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
	card     lipgloss.Style
}

// newStyles binds styles to w, so output to a pipe or file stays plain.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:    r.NewStyle().Bold(true),
		label:    r.NewStyle().Foreground(lipgloss.Color("8")),
		muted:    r.NewStyle().Faint(true).Italic(true),
		selected: r.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
		card:     r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func renderList(w io.Writer, entities []models.Entity, selectedID string) {
	st := newStyles(w)
	if len(entities) == 0 {
		fmt.Fprintln(w, st.muted.Render("No entities."))
		return
	}
	for _, e := range entities {
		marker, name := " ", st.title.Render(orDefault(e.Name, "Untitled entity"))
		if e.ID == selectedID {
			marker, name = "*", st.selected.Render(orDefault(e.Name, "Untitled entity"))
		}
		fmt.Fprintf(w, "%s %s  %s  %s  %s\n", marker, e.ID, name,
			st.label.Render(orDefault(e.Country, "No country")),
			st.label.Render("Reg #: "+orDefault(e.RegistrationNumber, "Not provided")),
		)
	}
}

func renderFields(w io.Writer) {
	st := newStyles(w)
	for _, tab := range models.Tabs {
		fmt.Fprintln(w, st.title.Render(tab.Label()))
		fs := fields.TabFields(tab)
		if len(fs) == 0 {
			fmt.Fprintln(w, "  "+st.muted.Render("not editable"))
			continue
		}
		for _, f := range fs {
			fmt.Fprintf(w, "  %-45s %s %s\n", f.Key, f.Label, st.label.Render("("+string(f.Kind)+")"))
		}
	}
}

func renderProfile(w io.Writer, e models.Entity, sections []profile.Section, only string) {
	st := newStyles(w)
	fmt.Fprintln(w, st.title.Render(orDefault(e.Name, "Untitled entity")))
	if !e.UpdatedAt.IsZero() {
		fmt.Fprintln(w, st.label.Render("Last updated: "+e.UpdatedAt.Local().Format("2006-01-02 15:04:05")))
	}
	for _, s := range sections {
		if only != "" && !strings.EqualFold(s.Title, strings.TrimSpace(only)) {
			continue
		}
		var b strings.Builder
		b.WriteString(st.title.Render(s.Title))
		if s.Empty() {
			b.WriteString("\n" + st.muted.Render(profile.NoDataMarker))
		}
		for _, l := range s.Populated() {
			b.WriteString("\n" + st.label.Render(l.Label+":") + " " + l.Value)
		}
		fmt.Fprintln(w, st.card.Render(b.String()))
	}
}
