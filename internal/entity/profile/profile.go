// Package profile builds the read-only presentation of an entity and its
// plain-text export.
package profile

import (
	"strings"

	"kycdesk/internal/entity/fields"
	"kycdesk/internal/entity/models"
)

// NoDataMarker is shown for a section without a single populated field.
const NoDataMarker = "No data available."

// Line is one labelled value of a section.
type Line struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section is one titled group of the profile.
type Section struct {
	Title string `json:"title"`
	Lines []Line `json:"lines"`
}

type sectionDef struct {
	title string
	keys  []string
}

// Declared order of the profile. Files has no profile section.
var sectionDefs = []sectionDef{
	{"Basic Info", []string{
		"name", "tradingName", "registrationNumber", "country", "dateOfIncorporation",
		"legalForm", "registeredAddress", "operatingAddress", "websiteUrl",
	}},
	{"Key Person", []string{
		"keyPerson.fullName", "keyPerson.dateOfBirth", "keyPerson.nationality",
		"keyPerson.countryOfResidence", "keyPerson.roleSummary", "keyPerson.ownershipPercentage",
		"keyPerson.idDocumentType", "keyPerson.idDocumentNumber",
	}},
	{"Tax Info", []string{"taxInfo.taxId", "taxInfo.vatNumber"}},
	{"Banking Info", []string{
		"banking.bankName", "banking.bankAddress", "banking.accountName",
		"banking.ibanOrAccountNumber", "banking.swift", "banking.settlementCurrency",
	}},
	{"Business & Compliance", []string{
		"businessCompliance.businessDescription", "businessCompliance.productsServices",
		"businessCompliance.businessModel", "businessCompliance.targetMarkets",
		"businessCompliance.expectedMonthlyVolume", "businessCompliance.averageTransactionSize",
		"businessCompliance.chargebackRatio", "businessCompliance.complianceStatement",
	}},
}

// Build returns every section of e with every declared line, populated or not.
func Build(e models.Entity) []Section {
	sections := make([]Section, 0, len(sectionDefs))
	for _, def := range sectionDefs {
		s := Section{Title: def.title, Lines: make([]Line, 0, len(def.keys))}
		for _, key := range def.keys {
			f := fields.MustLookup(key)
			s.Lines = append(s.Lines, Line{Key: key, Label: f.ProfileLabel, Value: f.Value(e)})
		}
		sections = append(sections, s)
	}
	return sections
}

// Titles lists the section titles in order.
func Titles() []string {
	out := make([]string, len(sectionDefs))
	for i, def := range sectionDefs {
		out[i] = def.title
	}
	return out
}

// Populated returns the lines with a non-empty value, in declared order.
func (s Section) Populated() []Line {
	var out []Line
	for _, l := range s.Lines {
		if l.Value != "" {
			out = append(out, l)
		}
	}
	return out
}

// Empty reports whether the section renders the NoDataMarker.
func (s Section) Empty() bool {
	return len(s.Populated()) == 0
}

// Text is the clipboard export of the section: the title, then one
// "Label: value" line per declared field.
func (s Section) Text() string {
	lines := make([]string, 0, len(s.Lines)+1)
	lines = append(lines, s.Title)
	for _, l := range s.Lines {
		lines = append(lines, l.Label+": "+l.Value)
	}
	return strings.Join(lines, "\n")
}

// FullText is the export of every section separated by a blank line.
func FullText(sections []Section) string {
	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = s.Text()
	}
	return strings.Join(parts, "\n\n")
}

// Find returns the section titled title (case-insensitive).
func Find(sections []Section, title string) (Section, bool) {
	for _, s := range sections {
		if strings.EqualFold(s.Title, strings.TrimSpace(title)) {
			return s, true
		}
	}
	return Section{}, false
}
