package models

// Tab identifies an edit-mode tab.
type Tab string

const (
	TabBasic              Tab = "basic"
	TabKeyPerson          Tab = "keyPerson"
	TabTaxInfo            Tab = "taxInfo"
	TabBanking            Tab = "banking"
	TabBusinessCompliance Tab = "businessCompliance"
	TabFiles              Tab = "files"
)

// Tabs lists the edit tabs in display order.
var Tabs = []Tab{TabBasic, TabKeyPerson, TabTaxInfo, TabBanking, TabBusinessCompliance, TabFiles}

var tabLabels = map[Tab]string{
	TabBasic:              "Basic Info",
	TabKeyPerson:          "Key Person",
	TabTaxInfo:            "Tax Info",
	TabBanking:            "Banking Info",
	TabBusinessCompliance: "Business & Compliance",
	TabFiles:              "Files",
}

// Label is the tab caption.
func (t Tab) Label() string {
	return tabLabels[t]
}

// IsValid reports whether t is a known tab.
func (t Tab) IsValid() bool {
	_, ok := tabLabels[t]
	return ok
}

// ParseTab accepts a tab key or its label.
func ParseTab(s string) (Tab, bool) {
	if t := Tab(s); t.IsValid() {
		return t, true
	}
	for t, label := range tabLabels {
		if label == s {
			return t, true
		}
	}
	return "", false
}

// ViewMode selects how the selected entity is presented.
type ViewMode string

const (
	ViewEdit    ViewMode = "edit"
	ViewProfile ViewMode = "profile"
)

// ParseViewMode validates a view mode string.
func ParseViewMode(s string) (ViewMode, bool) {
	switch ViewMode(s) {
	case ViewEdit, ViewProfile:
		return ViewMode(s), true
	}
	return "", false
}
