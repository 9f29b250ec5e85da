package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// IDPrefix starts every generated entity identifier.
	IDPrefix = "ent_"
	// BlankEntityName is the name of an entity created by Add.
	BlankEntityName = "New Entity"
	// DefaultSettlementCurrency applies when a banking group has none.
	DefaultSettlementCurrency = "USD"
)

// Entity is a business counterparty under review.
//
// Invariants:
//   - ID is unique within a collection and never reassigned
//   - UpdatedAt is set on creation and on every field mutation, never by a user
//   - nil groups are "absent" and render as empty values
//
// Entities are values: every mutation builds a new Entity and group pointers
// are replaced, never written through, so a copy taken before an update keeps
// its old groups.
type Entity struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	TradingName         string              `json:"tradingName,omitempty"`
	RegistrationNumber  string              `json:"registrationNumber,omitempty"`
	Country             string              `json:"country,omitempty"`
	DateOfIncorporation string              `json:"dateOfIncorporation,omitempty"`
	LegalForm           string              `json:"legalForm,omitempty"`
	RegisteredAddress   string              `json:"registeredAddress,omitempty"`
	OperatingAddress    string              `json:"operatingAddress,omitempty"`
	WebsiteURL          string              `json:"websiteUrl,omitempty"`
	KeyPerson           *KeyPerson          `json:"keyPerson,omitempty"`
	TaxInfo             *TaxInfo            `json:"taxInfo,omitempty"`
	Banking             *Banking            `json:"banking,omitempty"`
	BusinessCompliance  *BusinessCompliance `json:"businessCompliance,omitempty"`
	UpdatedAt           time.Time           `json:"updatedAt,omitzero"`
}

// KeyPerson is an individual associated with the entity, typically a beneficial owner.
type KeyPerson struct {
	FullName            string   `json:"fullName,omitempty"`
	DateOfBirth         string   `json:"dateOfBirth,omitempty"`
	Nationality         string   `json:"nationality,omitempty"`
	CountryOfResidence  string   `json:"countryOfResidence,omitempty"`
	RoleSummary         string   `json:"roleSummary,omitempty"`
	OwnershipPercentage *float64 `json:"ownershipPercentage,omitempty"`
	IDDocumentType      string   `json:"idDocumentType,omitempty"`
	IDDocumentNumber    string   `json:"idDocumentNumber,omitempty"`
}

// TaxInfo holds tax registrations.
type TaxInfo struct {
	TaxID     string `json:"taxId,omitempty"`
	VATNumber string `json:"vatNumber,omitempty"`
}

// Banking holds settlement account details.
type Banking struct {
	BankName            string `json:"bankName,omitempty"`
	BankAddress         string `json:"bankAddress,omitempty"`
	AccountName         string `json:"accountName,omitempty"`
	IBANOrAccountNumber string `json:"ibanOrAccountNumber,omitempty"`
	SWIFT               string `json:"swift,omitempty"`
	SettlementCurrency  string `json:"settlementCurrency,omitempty"`
}

// BusinessCompliance holds the free-text business and compliance questionnaire.
type BusinessCompliance struct {
	BusinessDescription    string `json:"businessDescription,omitempty"`
	ProductsServices       string `json:"productsServices,omitempty"`
	BusinessModel          string `json:"businessModel,omitempty"`
	TargetMarkets          string `json:"targetMarkets,omitempty"`
	ExpectedMonthlyVolume  string `json:"expectedMonthlyVolume,omitempty"`
	AverageTransactionSize string `json:"averageTransactionSize,omitempty"`
	ChargebackRatio        string `json:"chargebackRatio,omitempty"`
	ComplianceStatement    string `json:"complianceStatement,omitempty"`
}

// NewID generates a fresh entity identifier.
func NewID() string {
	return IDPrefix + uuid.NewString()
}

// NewBlank returns the entity created by the "add" action.
func NewBlank(id string, now time.Time) Entity {
	return Entity{
		ID:        id,
		Name:      BlankEntityName,
		Banking:   &Banking{SettlementCurrency: DefaultSettlementCurrency},
		UpdatedAt: now,
	}
}

// DisplayName is the name shown in lists and headers.
func (e Entity) DisplayName() string {
	if strings.TrimSpace(e.Name) == "" {
		return "Untitled entity"
	}
	return e.Name
}

// Touch returns e stamped with now.
func (e Entity) Touch(now time.Time) Entity {
	e.UpdatedAt = now
	return e
}

// Clone returns a deep copy so callers can hand entities out without sharing groups.
func (e Entity) Clone() Entity {
	if e.KeyPerson != nil {
		kp := *e.KeyPerson
		if kp.OwnershipPercentage != nil {
			pct := *kp.OwnershipPercentage
			kp.OwnershipPercentage = &pct
		}
		e.KeyPerson = &kp
	}
	if e.TaxInfo != nil {
		ti := *e.TaxInfo
		e.TaxInfo = &ti
	}
	if e.Banking != nil {
		b := *e.Banking
		e.Banking = &b
	}
	if e.BusinessCompliance != nil {
		bc := *e.BusinessCompliance
		e.BusinessCompliance = &bc
	}
	return e
}

// WithKeyPerson returns e with its key person group replaced by patch applied
// to a copy of the current group (or an empty one). Siblings are preserved.
func (e Entity) WithKeyPerson(patch func(KeyPerson) KeyPerson) Entity {
	var cur KeyPerson
	if e.KeyPerson != nil {
		cur = *e.KeyPerson
	}
	next := patch(cur)
	e.KeyPerson = &next
	return e
}

// WithTaxInfo is WithKeyPerson for the tax group.
func (e Entity) WithTaxInfo(patch func(TaxInfo) TaxInfo) Entity {
	var cur TaxInfo
	if e.TaxInfo != nil {
		cur = *e.TaxInfo
	}
	next := patch(cur)
	e.TaxInfo = &next
	return e
}

// WithBanking is WithKeyPerson for the banking group.
func (e Entity) WithBanking(patch func(Banking) Banking) Entity {
	var cur Banking
	if e.Banking != nil {
		cur = *e.Banking
	}
	next := patch(cur)
	e.Banking = &next
	return e
}

// WithBusinessCompliance is WithKeyPerson for the business & compliance group.
func (e Entity) WithBusinessCompliance(patch func(BusinessCompliance) BusinessCompliance) Entity {
	var cur BusinessCompliance
	if e.BusinessCompliance != nil {
		cur = *e.BusinessCompliance
	}
	next := patch(cur)
	e.BusinessCompliance = &next
	return e
}

// Patch is a pure transformation of an entity. Patches must not change ID or UpdatedAt;
// the directory restores both after applying one.
type Patch func(Entity) Entity
