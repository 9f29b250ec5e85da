package fields

import "kycdesk/internal/entity/models"

// TabLayout is the edit form of one tab.
type TabLayout struct {
	Tab     models.Tab
	Heading string
	Keys    []string
}

// Layout returns the edit form of tab. The Files tab has no fields.
func Layout(tab models.Tab) TabLayout {
	return layout[tab]
}

// TabFields resolves the fields of tab in form order.
func TabFields(tab models.Tab) []Field {
	keys := layout[tab].Keys
	out := make([]Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, registry[k])
	}
	return out
}

var layout = map[models.Tab]TabLayout{
	models.TabBasic: {
		Tab: models.TabBasic,
		Keys: []string{
			"name", "tradingName", "registrationNumber", "country", "dateOfIncorporation",
			"legalForm", "websiteUrl", "registeredAddress", "operatingAddress",
		},
	},
	models.TabKeyPerson: {
		Tab:     models.TabKeyPerson,
		Heading: "Key Person Details",
		Keys: []string{
			"keyPerson.fullName", "keyPerson.dateOfBirth", "keyPerson.nationality",
			"keyPerson.countryOfResidence", "keyPerson.ownershipPercentage",
			"keyPerson.idDocumentType", "keyPerson.idDocumentNumber", "keyPerson.roleSummary",
		},
	},
	models.TabTaxInfo: {
		Tab:     models.TabTaxInfo,
		Heading: "Tax Details",
		Keys:    []string{"taxInfo.taxId", "taxInfo.vatNumber"},
	},
	models.TabBanking: {
		Tab:     models.TabBanking,
		Heading: "Banking Details",
		Keys: []string{
			"banking.bankName", "banking.bankAddress", "banking.accountName",
			"banking.ibanOrAccountNumber", "banking.swift", "banking.settlementCurrency",
		},
	},
	models.TabBusinessCompliance: {
		Tab:     models.TabBusinessCompliance,
		Heading: "Business & Compliance",
		Keys: []string{
			"businessCompliance.businessDescription", "businessCompliance.productsServices",
			"businessCompliance.businessModel", "businessCompliance.targetMarkets",
			"businessCompliance.expectedMonthlyVolume", "businessCompliance.averageTransactionSize",
			"businessCompliance.chargebackRatio", "businessCompliance.complianceStatement",
		},
	},
	models.TabFiles: {Tab: models.TabFiles},
}

var registry = index(
	// Basic Info
	flat("name", "Legal Entity Name", KindText,
		func(e models.Entity) string { return e.Name },
		func(e *models.Entity, v string) { e.Name = v }),
	flat("tradingName", "Trading Name", KindText,
		func(e models.Entity) string { return e.TradingName },
		func(e *models.Entity, v string) { e.TradingName = v }),
	flat("registrationNumber", "Registration Number", KindText,
		func(e models.Entity) string { return e.RegistrationNumber },
		func(e *models.Entity, v string) { e.RegistrationNumber = v }),
	flat("country", "Country", KindText,
		func(e models.Entity) string { return e.Country },
		func(e *models.Entity, v string) { e.Country = v }),
	flat("dateOfIncorporation", "Date of Incorporation", KindDate,
		func(e models.Entity) string { return e.DateOfIncorporation },
		func(e *models.Entity, v string) { e.DateOfIncorporation = v }),
	flat("legalForm", "Legal Form", KindText,
		func(e models.Entity) string { return e.LegalForm },
		func(e *models.Entity, v string) { e.LegalForm = v }),
	flat("registeredAddress", "Registered Address", KindTextArea,
		func(e models.Entity) string { return e.RegisteredAddress },
		func(e *models.Entity, v string) { e.RegisteredAddress = v }),
	flat("operatingAddress", "Operating Address", KindTextArea,
		func(e models.Entity) string { return e.OperatingAddress },
		func(e *models.Entity, v string) { e.OperatingAddress = v }),
	flat("websiteUrl", "Website URL", KindText,
		func(e models.Entity) string { return e.WebsiteURL },
		func(e *models.Entity, v string) { e.WebsiteURL = v }),

	// Key Person
	keyPerson("fullName", "Full Name", KindText,
		func(kp models.KeyPerson) string { return kp.FullName },
		func(kp *models.KeyPerson, v string) { kp.FullName = v }),
	keyPerson("dateOfBirth", "Date of Birth", KindDate,
		func(kp models.KeyPerson) string { return kp.DateOfBirth },
		func(kp *models.KeyPerson, v string) { kp.DateOfBirth = v }),
	keyPerson("nationality", "Nationality", KindText,
		func(kp models.KeyPerson) string { return kp.Nationality },
		func(kp *models.KeyPerson, v string) { kp.Nationality = v }),
	keyPerson("countryOfResidence", "Country of Residence", KindText,
		func(kp models.KeyPerson) string { return kp.CountryOfResidence },
		func(kp *models.KeyPerson, v string) { kp.CountryOfResidence = v }),
	keyPerson("roleSummary", "Role Summary", KindTextArea,
		func(kp models.KeyPerson) string { return kp.RoleSummary },
		func(kp *models.KeyPerson, v string) { kp.RoleSummary = v }),
	ownershipPercentage(),
	keyPerson("idDocumentType", "ID Document Type", KindText,
		func(kp models.KeyPerson) string { return kp.IDDocumentType },
		func(kp *models.KeyPerson, v string) { kp.IDDocumentType = v }),
	keyPerson("idDocumentNumber", "ID Document Number", KindText,
		func(kp models.KeyPerson) string { return kp.IDDocumentNumber },
		func(kp *models.KeyPerson, v string) { kp.IDDocumentNumber = v }),

	// Tax Info
	withProfileLabel(taxInfo("taxId", "Tax ID / TIN / EIN / UTR",
		func(t models.TaxInfo) string { return t.TaxID },
		func(t *models.TaxInfo, v string) { t.TaxID = v }), "Tax ID"),
	withProfileLabel(taxInfo("vatNumber", "VAT / GST Number",
		func(t models.TaxInfo) string { return t.VATNumber },
		func(t *models.TaxInfo, v string) { t.VATNumber = v }), "VAT Number"),

	// Banking Info
	banking("bankName", "Bank Name",
		func(b models.Banking) string { return b.BankName },
		func(b *models.Banking, v string) { b.BankName = v }),
	banking("bankAddress", "Bank Address",
		func(b models.Banking) string { return b.BankAddress },
		func(b *models.Banking, v string) { b.BankAddress = v }),
	banking("accountName", "Account Name",
		func(b models.Banking) string { return b.AccountName },
		func(b *models.Banking, v string) { b.AccountName = v }),
	withProfileLabel(banking("ibanOrAccountNumber", "IBAN / Account Number",
		func(b models.Banking) string { return b.IBANOrAccountNumber },
		func(b *models.Banking, v string) { b.IBANOrAccountNumber = v }), "Account Number"),
	banking("swift", "SWIFT",
		func(b models.Banking) string { return b.SWIFT },
		func(b *models.Banking, v string) { b.SWIFT = v }),
	withDefault(banking("settlementCurrency", "Settlement Currency",
		func(b models.Banking) string { return b.SettlementCurrency },
		func(b *models.Banking, v string) { b.SettlementCurrency = v }), models.DefaultSettlementCurrency),

	// Business & Compliance
	compliance("businessDescription", "Business Description", KindTextArea,
		func(c models.BusinessCompliance) string { return c.BusinessDescription },
		func(c *models.BusinessCompliance, v string) { c.BusinessDescription = v }),
	compliance("productsServices", "Products / Services", KindText,
		func(c models.BusinessCompliance) string { return c.ProductsServices },
		func(c *models.BusinessCompliance, v string) { c.ProductsServices = v }),
	compliance("businessModel", "Business Model", KindText,
		func(c models.BusinessCompliance) string { return c.BusinessModel },
		func(c *models.BusinessCompliance, v string) { c.BusinessModel = v }),
	compliance("targetMarkets", "Target Markets", KindText,
		func(c models.BusinessCompliance) string { return c.TargetMarkets },
		func(c *models.BusinessCompliance, v string) { c.TargetMarkets = v }),
	compliance("expectedMonthlyVolume", "Expected Monthly Volume", KindText,
		func(c models.BusinessCompliance) string { return c.ExpectedMonthlyVolume },
		func(c *models.BusinessCompliance, v string) { c.ExpectedMonthlyVolume = v }),
	compliance("averageTransactionSize", "Average Transaction Size", KindText,
		func(c models.BusinessCompliance) string { return c.AverageTransactionSize },
		func(c *models.BusinessCompliance, v string) { c.AverageTransactionSize = v }),
	compliance("chargebackRatio", "Chargeback Ratio", KindText,
		func(c models.BusinessCompliance) string { return c.ChargebackRatio },
		func(c *models.BusinessCompliance, v string) { c.ChargebackRatio = v }),
	compliance("complianceStatement", "Compliance Statement", KindTextArea,
		func(c models.BusinessCompliance) string { return c.ComplianceStatement },
		func(c *models.BusinessCompliance, v string) { c.ComplianceStatement = v }),
)

func index(fs ...Field) map[string]Field {
	m := make(map[string]Field, len(fs))
	for _, f := range fs {
		if f.ProfileLabel == "" {
			f.ProfileLabel = f.Label
		}
		m[f.Key] = f
	}
	return m
}

func withProfileLabel(f Field, label string) Field {
	f.ProfileLabel = label
	return f
}

func withDefault(f Field, def string) Field {
	f.Default = def
	return f
}

func flat(key, label string, kind Kind, get func(models.Entity) string, set func(*models.Entity, string)) Field {
	return Field{
		Key:   key,
		Label: label,
		Kind:  kind,
		get:   get,
		set: func(e models.Entity, v string) (models.Entity, error) {
			set(&e, v)
			return e, nil
		},
	}
}

func keyPerson(key, label string, kind Kind, get func(models.KeyPerson) string, set func(*models.KeyPerson, string)) Field {
	return Field{
		Key:   "keyPerson." + key,
		Label: label,
		Kind:  kind,
		get: func(e models.Entity) string {
			if e.KeyPerson == nil {
				return ""
			}
			return get(*e.KeyPerson)
		},
		set: func(e models.Entity, v string) (models.Entity, error) {
			return e.WithKeyPerson(func(kp models.KeyPerson) models.KeyPerson {
				set(&kp, v)
				return kp
			}), nil
		},
	}
}

func ownershipPercentage() Field {
	return Field{
		Key:   "keyPerson.ownershipPercentage",
		Label: "Ownership Percentage",
		Kind:  KindNumber,
		Min:   "0",
		Max:   "100",
		get: func(e models.Entity) string {
			if e.KeyPerson == nil {
				return ""
			}
			return FormatNumber(e.KeyPerson.OwnershipPercentage)
		},
		set: func(e models.Entity, v string) (models.Entity, error) {
			pct, err := ParseOwnership(v)
			if err != nil {
				return e, err
			}
			return e.WithKeyPerson(func(kp models.KeyPerson) models.KeyPerson {
				kp.OwnershipPercentage = pct
				return kp
			}), nil
		},
	}
}

func taxInfo(key, label string, get func(models.TaxInfo) string, set func(*models.TaxInfo, string)) Field {
	return Field{
		Key:   "taxInfo." + key,
		Label: label,
		Kind:  KindText,
		get: func(e models.Entity) string {
			if e.TaxInfo == nil {
				return ""
			}
			return get(*e.TaxInfo)
		},
		set: func(e models.Entity, v string) (models.Entity, error) {
			return e.WithTaxInfo(func(t models.TaxInfo) models.TaxInfo {
				set(&t, v)
				return t
			}), nil
		},
	}
}

func banking(key, label string, get func(models.Banking) string, set func(*models.Banking, string)) Field {
	return Field{
		Key:   "banking." + key,
		Label: label,
		Kind:  KindText,
		get: func(e models.Entity) string {
			if e.Banking == nil {
				return ""
			}
			return get(*e.Banking)
		},
		set: func(e models.Entity, v string) (models.Entity, error) {
			return e.WithBanking(func(b models.Banking) models.Banking {
				set(&b, v)
				return b
			}), nil
		},
	}
}

func compliance(key, label string, kind Kind, get func(models.BusinessCompliance) string, set func(*models.BusinessCompliance, string)) Field {
	return Field{
		Key:   "businessCompliance." + key,
		Label: label,
		Kind:  kind,
		get: func(e models.Entity) string {
			if e.BusinessCompliance == nil {
				return ""
			}
			return get(*e.BusinessCompliance)
		},
		set: func(e models.Entity, v string) (models.Entity, error) {
			return e.WithBusinessCompliance(func(c models.BusinessCompliance) models.BusinessCompliance {
				set(&c, v)
				return c
			}), nil
		},
	}
}
