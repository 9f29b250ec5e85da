package models

import "time"

// Identifiers of the built-in sample entities.
const (
	SampleNorthwindID = "ent_1"
	SampleSunriseID   = "ent_2"
)

// Samples returns the two-entity set used when the store holds no collection.
func Samples(now time.Time) []Entity {
	return []Entity{
		{
			ID:                 SampleNorthwindID,
			Name:               "Northwind Trading Ltd",
			Country:            "United Kingdom",
			RegistrationNumber: "12345678",
			LegalForm:          "Private Limited Company",
			WebsiteURL:         "https://northwind.example.com",
			TaxInfo:            &TaxInfo{TaxID: "GB123456789", VATNumber: "GB999999973"},
			Banking:            &Banking{SettlementCurrency: DefaultSettlementCurrency},
			UpdatedAt:          now,
		},
		{
			ID:                 SampleSunriseID,
			Name:               "Sunrise Imports LLC",
			Country:            "United States",
			RegistrationNumber: "SR-556723",
			LegalForm:          "Limited Liability Company",
			Banking:            &Banking{SettlementCurrency: DefaultSettlementCurrency},
			UpdatedAt:          now,
		},
	}
}
