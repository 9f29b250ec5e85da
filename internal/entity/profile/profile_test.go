package profile

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycdesk/internal/entity/models"
)

func northwind() models.Entity {
	return models.Samples(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))[0]
}

func TestBuildSectionsInOrder(t *testing.T) {
	sections := Build(northwind())
	assert.Equal(t, []string{"Basic Info", "Key Person", "Tax Info", "Banking Info", "Business & Compliance"}, Titles())
	require.Len(t, sections, 5)
	for i, s := range sections {
		assert.Equal(t, Titles()[i], s.Title)
	}
}

func TestEmptySectionRendersMarker(t *testing.T) {
	sections := Build(northwind())

	keyPerson, ok := Find(sections, "Key Person")
	require.True(t, ok)
	assert.True(t, keyPerson.Empty())
	assert.Empty(t, keyPerson.Populated())

	compliance, ok := Find(sections, "business & compliance")
	require.True(t, ok)
	assert.True(t, compliance.Empty())
}

func TestPopulatedFieldsInDeclaredOrder(t *testing.T) {
	sections := Build(northwind())

	basic, _ := Find(sections, "Basic Info")
	var labels []string
	for _, l := range basic.Populated() {
		labels = append(labels, l.Label)
	}
	assert.Equal(t, []string{"Legal Entity Name", "Registration Number", "Country", "Legal Form", "Website URL"}, labels)

	tax, _ := Find(sections, "Tax Info")
	assert.Equal(t, []Line{
		{Key: "taxInfo.taxId", Label: "Tax ID", Value: "GB123456789"},
		{Key: "taxInfo.vatNumber", Label: "VAT Number", Value: "GB999999973"},
	}, tax.Populated())

	banking, _ := Find(sections, "Banking Info")
	require.Len(t, banking.Populated(), 1)
	assert.Equal(t, "USD", banking.Populated()[0].Value)
}

func TestAbsentGroupsRenderEmpty(t *testing.T) {
	sections := Build(models.Entity{ID: "ent_bare"})
	for _, s := range sections {
		assert.True(t, s.Empty(), s.Title)
	}
}

func TestOwnershipIsFormatted(t *testing.T) {
	pct := 12.5
	e := northwind()
	e.KeyPerson = &models.KeyPerson{FullName: "Jane Roe", OwnershipPercentage: &pct}

	kp, _ := Find(Build(e), "Key Person")
	assert.Equal(t, []Line{
		{Key: "keyPerson.fullName", Label: "Full Name", Value: "Jane Roe"},
		{Key: "keyPerson.ownershipPercentage", Label: "Ownership Percentage", Value: "12.5"},
	}, kp.Populated())
}

func TestSectionText(t *testing.T) {
	tax, _ := Find(Build(northwind()), "Tax Info")
	assert.Equal(t, "Tax Info\nTax ID: GB123456789\nVAT Number: GB999999973", tax.Text())

	kp, _ := Find(Build(northwind()), "Key Person")
	lines := strings.Split(kp.Text(), "\n")
	assert.Equal(t, "Key Person", lines[0])
	assert.Len(t, lines, 9, "every declared field is exported, populated or not")
	assert.Equal(t, "Full Name: ", lines[1])
}

func TestFullText(t *testing.T) {
	sections := Build(northwind())
	full := FullText(sections)

	parts := strings.Split(full, "\n\n")
	require.Len(t, parts, 5)
	for i, s := range sections {
		assert.Equal(t, s.Text(), parts[i])
	}
	assert.True(t, strings.HasPrefix(full, "Basic Info\nLegal Entity Name: Northwind Trading Ltd\n"))
}

func TestFindUnknown(t *testing.T) {
	_, ok := Find(Build(northwind()), "Files")
	assert.False(t, ok)
}
