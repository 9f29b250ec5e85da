package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestNewBlank(t *testing.T) {
	e := NewBlank("ent_x", fixedNow)
	assert.Equal(t, "ent_x", e.ID)
	assert.Equal(t, "New Entity", e.Name)
	require.NotNil(t, e.Banking)
	assert.Equal(t, "USD", e.Banking.SettlementCurrency)
	assert.Equal(t, fixedNow, e.UpdatedAt)
	assert.Nil(t, e.KeyPerson)
	assert.Nil(t, e.TaxInfo)
}

func TestNewIDIsPrefixedAndUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		id := NewID()
		assert.True(t, strings.HasPrefix(id, IDPrefix))
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestWithBankingPreservesSiblings(t *testing.T) {
	orig := Samples(fixedNow)[0]
	patched := orig.WithBanking(func(b Banking) Banking {
		b.SWIFT = "ABCDEFGH"
		return b
	})

	require.NotNil(t, patched.Banking)
	assert.Equal(t, "ABCDEFGH", patched.Banking.SWIFT)
	assert.Equal(t, "USD", patched.Banking.SettlementCurrency)
	assert.Empty(t, orig.Banking.SWIFT, "original group is not written through")
	assert.Equal(t, orig.TaxInfo, patched.TaxInfo)
}

func TestWithGroupCreatesAbsentGroup(t *testing.T) {
	e := Entity{ID: "ent_1", Name: "Northwind"}
	e = e.WithKeyPerson(func(kp KeyPerson) KeyPerson {
		kp.FullName = "Ada Lovelace"
		return kp
	})
	require.NotNil(t, e.KeyPerson)
	assert.Equal(t, "Ada Lovelace", e.KeyPerson.FullName)
	assert.Nil(t, e.TaxInfo)
	assert.Nil(t, e.BusinessCompliance)
}

func TestCloneIsDeep(t *testing.T) {
	pct := 25.0
	e := Entity{ID: "ent_1", KeyPerson: &KeyPerson{OwnershipPercentage: &pct}, TaxInfo: &TaxInfo{TaxID: "1"}}
	c := e.Clone()
	*c.KeyPerson.OwnershipPercentage = 50
	c.TaxInfo.TaxID = "2"

	assert.Equal(t, 25.0, *e.KeyPerson.OwnershipPercentage)
	assert.Equal(t, "1", e.TaxInfo.TaxID)
}

func TestJSONMatchesStoredFormat(t *testing.T) {
	stored := `{"id":"ent_1","name":"Northwind Trading Ltd","country":"United Kingdom",` +
		`"keyPerson":{"fullName":"Jane Roe","ownershipPercentage":40},` +
		`"banking":{"settlementCurrency":"USD"},"updatedAt":"2026-03-14T09:30:00Z"}`

	var e Entity
	require.NoError(t, json.Unmarshal([]byte(stored), &e))
	assert.Equal(t, "Northwind Trading Ltd", e.Name)
	require.NotNil(t, e.KeyPerson.OwnershipPercentage)
	assert.Equal(t, 40.0, *e.KeyPerson.OwnershipPercentage)
	assert.True(t, e.UpdatedAt.Equal(fixedNow))

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, stored, string(out))
}

func TestJSONOmitsAbsentValues(t *testing.T) {
	out, err := json.Marshal(Entity{ID: "ent_9", Name: "Bare"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"ent_9","name":"Bare"}`, string(out))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Untitled entity", Entity{Name: "  "}.DisplayName())
	assert.Equal(t, "Acme", Entity{Name: "Acme"}.DisplayName())
}

func TestParseTabAndViewMode(t *testing.T) {
	tab, ok := ParseTab("banking")
	assert.True(t, ok)
	assert.Equal(t, TabBanking, tab)

	tab, ok = ParseTab("Business & Compliance")
	assert.True(t, ok)
	assert.Equal(t, TabBusinessCompliance, tab)

	_, ok = ParseTab("attachments")
	assert.False(t, ok)

	mode, ok := ParseViewMode("profile")
	assert.True(t, ok)
	assert.Equal(t, ViewProfile, mode)
	_, ok = ParseViewMode("print")
	assert.False(t, ok)

	assert.Len(t, Tabs, 6)
	assert.Equal(t, "Files", TabFiles.Label())
}
