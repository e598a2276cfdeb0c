package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func ptr[T any](v T) *T {
	return &v
}

// TestMunicipalityTitle checks that the type label is only appended when a type is set.
func TestMunicipalityTitle(t *testing.T) {
	withoutType := Municipality{Town: ptr("Vilnius")}
	assert.Equal(t, "Vilnius", withoutType.Title(language.English))

	emptyType := Municipality{Town: ptr("Vilnius"), MunicipalityType: ptr(MunicipalityType(""))}
	assert.Equal(t, "Vilnius", emptyType.Title(language.English))

	town := Municipality{Town: ptr("Vilnius"), MunicipalityType: ptr(MunicipalityTown)}
	assert.Equal(t, "Vilnius town", town.Title(language.English))
	assert.Equal(t, "Vilnius miestas", town.Title(language.Lithuanian))

	district := Municipality{Town: ptr("Kaunas"), MunicipalityType: ptr(MunicipalityDistrict)}
	assert.Equal(t, "Kaunas district", district.Title(language.English))
	assert.Equal(t, "Kaunas rajonas", district.Title(language.Lithuanian))
	assert.Equal(t, "Kaunas district", district.Title(language.German))
}

// TestMatchLanguage checks the Accept-Language negotiation for municipality labels.
func TestMatchLanguage(t *testing.T) {
	assert.Equal(t, language.English, MatchLanguage(""))
	assert.Equal(t, language.English, MatchLanguage("not a language header;;;"))
	assert.Equal(t, language.Lithuanian, MatchLanguage("lt-LT,lt;q=0.9,en;q=0.5"))
	assert.Equal(t, language.English, MatchLanguage("de-DE"))
}

func TestMunicipalityString(t *testing.T) {
	m := Municipality{Town: ptr("Alytus"), MunicipalityType: ptr(MunicipalityDistrict), Code: ptr(33)}
	assert.Equal(t, "Alytus D: 33", m.String())
}

// TestJoinPhones checks that phones marked as unused are skipped while unknown ones are kept.
func TestJoinPhones(t *testing.T) {
	phones := []Phone{
		{Id: 1, Number: ptr("+370 600 00001"), Contact: Contact{Used: ptr(true)}},
		{Id: 2, Number: ptr("+370 600 00002"), Contact: Contact{Used: ptr(false)}},
		{Id: 3, Number: ptr("+370 600 00003")},
	}
	assert.Equal(t, "+370 600 00001; +370 600 00003", JoinPhones(phones))
	assert.Equal(t, "", JoinPhones(nil))
}

func TestJoinEmails(t *testing.T) {
	emails := []Email{
		{Id: 7, Address: ptr("b@example.com")},
		{Id: 8, Address: ptr("old@example.com"), Contact: Contact{Used: ptr(false)}},
		{Id: 9, Address: ptr("a@example.com"), Contact: Contact{Used: ptr(true)}},
	}
	assert.Equal(t, "b@example.com; a@example.com", JoinEmails(emails))

	allUnused := []Email{{Address: ptr("x@example.com"), Contact: Contact{Used: ptr(false)}}}
	assert.Equal(t, "", JoinEmails(allUnused))
}

// TestHumanRecordSummary checks the derived list columns of a human.
func TestHumanRecordSummary(t *testing.T) {
	record := HumanRecord{
		Human: Human{Id: 4, FirstName: ptr("Jonas"), LastName: ptr("Jonaitis")},
		MainAddress: &Address{
			Id:      10,
			Town:    ptr("Vilnius"),
			Address: ptr("Gedimino pr. 1"),
		},
		Phones: []Phone{{Number: ptr("+370 612 34567")}},
		Emails: []Email{{Address: ptr("jonas@example.com"), Contact: Contact{Used: ptr(false)}}},
	}
	summary := record.Summary()
	assert.Equal(t, int64(4), summary.Id)
	assert.Equal(t, "Gedimino pr. 1, Vilnius", summary.MainAddress)
	assert.Equal(t, "+370 612 34567", summary.Phones)
	assert.Equal(t, "", summary.Emails)
	assert.False(t, summary.HasContractInfo)

	record.ContractInfo = &InfoForContracts{HumanId: 4}
	record.MainAddress = nil
	summary = record.Summary()
	assert.Equal(t, "", summary.MainAddress)
	assert.True(t, summary.HasContractInfo)
}

func TestHumanString(t *testing.T) {
	h := Human{Id: 12, FirstName: ptr("Ona"), LastName: ptr("Onaitė")}
	assert.Equal(t, "12 Ona Onaitė", h.String())
}

func TestAddressString(t *testing.T) {
	assert.Equal(t, "Laisvės al. 5, Kaunas", Address{Town: ptr("Kaunas"), Address: ptr("Laisvės al. 5")}.String())
	assert.Equal(t, "Kaunas", Address{Town: ptr("Kaunas")}.String())
	assert.Equal(t, "", Address{}.String())
}

func TestGenderLabel(t *testing.T) {
	assert.Equal(t, "Male", GenderMale.Label())
	assert.Equal(t, "Female", GenderFemale.Label())
	assert.Equal(t, "X", Gender("X").Label())
}

func TestContactUnused(t *testing.T) {
	assert.False(t, Contact{}.Unused())
	assert.False(t, Contact{Used: ptr(true)}.Unused())
	assert.True(t, Contact{Used: ptr(false), LastUsed: ptr(time.Now())}.Unused())
}

func TestValidIdentityCode(t *testing.T) {
	valid := []string{"38703181745", "49001010001"}
	for _, code := range valid {
		assert.True(t, ValidIdentityCode(code), code)
	}
	invalid := []string{
		"",
		"3870318174",   // too short
		"387031817450", // too long
		"38703181746",  // wrong check digit
		"78703181745",  // century digit out of range
		"3870318174A",
	}
	for _, code := range invalid {
		assert.False(t, ValidIdentityCode(code), code)
	}
}

func TestValidPhoneNumber(t *testing.T) {
	valid := []string{"+370 612 34567", "8 (5) 212-3456", "861234567"}
	for _, number := range valid {
		assert.True(t, ValidPhoneNumber(number), number)
	}
	invalid := []string{"", "123", "phone", "+370 612 3456x", "+ 370"}
	for _, number := range invalid {
		assert.False(t, ValidPhoneNumber(number), number)
	}
}
