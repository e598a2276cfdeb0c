package model

import (
	"fmt"

	"golang.org/x/text/language"
)

// MunicipalityType tells towns and districts apart.
type MunicipalityType string

const (
	MunicipalityTown     MunicipalityType = "T"
	MunicipalityDistrict MunicipalityType = "D"
)

// supportedLanguages are the languages that municipality type labels are translated to. The
// first one is the fallback.
var supportedLanguages = []language.Tag{language.English, language.Lithuanian}

var languageMatcher = language.NewMatcher(supportedLanguages)

var municipalityTypeLabels = map[string]map[MunicipalityType]string{
	"en": {MunicipalityTown: "town", MunicipalityDistrict: "district"},
	"lt": {MunicipalityTown: "miestas", MunicipalityDistrict: "rajonas"},
}

// MatchLanguage picks the best supported language for the value of an Accept-Language header.
func MatchLanguage(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supportedLanguages[0]
	}
	_, index, _ := languageMatcher.Match(tags...)
	return supportedLanguages[index]
}

// Label returns the translated name of the municipality type.
func (t MunicipalityType) Label(lang language.Tag) string {
	base, _ := lang.Base()
	labels, ok := municipalityTypeLabels[base.String()]
	if !ok {
		labels = municipalityTypeLabels["en"]
	}
	if label, ok := labels[t]; ok {
		return label
	}
	return string(t)
}

// Municipality is a town or district administrative unit.
type Municipality struct {
	Id               int64             `json:"id"                          db:"id"`
	Town             *string           `json:"town,omitempty"              db:"town"              binding:"omitempty,min=1,max=45" create:"required"`
	MunicipalityType *MunicipalityType `json:"municipality_type,omitempty" db:"municipality_type" binding:"omitempty,oneof=T D"`
	Code             *int              `json:"code,omitempty"              db:"code"              binding:"omitempty,min=0,max=32767" create:"required"`
}

// Title returns "{town} {type label}", or just the town when the type is not set.
func (m Municipality) Title(lang language.Tag) string {
	if m.MunicipalityType == nil || *m.MunicipalityType == "" {
		return deref(m.Town)
	}
	return deref(m.Town) + " " + m.MunicipalityType.Label(lang)
}

func (m Municipality) String() string {
	var code int
	if m.Code != nil {
		code = *m.Code
	}
	var municipalityType MunicipalityType
	if m.MunicipalityType != nil {
		municipalityType = *m.MunicipalityType
	}
	return fmt.Sprintf("%s %s: %d", deref(m.Town), municipalityType, code)
}
