package model

import (
	"fmt"
	"time"
)

// Gender is the gender of a human as stored in the database.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Label returns the human readable form of the gender.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	}
	return string(g)
}

// Human is the data structure for a person that we know. All fields except Id are pointers so
// that a partial update can tell an omitted value from a submitted one. The tag 'create' names
// the fields that must be present when a human is created.
type Human struct {
	Id             int64      `json:"id"                        db:"id"`
	FirstName      *string    `json:"first_name,omitempty"      db:"first_name"      binding:"omitempty,min=1,max=45" create:"required"`
	LastName       *string    `json:"last_name,omitempty"       db:"last_name"       binding:"omitempty,min=1,max=45" create:"required"`
	OldLastName    *string    `json:"old_last_name,omitempty"   db:"old_last_name"   binding:"omitempty,max=45"`
	Gender         *Gender    `json:"gender,omitempty"          db:"gender"          binding:"omitempty,oneof=M F"    create:"required"`
	AcademicDegree *string    `json:"academic_degree,omitempty" db:"academic_degree" binding:"omitempty,max=45"`
	BirthDate      *time.Time `json:"birth_date,omitempty"      db:"birth_date"`
	IdentityCode   *string    `json:"identity_code,omitempty"   db:"identity_code"   binding:"omitempty,identity_code"`
	MainAddressId  *int64     `json:"main_address_id,omitempty" db:"main_address_id"`
}

func (h Human) String() string {
	return fmt.Sprintf("%d %s %s", h.Id, deref(h.FirstName), deref(h.LastName))
}

// Address is a postal address of a human.
type Address struct {
	Id             int64   `json:"id"                        db:"id"`
	HumanId        *int64  `json:"human_id,omitempty"        db:"human_id"`
	Town           *string `json:"town,omitempty"            db:"town"            binding:"omitempty,min=1,max=45" create:"required"`
	Address        *string `json:"address,omitempty"         db:"address"         binding:"omitempty,min=1,max=90" create:"required"`
	MunicipalityId *int64  `json:"municipality_id,omitempty" db:"municipality_id"`
}

func (a Address) String() string {
	switch {
	case a.Address == nil:
		return deref(a.Town)
	case a.Town == nil:
		return *a.Address
	}
	return *a.Address + ", " + *a.Town
}

// InfoForContracts holds the identity and banking data that is needed for signing a legal
// contract with a human. There is at most one per human.
type InfoForContracts struct {
	Id                    int64      `json:"id"                                db:"id"`
	HumanId               int64      `json:"human_id"                          db:"human_id"`
	IdentityCardNumber    *string    `json:"identity_card_number,omitempty"    db:"identity_card_number"    binding:"omitempty,max=45"`
	DeliveryPlace         *string    `json:"delivery_place,omitempty"          db:"delivery_place"          binding:"omitempty,max=90"`
	DeliveryDate          *time.Time `json:"delivery_date,omitempty"           db:"delivery_date"`
	SocialInsuranceNumber *string    `json:"social_insurance_number,omitempty" db:"social_insurance_number" binding:"omitempty,max=45"`
	BankAccount           *string    `json:"bank_account,omitempty"            db:"bank_account"            binding:"omitempty,max=45"`
	BankName              *string    `json:"bank_name,omitempty"               db:"bank_name"               binding:"omitempty,max=90"`
}

// Institution is an organization a human is affiliated with.
type Institution struct {
	Id      int64   `json:"id"                 db:"id"`
	HumanId *int64  `json:"human_id,omitempty" db:"human_id"`
	Title   *string `json:"title,omitempty"    db:"title"    binding:"omitempty,min=1,max=80" create:"required"`
}

// deref returns the string behind p, or the empty string for nil.
func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
