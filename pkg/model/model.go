// Package model holds the JSON documents of the contacts REST API as seen by a client.
package model

import "time"

// Human is the data structure for a person that we know. First name, last name and gender are
// required when a human is created. All other fields are optional.
type Human struct {
	Id             int64      `json:"id,omitempty"`
	FirstName      string     `json:"first_name,omitempty"`
	LastName       string     `json:"last_name,omitempty"`
	OldLastName    *string    `json:"old_last_name,omitempty"`
	Gender         string     `json:"gender,omitempty"`
	AcademicDegree *string    `json:"academic_degree,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	IdentityCode   *string    `json:"identity_code,omitempty"`
	MainAddressId  *int64     `json:"main_address_id,omitempty"`
}

// HumanSummary is a row of the list of humans.
type HumanSummary struct {
	Human
	MainAddress     string `json:"main_address"`
	Phones          string `json:"phones"`
	Emails          string `json:"emails"`
	HasContractInfo bool   `json:"has_contract_info"`
}

// Address is a postal address of a human.
type Address struct {
	Id             int64  `json:"id,omitempty"`
	HumanId        int64  `json:"human_id,omitempty"`
	Town           string `json:"town,omitempty"`
	Address        string `json:"address,omitempty"`
	MunicipalityId *int64 `json:"municipality_id,omitempty"`
}

// Phone is a phone number of a human.
type Phone struct {
	Id       int64      `json:"id,omitempty"`
	HumanId  int64      `json:"human_id,omitempty"`
	Number   string     `json:"number,omitempty"`
	Used     *bool      `json:"used,omitempty"`
	LastUsed *time.Time `json:"last_used,omitempty"`
}

// Email is an email address of a human.
type Email struct {
	Id       int64      `json:"id,omitempty"`
	HumanId  int64      `json:"human_id,omitempty"`
	Address  string     `json:"address,omitempty"`
	Used     *bool      `json:"used,omitempty"`
	LastUsed *time.Time `json:"last_used,omitempty"`
}

// HumanDetail is a human with all inline collections.
type HumanDetail struct {
	HumanSummary
	Addresses []Address `json:"addresses"`
	PhoneList []Phone   `json:"phone_list"`
	EmailList []Email   `json:"email_list"`
}

// Message is the body of error responses and of delete confirmations.
type Message struct {
	Message string `json:"message"`
}
