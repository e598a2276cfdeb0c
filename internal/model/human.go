package model

// HumanRecord is a human together with the related records that its list columns and export
// rows are derived from.
type HumanRecord struct {
	Human
	MainAddress  *Address
	Phones       []Phone
	Emails       []Email
	ContractInfo *InfoForContracts
}

// MainAddressText returns the main address as text, or the empty string if it is not set.
func (r HumanRecord) MainAddressText() string {
	if r.MainAddress == nil {
		return ""
	}
	return r.MainAddress.String()
}

// HasContractInfo reports whether an InfoForContracts record exists for the human.
func (r HumanRecord) HasContractInfo() bool {
	return r.ContractInfo != nil
}

// Summary builds the row shown in the list of humans.
func (r HumanRecord) Summary() HumanSummary {
	return HumanSummary{
		Human:           r.Human,
		MainAddress:     r.MainAddressText(),
		Phones:          JoinPhones(r.Phones),
		Emails:          JoinEmails(r.Emails),
		HasContractInfo: r.HasContractInfo(),
	}
}

// HumanSummary is a row of the list of humans.
type HumanSummary struct {
	Human
	MainAddress     string `json:"main_address"`
	Phones          string `json:"phones"`
	Emails          string `json:"emails"`
	HasContractInfo bool   `json:"has_contract_info"`
}

// HumanDetail is a human with all inline collections, as shown on its edit page.
type HumanDetail struct {
	HumanSummary
	Addresses    []Address         `json:"addresses"`
	PhoneList    []Phone           `json:"phone_list"`
	EmailList    []Email           `json:"email_list"`
	Institutions []Institution     `json:"institutions"`
	ContractInfo *InfoForContracts `json:"contract_info"`
}
