package admin

import (
	"strconv"
	"time"

	"gitlab.com/nmadb/contacts/internal/model"
)

// dateLayout is the layout of dates in exported spreadsheets.
const dateLayout = "2006-01-02"

// ExportColumn maps a human with its related records to one spreadsheet cell.
type ExportColumn struct {
	Header string
	Value  func(r model.HumanRecord) string
}

// HumanExportColumns are the columns of the bulk export of humans. Contract data is merged in
// and left blank when a human has none. Phones and emails are joined into one cell each.
var HumanExportColumns = []ExportColumn{
	{"id", func(r model.HumanRecord) string { return strconv.FormatInt(r.Id, 10) }},
	{"first_name", func(r model.HumanRecord) string { return text(r.FirstName) }},
	{"last_name", func(r model.HumanRecord) string { return text(r.LastName) }},
	{"old_last_name", func(r model.HumanRecord) string { return text(r.OldLastName) }},
	{"gender", func(r model.HumanRecord) string {
		if r.Gender == nil {
			return ""
		}
		return r.Gender.Label()
	}},
	{"academic_degree", func(r model.HumanRecord) string { return text(r.AcademicDegree) }},
	{"birth_date", func(r model.HumanRecord) string { return date(r.BirthDate) }},
	{"identity_code", func(r model.HumanRecord) string { return text(r.IdentityCode) }},
	{"main_address", model.HumanRecord.MainAddressText},
	{"phones", func(r model.HumanRecord) string { return model.JoinPhones(r.Phones) }},
	{"emails", func(r model.HumanRecord) string { return model.JoinEmails(r.Emails) }},
	{"identity_card_number", contract(func(i *model.InfoForContracts) string { return text(i.IdentityCardNumber) })},
	{"delivery_place", contract(func(i *model.InfoForContracts) string { return text(i.DeliveryPlace) })},
	{"delivery_date", contract(func(i *model.InfoForContracts) string { return date(i.DeliveryDate) })},
	{"social_insurance_number", contract(func(i *model.InfoForContracts) string { return text(i.SocialInsuranceNumber) })},
	{"bank_account", contract(func(i *model.InfoForContracts) string { return text(i.BankAccount) })},
	{"bank_name", contract(func(i *model.InfoForContracts) string { return text(i.BankName) })},
}

// HumanExportTable renders the records as a table with a header row followed by one row per
// human, in the given order.
func HumanExportTable(records []model.HumanRecord) [][]string {
	table := make([][]string, 0, len(records)+1)
	header := make([]string, len(HumanExportColumns))
	for i, column := range HumanExportColumns {
		header[i] = column.Header
	}
	table = append(table, header)
	for _, record := range records {
		row := make([]string, len(HumanExportColumns))
		for i, column := range HumanExportColumns {
			row[i] = column.Value(record)
		}
		table = append(table, row)
	}
	return table
}

// contract turns a getter of contract data into a column value that is blank when the human
// has no contract data.
func contract(value func(*model.InfoForContracts) string) func(model.HumanRecord) string {
	return func(r model.HumanRecord) string {
		if r.ContractInfo == nil {
			return ""
		}
		return value(r.ContractInfo)
	}
}

func text(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func date(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.Format(dateLayout)
}
