// Package admin holds the presentation configuration of every entity: which columns a list
// shows and can be sorted by, which columns the search box looks into, which columns can be
// filtered on, and the default ordering. It also builds the SQL for list queries from this
// configuration.
package admin

import (
	"slices"

	"gitlab.com/nmadb/contacts/internal/model"
)

// ModelAdmin describes how the list of one entity is presented.
type ModelAdmin struct {
	// Name is the singular, human readable name used in messages, e.g. "human".
	Name string
	// Table is the database table of the entity.
	Table string
	// ListDisplay are the columns of the list. Only these may be used for sorting.
	ListDisplay []string
	// SearchFields are matched against the search term with a substring match.
	SearchFields []string
	// ListFilter are the columns that can be filtered on by exact value.
	ListFilter []FilterColumn
	// Ordering is the default sort order. The id is always appended as a tie breaker.
	Ordering []string
}

// Sortable reports whether the list can be sorted by column.
func (ma *ModelAdmin) Sortable(column string) bool {
	return slices.Contains(ma.ListDisplay, column)
}

var Municipalities = &ModelAdmin{
	Name:         "municipality",
	Table:        "municipalities",
	ListDisplay:  []string{"id", "code", "town", "municipality_type"},
	SearchFields: []string{"town", "code"},
	ListFilter:   []FilterColumn{{Column: "municipality_type", Kind: TextFilter, Choices: []string{string(model.MunicipalityTown), string(model.MunicipalityDistrict)}}},
	Ordering:     []string{"town", "municipality_type"},
}

var Humans = &ModelAdmin{
	Name:         "human",
	Table:        "humans",
	ListDisplay:  []string{"id", "first_name", "last_name", "birth_date"},
	SearchFields: []string{"first_name", "last_name", "old_last_name"},
	Ordering:     []string{"last_name", "first_name"},
}

var Addresses = &ModelAdmin{
	Name:         "address",
	Table:        "addresses",
	ListDisplay:  []string{"id", "human_id", "town", "address", "municipality_id"},
	SearchFields: []string{"town", "address"},
	ListFilter:   []FilterColumn{{Column: "municipality_id", Kind: IdFilter}},
	Ordering:     []string{"municipality_id"},
}

var Phones = &ModelAdmin{
	Name:         "phone",
	Table:        "phones",
	ListDisplay:  []string{"id", "human_id", "number", "used", "last_used"},
	SearchFields: []string{"number"},
	ListFilter:   []FilterColumn{{Column: "used", Kind: BoolFilter}},
}

var Emails = &ModelAdmin{
	Name:         "email",
	Table:        "emails",
	ListDisplay:  []string{"id", "human_id", "address", "used", "last_used"},
	SearchFields: []string{"address"},
	ListFilter:   []FilterColumn{{Column: "used", Kind: BoolFilter}},
}

var Institutions = &ModelAdmin{
	Name:         "institution",
	Table:        "institutions",
	ListDisplay:  []string{"id", "human_id", "title"},
	SearchFields: []string{"title"},
}

var ContractInfos = &ModelAdmin{
	Name:         "contract info",
	Table:        "info_for_contracts",
	ListDisplay:  []string{"id", "human_id", "bank_name"},
	SearchFields: []string{"identity_card_number", "social_insurance_number"},
}
