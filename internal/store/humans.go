package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"gitlab.com/nmadb/contacts/internal/admin"
	"gitlab.com/nmadb/contacts/internal/model"
)

// ListHumans returns one page of humans.
func (s *Store) ListHumans(ctx context.Context, q admin.ListQuery) ([]model.Human, error) {
	return list[model.Human](ctx, s, admin.Humans, q)
}

// FindHumanRecords returns one page of humans together with their related records. It backs
// both the list of humans and the bulk export.
func (s *Store) FindHumanRecords(ctx context.Context, q admin.ListQuery) ([]model.HumanRecord, error) {
	humans, err := s.ListHumans(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.LoadRecords(ctx, humans)
}

// GetHuman returns the human with the given id.
func (s *Store) GetHuman(ctx context.Context, id int64) (model.Human, error) {
	var human model.Human
	if err := s.selectHumanWhereId.GetContext(ctx, &human, id); err != nil {
		return human, fmt.Errorf("get human %d: %w", id, translateError(err))
	}
	return human, nil
}

// CreateHuman inserts a new human and returns it with its id. A new human cannot own any
// address yet, so a main address is rejected.
func (s *Store) CreateHuman(ctx context.Context, human model.Human) (model.Human, error) {
	if human.MainAddressId != nil {
		return human, ErrForeignMainAddress
	}
	result, err := s.insertHuman.ExecContext(ctx, &human)
	if err != nil {
		return human, fmt.Errorf("create human: %w", translateError(err))
	}
	human.Id, err = result.LastInsertId()
	if err != nil {
		return human, fmt.Errorf("create human: %w", err)
	}
	return human, nil
}

// UpdateHuman changes the submitted fields of a human. Columns listed in nulls are cleared. The
// main address can only be set to an address that belongs to the human.
func (s *Store) UpdateHuman(ctx context.Context, id int64, patch model.Human, nulls map[string]bool) error {
	if patch.MainAddressId != nil {
		address, err := get[model.Address](ctx, s.db, admin.Addresses.Table, *patch.MainAddressId)
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("main address %d: %w", *patch.MainAddressId, ErrInvalidReference)
		}
		if err != nil {
			return err
		}
		if address.HumanId == nil || *address.HumanId != id {
			return fmt.Errorf("address %d: %w", address.Id, ErrForeignMainAddress)
		}
	}
	return s.update(ctx, admin.Humans.Table, id, &patch, nulls)
}

// DeleteHuman deletes a human together with all records that belong to it.
func (s *Store) DeleteHuman(ctx context.Context, id int64) error {
	result, err := s.deleteHumanWhereId.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete human %d: %w", id, translateError(err))
	}
	return expectOneRow(result, admin.Humans.Table, id)
}

// LoadRecords fetches the main address, phones, emails and contract data of the humans with one
// query per kind of record. The records keep the order of humans.
func (s *Store) LoadRecords(ctx context.Context, humans []model.Human) ([]model.HumanRecord, error) {
	records := make([]model.HumanRecord, len(humans))
	if len(humans) == 0 {
		return records, nil
	}
	ids := make([]int64, len(humans))
	var mainAddressIds []int64
	for i, human := range humans {
		ids[i] = human.Id
		if human.MainAddressId != nil {
			mainAddressIds = append(mainAddressIds, *human.MainAddressId)
		}
	}

	addresses := map[int64]*model.Address{}
	if len(mainAddressIds) > 0 {
		found, err := selectIn[model.Address](ctx, s, "SELECT * FROM addresses WHERE id IN (?)", mainAddressIds)
		if err != nil {
			return nil, fmt.Errorf("load main addresses: %w", err)
		}
		for i := range found {
			addresses[found[i].Id] = &found[i]
		}
	}
	phones, err := selectIn[model.Phone](ctx, s, "SELECT * FROM phones WHERE human_id IN (?) ORDER BY id", ids)
	if err != nil {
		return nil, fmt.Errorf("load phones: %w", err)
	}
	emails, err := selectIn[model.Email](ctx, s, "SELECT * FROM emails WHERE human_id IN (?) ORDER BY id", ids)
	if err != nil {
		return nil, fmt.Errorf("load emails: %w", err)
	}
	contracts, err := selectIn[model.InfoForContracts](ctx, s, "SELECT * FROM info_for_contracts WHERE human_id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("load contract info: %w", err)
	}

	index := make(map[int64]*model.HumanRecord, len(humans))
	for i, human := range humans {
		records[i].Human = human
		if human.MainAddressId != nil {
			records[i].MainAddress = addresses[*human.MainAddressId]
		}
		index[human.Id] = &records[i]
	}
	for _, phone := range phones {
		if phone.HumanId != nil {
			if record, ok := index[*phone.HumanId]; ok {
				record.Phones = append(record.Phones, phone)
			}
		}
	}
	for _, email := range emails {
		if email.HumanId != nil {
			if record, ok := index[*email.HumanId]; ok {
				record.Emails = append(record.Emails, email)
			}
		}
	}
	for i := range contracts {
		if record, ok := index[contracts[i].HumanId]; ok {
			record.ContractInfo = &contracts[i]
		}
	}
	return records, nil
}

// GetHumanDetail returns a human with all of its inline collections.
func (s *Store) GetHumanDetail(ctx context.Context, id int64) (model.HumanDetail, error) {
	var detail model.HumanDetail
	human, err := s.GetHuman(ctx, id)
	if err != nil {
		return detail, err
	}
	ofHuman := admin.ListQuery{Conditions: []admin.Condition{{SQL: "human_id = ?", Args: []any{id}}}}
	addresses, err := list[model.Address](ctx, s, admin.Addresses, ofHuman)
	if err != nil {
		return detail, err
	}
	phones, err := list[model.Phone](ctx, s, admin.Phones, ofHuman)
	if err != nil {
		return detail, err
	}
	emails, err := list[model.Email](ctx, s, admin.Emails, ofHuman)
	if err != nil {
		return detail, err
	}
	institutions, err := list[model.Institution](ctx, s, admin.Institutions, ofHuman)
	if err != nil {
		return detail, err
	}
	contract, err := s.FindContractInfo(ctx, id)
	if err != nil {
		return detail, err
	}

	record := model.HumanRecord{Human: human, Phones: phones, Emails: emails, ContractInfo: contract}
	if human.MainAddressId != nil {
		for i := range addresses {
			if addresses[i].Id == *human.MainAddressId {
				record.MainAddress = &addresses[i]
			}
		}
	}
	detail.HumanSummary = record.Summary()
	detail.Addresses = addresses
	detail.PhoneList = phones
	detail.EmailList = emails
	detail.Institutions = institutions
	detail.ContractInfo = record.ContractInfo
	return detail, nil
}

// selectIn runs a query with a single "IN (?)" placeholder for ids.
func selectIn[T any](ctx context.Context, s *Store, query string, ids []int64) ([]T, error) {
	query, args, err := sqlx.In(query, ids)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(query), args...); err != nil {
		return nil, translateError(err)
	}
	return items, nil
}
