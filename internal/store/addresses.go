package store

import (
	"context"
	"fmt"

	"gitlab.com/nmadb/contacts/internal/admin"
	"gitlab.com/nmadb/contacts/internal/model"
)

func (s *Store) ListAddresses(ctx context.Context, q admin.ListQuery) ([]model.Address, error) {
	return list[model.Address](ctx, s, admin.Addresses, q)
}

func (s *Store) GetAddress(ctx context.Context, id int64) (model.Address, error) {
	return get[model.Address](ctx, s.db, admin.Addresses.Table, id)
}

// CreateAddress adds an address to the human with the given id.
func (s *Store) CreateAddress(ctx context.Context, humanId int64, a model.Address) (model.Address, error) {
	a.HumanId = &humanId
	id, err := s.insert(ctx, `
		INSERT INTO addresses (human_id, town, address, municipality_id)
		VALUES (:human_id, :town, :address, :municipality_id)
	`, &a)
	if err != nil {
		return a, fmt.Errorf("create address: %w", err)
	}
	a.Id = id
	return a, nil
}

// UpdateAddress changes the submitted fields of an address. The main address of a human cannot
// be handed over to another human, that yields ErrForeignMainAddress.
func (s *Store) UpdateAddress(ctx context.Context, id int64, patch model.Address, nulls map[string]bool) error {
	if patch.HumanId != nil {
		var owners int
		err := s.db.GetContext(ctx, &owners, "SELECT COUNT(*) FROM humans WHERE main_address_id = ? AND id <> ?", id, *patch.HumanId)
		if err != nil {
			return fmt.Errorf("update address %d: %w", id, translateError(err))
		}
		if owners > 0 {
			return fmt.Errorf("move address %d to human %d: %w", id, *patch.HumanId, ErrForeignMainAddress)
		}
	}
	return s.update(ctx, admin.Addresses.Table, id, &patch, nulls)
}

// DeleteAddress deletes an address. A human that uses it as main address is left without one.
func (s *Store) DeleteAddress(ctx context.Context, id int64) error {
	return s.remove(ctx, admin.Addresses.Table, id)
}
