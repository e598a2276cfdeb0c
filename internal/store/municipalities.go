package store

import (
	"context"
	"fmt"

	"gitlab.com/nmadb/contacts/internal/admin"
	"gitlab.com/nmadb/contacts/internal/model"
)

func (s *Store) ListMunicipalities(ctx context.Context, q admin.ListQuery) ([]model.Municipality, error) {
	return list[model.Municipality](ctx, s, admin.Municipalities, q)
}

func (s *Store) GetMunicipality(ctx context.Context, id int64) (model.Municipality, error) {
	return get[model.Municipality](ctx, s.db, admin.Municipalities.Table, id)
}

func (s *Store) CreateMunicipality(ctx context.Context, m model.Municipality) (model.Municipality, error) {
	id, err := s.insert(ctx, `
		INSERT INTO municipalities (town, municipality_type, code)
		VALUES (:town, :municipality_type, :code)
	`, &m)
	if err != nil {
		return m, fmt.Errorf("create municipality: %w", err)
	}
	m.Id = id
	return m, nil
}

func (s *Store) UpdateMunicipality(ctx context.Context, id int64, patch model.Municipality, nulls map[string]bool) error {
	return s.update(ctx, admin.Municipalities.Table, id, &patch, nulls)
}

// DeleteMunicipality deletes a municipality. Addresses in it keep existing without one.
func (s *Store) DeleteMunicipality(ctx context.Context, id int64) error {
	return s.remove(ctx, admin.Municipalities.Table, id)
}
