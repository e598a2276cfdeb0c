package store

import (
	"context"
	"fmt"

	"gitlab.com/nmadb/contacts/internal/admin"
	"gitlab.com/nmadb/contacts/internal/model"
)

func (s *Store) ListInstitutions(ctx context.Context, q admin.ListQuery) ([]model.Institution, error) {
	return list[model.Institution](ctx, s, admin.Institutions, q)
}

func (s *Store) GetInstitution(ctx context.Context, id int64) (model.Institution, error) {
	return get[model.Institution](ctx, s.db, admin.Institutions.Table, id)
}

func (s *Store) CreateInstitution(ctx context.Context, humanId int64, i model.Institution) (model.Institution, error) {
	i.HumanId = &humanId
	id, err := s.insert(ctx, `
		INSERT INTO institutions (human_id, title)
		VALUES (:human_id, :title)
	`, &i)
	if err != nil {
		return i, fmt.Errorf("create institution: %w", err)
	}
	i.Id = id
	return i, nil
}

func (s *Store) UpdateInstitution(ctx context.Context, id int64, patch model.Institution, nulls map[string]bool) error {
	return s.update(ctx, admin.Institutions.Table, id, &patch, nulls)
}

func (s *Store) DeleteInstitution(ctx context.Context, id int64) error {
	return s.remove(ctx, admin.Institutions.Table, id)
}
