package store

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/nmadb/contacts/internal/admin"
	"gitlab.com/nmadb/contacts/internal/model"
)

func (s *Store) ListPhones(ctx context.Context, q admin.ListQuery) ([]model.Phone, error) {
	return list[model.Phone](ctx, s, admin.Phones, q)
}

func (s *Store) GetPhone(ctx context.Context, id int64) (model.Phone, error) {
	return get[model.Phone](ctx, s.db, admin.Phones.Table, id)
}

// CreatePhone adds a phone number to the human with the given id. Phone numbers are unique, a
// number that is already known yields ErrDuplicate.
func (s *Store) CreatePhone(ctx context.Context, humanId int64, p model.Phone) (model.Phone, error) {
	p.HumanId = &humanId
	id, err := s.insert(ctx, `
		INSERT INTO phones (human_id, last_used, used, number)
		VALUES (:human_id, :last_used, :used, :number)
	`, &p)
	if err != nil {
		return p, fmt.Errorf("create phone: %w", err)
	}
	p.Id = id
	return p, nil
}

func (s *Store) UpdatePhone(ctx context.Context, id int64, patch model.Phone, nulls map[string]bool) error {
	return s.update(ctx, admin.Phones.Table, id, &patch, nulls)
}

func (s *Store) DeletePhone(ctx context.Context, id int64) error {
	return s.remove(ctx, admin.Phones.Table, id)
}

func (s *Store) ListEmails(ctx context.Context, q admin.ListQuery) ([]model.Email, error) {
	return list[model.Email](ctx, s, admin.Emails, q)
}

func (s *Store) GetEmail(ctx context.Context, id int64) (model.Email, error) {
	return get[model.Email](ctx, s.db, admin.Emails.Table, id)
}

// CreateEmail adds an email address to the human with the given id. Addresses are unique, an
// address that is already known yields ErrDuplicate.
func (s *Store) CreateEmail(ctx context.Context, humanId int64, e model.Email) (model.Email, error) {
	e.HumanId = &humanId
	id, err := s.insert(ctx, `
		INSERT INTO emails (human_id, last_used, used, address)
		VALUES (:human_id, :last_used, :used, :address)
	`, &e)
	if err != nil {
		return e, fmt.Errorf("create email: %w", err)
	}
	e.Id = id
	return e, nil
}

func (s *Store) UpdateEmail(ctx context.Context, id int64, patch model.Email, nulls map[string]bool) error {
	return s.update(ctx, admin.Emails.Table, id, &patch, nulls)
}

func (s *Store) DeleteEmail(ctx context.Context, id int64) error {
	return s.remove(ctx, admin.Emails.Table, id)
}

// ConsumeEmail returns the email with the given id for sending a message to it and records that
// it was used just now. The row is locked for the duration of the transaction so that the
// returned record and the stored timestamp agree.
func (s *Store) ConsumeEmail(ctx context.Context, id int64) (model.Email, error) {
	var email model.Email
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return email, fmt.Errorf("consume email %d: %w", id, err)
	}
	defer tx.Rollback()

	if err := tx.GetContext(ctx, &email, "SELECT * FROM emails WHERE id = ? FOR UPDATE", id); err != nil {
		return email, fmt.Errorf("consume email %d: %w", id, translateError(err))
	}
	// last_used keeps microseconds, a finer stamp would be rounded by the server
	now := s.Now().Truncate(time.Microsecond)
	if _, err := tx.ExecContext(ctx, "UPDATE emails SET last_used=? WHERE id = ?", now, id); err != nil {
		return email, fmt.Errorf("consume email %d: %w", id, translateError(err))
	}
	if err := tx.Commit(); err != nil {
		return email, fmt.Errorf("consume email %d: %w", id, err)
	}
	email.LastUsed = &now
	return email, nil
}
