package store

import (
	"context"
	"errors"
	"fmt"

	"gitlab.com/nmadb/contacts/internal/admin"
	"gitlab.com/nmadb/contacts/internal/model"
)

func (s *Store) ListContractInfos(ctx context.Context, q admin.ListQuery) ([]model.InfoForContracts, error) {
	return list[model.InfoForContracts](ctx, s, admin.ContractInfos, q)
}

func (s *Store) GetContractInfoById(ctx context.Context, id int64) (model.InfoForContracts, error) {
	return get[model.InfoForContracts](ctx, s.db, admin.ContractInfos.Table, id)
}

// UpdateContractInfoById changes the submitted fields of contract data. The human it belongs to
// cannot be changed.
func (s *Store) UpdateContractInfoById(ctx context.Context, id int64, patch model.InfoForContracts, nulls map[string]bool) error {
	return s.update(ctx, admin.ContractInfos.Table, id, &patch, nulls)
}

func (s *Store) DeleteContractInfoById(ctx context.Context, id int64) error {
	return s.remove(ctx, admin.ContractInfos.Table, id)
}

// GetContractInfo returns the contract data of a human, or ErrNotFound if there is none.
func (s *Store) GetContractInfo(ctx context.Context, humanId int64) (model.InfoForContracts, error) {
	var info model.InfoForContracts
	err := s.db.GetContext(ctx, &info, "SELECT * FROM info_for_contracts WHERE human_id = ?", humanId)
	if err != nil {
		return info, fmt.Errorf("get contract info of human %d: %w", humanId, translateError(err))
	}
	return info, nil
}

// FindContractInfo returns the contract data of a human, or nil if there is none. A missing
// record is not an error.
func (s *Store) FindContractInfo(ctx context.Context, humanId int64) (*model.InfoForContracts, error) {
	info, err := s.GetContractInfo(ctx, humanId)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// PutContractInfo creates or replaces the contract data of a human and returns the stored
// record.
func (s *Store) PutContractInfo(ctx context.Context, humanId int64, info model.InfoForContracts) (model.InfoForContracts, error) {
	info.HumanId = humanId
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO info_for_contracts (human_id, identity_card_number, delivery_place, delivery_date,
			social_insurance_number, bank_account, bank_name)
		VALUES (:human_id, :identity_card_number, :delivery_place, :delivery_date,
			:social_insurance_number, :bank_account, :bank_name)
		ON DUPLICATE KEY UPDATE
			identity_card_number = VALUES(identity_card_number),
			delivery_place = VALUES(delivery_place),
			delivery_date = VALUES(delivery_date),
			social_insurance_number = VALUES(social_insurance_number),
			bank_account = VALUES(bank_account),
			bank_name = VALUES(bank_name)
	`, &info)
	if err != nil {
		return info, fmt.Errorf("put contract info of human %d: %w", humanId, translateError(err))
	}
	return s.GetContractInfo(ctx, humanId)
}

// DeleteContractInfo deletes the contract data of a human.
func (s *Store) DeleteContractInfo(ctx context.Context, humanId int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM info_for_contracts WHERE human_id = ?", humanId)
	if err != nil {
		return fmt.Errorf("delete contract info of human %d: %w", humanId, translateError(err))
	}
	return expectOneRow(result, admin.ContractInfos.Table, humanId)
}
