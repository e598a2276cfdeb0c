package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/nmadb/contacts/internal/admin"
	"gitlab.com/nmadb/contacts/internal/model"
)

var (
	humanColumns   = []string{"id", "first_name", "last_name", "old_last_name", "gender", "academic_degree", "birth_date", "identity_code", "main_address_id"}
	addressColumns = []string{"id", "human_id", "town", "address", "municipality_id"}
	phoneColumns   = []string{"id", "human_id", "last_used", "used", "number"}
	emailColumns   = []string{"id", "human_id", "last_used", "used", "address"}
	contractCols   = []string{"id", "human_id", "identity_card_number", "delivery_place", "delivery_date", "social_insurance_number", "bank_account", "bank_name"}
)

func ptr[T any](v T) *T {
	return &v
}

// newMockStore builds a store on top of a mock database. The statements prepared by New are
// already expected.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	expectPreparedStatements(mock)
	s, err := New(sqlx.NewDb(sqlDB, "mysql"))
	require.NoError(t, err)
	return s, mock
}

// expectPreparedStatements instructs the mock object to expect that several statements are being
// prepared.
func expectPreparedStatements(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare("INSERT INTO humans")
	mock.ExpectPrepare("SELECT \\* FROM humans WHERE id")
	mock.ExpectPrepare("DELETE FROM humans WHERE id")
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestNewFailsWhenPrepareFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	mock.ExpectPrepare("INSERT INTO humans").WillReturnError(errors.New("connection refused"))

	_, err = New(sqlx.NewDb(sqlDB, "mysql"))
	assert.ErrorContains(t, err, "prepare insert human")
}

// TestConsumeEmail checks that reading an email address through ConsumeEmail stamps the last
// used time and commits it.
func TestConsumeEmail(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2024, time.May, 2, 10, 30, 0, 0, time.UTC)
	s.Now = func() time.Time { return now }

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM emails WHERE id = ? FOR UPDATE")).
		WithArgs(int64(5)).
		WillReturnRows(mock.NewRows(emailColumns).AddRow(5, 1, nil, true, "jonas@example.com"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE emails SET last_used=? WHERE id = ?")).
		WithArgs(now, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	email, err := s.ConsumeEmail(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "jonas@example.com", *email.Address)
	require.NotNil(t, email.LastUsed)
	assert.Equal(t, now, *email.LastUsed)
	expectationsMet(t, mock)
}

// TestConsumeEmailUsesCurrentTime checks that the stored timestamp is not older than the call.
func TestConsumeEmailUsesCurrentTime(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM emails WHERE id").
		WithArgs(int64(6)).
		WillReturnRows(mock.NewRows(emailColumns).AddRow(6, 1, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), nil, "ona@example.com"))
	mock.ExpectExec("UPDATE emails SET last_used").
		WithArgs(sqlmock.AnyArg(), int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	before := time.Now()
	email, err := s.ConsumeEmail(context.Background(), 6)
	require.NoError(t, err)
	require.NotNil(t, email.LastUsed)
	assert.False(t, email.LastUsed.Before(before))
	expectationsMet(t, mock)
}

// TestConsumeEmailStampsMicroseconds checks that the stamp is cut to the microseconds that the
// column keeps, so that the stored and the returned value are the same.
func TestConsumeEmailStampsMicroseconds(t *testing.T) {
	s, mock := newMockStore(t)
	s.Now = func() time.Time { return time.Date(2024, time.May, 2, 10, 30, 0, 123456789, time.UTC) }
	stamp := time.Date(2024, time.May, 2, 10, 30, 0, 123456000, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM emails WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(mock.NewRows(emailColumns).AddRow(7, 1, nil, nil, "ona@example.com"))
	mock.ExpectExec("UPDATE emails SET last_used").
		WithArgs(stamp, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	email, err := s.ConsumeEmail(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, email.LastUsed)
	assert.Equal(t, stamp, *email.LastUsed)
	expectationsMet(t, mock)
}

func TestConsumeEmailNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM emails WHERE id").
		WithArgs(int64(99)).
		WillReturnRows(mock.NewRows(emailColumns))
	mock.ExpectRollback()

	_, err := s.ConsumeEmail(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	expectationsMet(t, mock)
}

func TestConsumeEmailRollsBackOnFailedUpdate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM emails WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(mock.NewRows(emailColumns).AddRow(7, 1, nil, nil, "x@example.com"))
	mock.ExpectExec("UPDATE emails SET last_used").
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	_, err := s.ConsumeEmail(context.Background(), 7)
	assert.ErrorContains(t, err, "lock wait timeout")
	expectationsMet(t, mock)
}

func TestCreateHuman(t *testing.T) {
	s, mock := newMockStore(t)
	birth := time.Date(1987, time.March, 18, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO humans").
		WithArgs("Jonas", "Jonaitis", nil, "M", nil, birth, "38703181745", nil).
		WillReturnResult(sqlmock.NewResult(42, 1))

	human, err := s.CreateHuman(context.Background(), model.Human{
		FirstName:    ptr("Jonas"),
		LastName:     ptr("Jonaitis"),
		Gender:       ptr(model.GenderMale),
		BirthDate:    &birth,
		IdentityCode: ptr("38703181745"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), human.Id)
	expectationsMet(t, mock)
}

// TestCreateHumanDuplicateIdentityCode checks that the unique index on identity codes is
// reported as ErrDuplicate.
func TestCreateHumanDuplicateIdentityCode(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO humans").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '38703181745' for key 'identity_code'"})

	_, err := s.CreateHuman(context.Background(), model.Human{
		FirstName:    ptr("Jonas"),
		LastName:     ptr("Jonaitis"),
		Gender:       ptr(model.GenderMale),
		IdentityCode: ptr("38703181745"),
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	expectationsMet(t, mock)
}

func TestCreateHumanWithMainAddress(t *testing.T) {
	s, mock := newMockStore(t)

	_, err := s.CreateHuman(context.Background(), model.Human{
		FirstName:     ptr("Jonas"),
		LastName:      ptr("Jonaitis"),
		Gender:        ptr(model.GenderMale),
		MainAddressId: ptr(int64(3)),
	})
	assert.ErrorIs(t, err, ErrForeignMainAddress)
	expectationsMet(t, mock)
}

func TestCreatePhoneDuplicate(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO phones").
		WithArgs(int64(3), nil, nil, "+370 612 34567").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '+370 612 34567' for key 'number'"})

	_, err := s.CreatePhone(context.Background(), 3, model.Phone{Number: ptr("+370 612 34567")})
	assert.ErrorIs(t, err, ErrDuplicate)
	expectationsMet(t, mock)
}

func TestCreateEmailDuplicate(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO emails").
		WithArgs(int64(3), nil, true, "jonas@example.com").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'jonas@example.com' for key 'address'"})

	_, err := s.CreateEmail(context.Background(), 3, model.Email{
		Address: ptr("jonas@example.com"),
		Contact: model.Contact{Used: ptr(true)},
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	expectationsMet(t, mock)
}

func TestCreateAddressUnknownMunicipality(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO addresses").
		WithArgs(int64(1), "Vilnius", "Gedimino pr. 1", int64(77)).
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})

	_, err := s.CreateAddress(context.Background(), 1, model.Address{
		Town:           ptr("Vilnius"),
		Address:        ptr("Gedimino pr. 1"),
		MunicipalityId: ptr(int64(77)),
	})
	assert.ErrorIs(t, err, ErrInvalidReference)
	expectationsMet(t, mock)
}

func TestCreateMunicipality(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO municipalities").
		WithArgs("Vilnius", "T", 13).
		WillReturnResult(sqlmock.NewResult(8, 1))

	m, err := s.CreateMunicipality(context.Background(), model.Municipality{
		Town:             ptr("Vilnius"),
		MunicipalityType: ptr(model.MunicipalityTown),
		Code:             ptr(13),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), m.Id)
	expectationsMet(t, mock)
}

// TestUpdateHumanPartial checks that only submitted columns are changed and that explicit nulls
// clear nullable columns.
func TestUpdateHumanPartial(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE humans SET last_name=?, old_last_name=NULL, identity_code=NULL WHERE id = ?")).
		WithArgs("Petraitienė", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.UpdateHuman(context.Background(), 1,
		model.Human{LastName: ptr("Petraitienė")},
		map[string]bool{"old_last_name": true, "identity_code": true})
	require.NoError(t, err)
	expectationsMet(t, mock)
}

func TestUpdateHumanRequiredNull(t *testing.T) {
	s, mock := newMockStore(t)

	err := s.UpdateHuman(context.Background(), 1, model.Human{}, map[string]bool{"first_name": true})
	assert.ErrorIs(t, err, ErrRequiredValue)
	expectationsMet(t, mock)
}

func TestUpdateHumanNoChanges(t *testing.T) {
	s, mock := newMockStore(t)

	err := s.UpdateHuman(context.Background(), 1, model.Human{}, nil)
	assert.ErrorIs(t, err, ErrNoChanges)
	expectationsMet(t, mock)
}

func TestUpdateHumanNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("UPDATE humans SET").
		WithArgs("Jonas", int64(9999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateHuman(context.Background(), 9999, model.Human{FirstName: ptr("Jonas")}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	expectationsMet(t, mock)
}

// TestUpdateHumanMainAddress checks that a human can pick one of its own addresses as main
// address.
func TestUpdateHumanMainAddress(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM addresses WHERE id").
		WithArgs(int64(9)).
		WillReturnRows(mock.NewRows(addressColumns).AddRow(9, 1, "Vilnius", "Gedimino pr. 1", nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE humans SET main_address_id=? WHERE id = ?")).
		WithArgs(int64(9), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.UpdateHuman(context.Background(), 1, model.Human{MainAddressId: ptr(int64(9))}, nil)
	require.NoError(t, err)
	expectationsMet(t, mock)
}

// TestUpdateHumanForeignMainAddress checks that the address of another human is rejected.
func TestUpdateHumanForeignMainAddress(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM addresses WHERE id").
		WithArgs(int64(9)).
		WillReturnRows(mock.NewRows(addressColumns).AddRow(9, 2, "Kaunas", "Laisvės al. 5", nil))

	err := s.UpdateHuman(context.Background(), 1, model.Human{MainAddressId: ptr(int64(9))}, nil)
	assert.ErrorIs(t, err, ErrForeignMainAddress)
	expectationsMet(t, mock)
}

func TestUpdateHumanMissingMainAddress(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM addresses WHERE id").
		WithArgs(int64(9)).
		WillReturnRows(mock.NewRows(addressColumns))

	err := s.UpdateHuman(context.Background(), 1, model.Human{MainAddressId: ptr(int64(9))}, nil)
	assert.ErrorIs(t, err, ErrInvalidReference)
	expectationsMet(t, mock)
}

func TestDeleteHuman(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM humans").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM humans").
		WithArgs(int64(43)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.DeleteHuman(context.Background(), 42))
	assert.ErrorIs(t, s.DeleteHuman(context.Background(), 43), ErrNotFound)
	expectationsMet(t, mock)
}

// TestFindContractInfo checks that a missing record is reported as nil and not as an error.
func TestFindContractInfo(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM info_for_contracts WHERE human_id").
		WithArgs(int64(1)).
		WillReturnRows(mock.NewRows(contractCols).AddRow(3, 1, "10000001", nil, nil, nil, nil, nil))
	mock.ExpectQuery("SELECT \\* FROM info_for_contracts WHERE human_id").
		WithArgs(int64(2)).
		WillReturnRows(mock.NewRows(contractCols))

	info, err := s.FindContractInfo(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "10000001", *info.IdentityCardNumber)

	info, err = s.FindContractInfo(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, info)
	expectationsMet(t, mock)
}

func TestFindContractInfoPropagatesOtherErrors(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM info_for_contracts WHERE human_id").
		WillReturnError(errors.New("server has gone away"))

	_, err := s.FindContractInfo(context.Background(), 1)
	assert.ErrorContains(t, err, "server has gone away")
	expectationsMet(t, mock)
}

func TestPutContractInfo(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO info_for_contracts .* ON DUPLICATE KEY UPDATE").
		WithArgs(int64(1), "10000001", nil, nil, nil, "LT121000011101001000", nil).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery("SELECT \\* FROM info_for_contracts WHERE human_id").
		WithArgs(int64(1)).
		WillReturnRows(mock.NewRows(contractCols).AddRow(3, 1, "10000001", nil, nil, nil, "LT121000011101001000", nil))

	info, err := s.PutContractInfo(context.Background(), 1, model.InfoForContracts{
		IdentityCardNumber: ptr("10000001"),
		BankAccount:        ptr("LT121000011101001000"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Id)
	assert.Equal(t, int64(1), info.HumanId)
	expectationsMet(t, mock)
}

func TestListMunicipalitiesWithFilter(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM municipalities WHERE municipality_type = ? ORDER BY town ASC, municipality_type ASC, id ASC LIMIT ? OFFSET ?")).
		WithArgs("D", sqlmock.AnyArg(), 0).
		WillReturnRows(mock.NewRows([]string{"id", "town", "municipality_type", "code"}).
			AddRow(1, "Alytus", "D", 33).
			AddRow(2, "Kaunas", "D", 19))

	municipalities, err := s.ListMunicipalities(context.Background(), admin.ListQuery{
		Filters: []admin.Filter{{Column: "municipality_type", Value: "D"}},
	})
	require.NoError(t, err)
	require.Len(t, municipalities, 2)
	assert.Equal(t, "Alytus", *municipalities[0].Town)
	assert.Equal(t, model.MunicipalityDistrict, *municipalities[1].MunicipalityType)
	assert.Equal(t, 19, *municipalities[1].Code)
	expectationsMet(t, mock)
}

func TestListEmptyReturnsEmptySlice(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM institutions").
		WillReturnRows(mock.NewRows([]string{"id", "human_id", "title"}))

	institutions, err := s.ListInstitutions(context.Background(), admin.ListQuery{})
	require.NoError(t, err)
	assert.NotNil(t, institutions)
	assert.Empty(t, institutions)
	expectationsMet(t, mock)
}

// TestFindHumanRecords checks that the related records of a page of humans are loaded with one
// query per kind and attached to the right human.
func TestFindHumanRecords(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM humans ORDER BY last_name ASC, first_name ASC, id ASC").
		WillReturnRows(mock.NewRows(humanColumns).
			AddRow(1, "Jonas", "Jonaitis", nil, "M", nil, nil, "38703181745", 10).
			AddRow(2, "Ona", "Onaitė", nil, "F", nil, nil, nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM addresses WHERE id IN (?)")).
		WithArgs(int64(10)).
		WillReturnRows(mock.NewRows(addressColumns).AddRow(10, 1, "Vilnius", "Gedimino pr. 1", nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM phones WHERE human_id IN (?, ?) ORDER BY id")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(mock.NewRows(phoneColumns).
			AddRow(1, 1, nil, true, "+370 612 34567").
			AddRow(2, 2, nil, false, "+370 612 00000").
			AddRow(3, 1, nil, nil, "+370 5 212 3456"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM emails WHERE human_id IN (?, ?) ORDER BY id")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(mock.NewRows(emailColumns).
			AddRow(4, 2, nil, nil, "ona@example.com"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM info_for_contracts WHERE human_id IN (?, ?)")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(mock.NewRows(contractCols).AddRow(3, 1, "10000001", nil, nil, nil, nil, nil))

	records, err := s.FindHumanRecords(context.Background(), admin.ListQuery{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	jonas := records[0].Summary()
	assert.Equal(t, "Gedimino pr. 1, Vilnius", jonas.MainAddress)
	assert.Equal(t, "+370 612 34567; +370 5 212 3456", jonas.Phones)
	assert.Equal(t, "", jonas.Emails)
	assert.True(t, jonas.HasContractInfo)

	ona := records[1].Summary()
	assert.Equal(t, "", ona.MainAddress)
	assert.Equal(t, "", ona.Phones)
	assert.Equal(t, "ona@example.com", ona.Emails)
	assert.False(t, ona.HasContractInfo)
	expectationsMet(t, mock)
}

func TestFindHumanRecordsEmpty(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM humans").
		WillReturnRows(mock.NewRows(humanColumns))

	records, err := s.FindHumanRecords(context.Background(), admin.ListQuery{Search: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, records)
	expectationsMet(t, mock)
}

func TestGetHumanNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM humans WHERE id").
		WithArgs(int64(9999)).
		WillReturnRows(mock.NewRows(humanColumns))

	_, err := s.GetHuman(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	expectationsMet(t, mock)
}

func TestTranslateError(t *testing.T) {
	assert.Nil(t, translateError(nil))
	assert.ErrorIs(t, translateError(&mysql.MySQLError{Number: 1048}), ErrRequiredValue)
	assert.ErrorIs(t, translateError(&mysql.MySQLError{Number: 1406}), ErrInvalidValue)
	assert.ErrorIs(t, translateError(&mysql.MySQLError{Number: 1216}), ErrInvalidReference)
	other := &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
	assert.Equal(t, error(other), translateError(other))
}
