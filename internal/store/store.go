// Package store is the data access layer of the contacts service. It wraps a sqlx database
// handle and knows the SQL of every entity.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/nmadb/contacts/internal/admin"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique column would contain the same value twice.
	ErrDuplicate = errors.New("duplicate value")
	// ErrInvalidReference is returned when a foreign key points to a missing record.
	ErrInvalidReference = errors.New("referenced record does not exist")
	// ErrRequiredValue is returned when a required column would be empty.
	ErrRequiredValue = errors.New("required value missing")
	// ErrInvalidValue is returned when a value does not fit its column.
	ErrInvalidValue = errors.New("invalid value")
	// ErrNoChanges is returned by updates without any value to change.
	ErrNoChanges = errors.New("no values to be updated")
	// ErrForeignMainAddress is returned when the main address of a human belongs to someone
	// else.
	ErrForeignMainAddress = errors.New("main address does not belong to the human")
)

// MySQL server error numbers, see
// https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	mysqlBadNull          = 1048
	mysqlDuplicateEntry   = 1062
	mysqlNoReferencedRow  = 1216
	mysqlNoReferencedRow2 = 1452
	mysqlDataTooLong      = 1406
)

// Store gives access to all contact records.
type Store struct {
	db *sqlx.DB

	// Now returns the current time. It is used for the last-used timestamps.
	Now func() time.Time

	// insertHuman is a prepared statement for creating a human on the database.
	insertHuman *sqlx.NamedStmt
	// selectHumanWhereId is a prepared statement for selecting a human with a given id.
	selectHumanWhereId *sqlx.Stmt
	// deleteHumanWhereId is a prepared statement for deleting a human with a given id.
	deleteHumanWhereId *sqlx.Stmt
}

// New creates a store on top of the database handle and prepares its statements. The database
// can be a real database for production use or a mock database within unit tests.
func New(db *sqlx.DB) (*Store, error) {
	s := &Store{db: db, Now: time.Now}
	var err error

	// Prepared statements offer a significant speed increase if executed many times.
	s.insertHuman, err = db.PrepareNamed(`
		INSERT INTO humans (first_name, last_name, old_last_name, gender, academic_degree,
			birth_date, identity_code, main_address_id)
		VALUES (:first_name, :last_name, :old_last_name, :gender, :academic_degree,
			:birth_date, :identity_code, :main_address_id)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert human: %w", err)
	}
	s.selectHumanWhereId, err = db.Preparex(`
		SELECT * FROM humans WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare select human: %w", err)
	}
	s.deleteHumanWhereId, err = db.Preparex(`
		DELETE FROM humans WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare delete human: %w", err)
	}
	return s, nil
}

// Ping checks that the database can be reached.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the prepared statements. The database handle stays open.
func (s *Store) Close() error {
	return errors.Join(
		s.insertHuman.Close(),
		s.selectHumanWhereId.Close(),
		s.deleteHumanWhereId.Close(),
	)
}

// translateError maps MySQL errors to the errors of this package.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return err
	}
	switch mysqlErr.Number {
	case mysqlDuplicateEntry:
		return fmt.Errorf("%w: %s", ErrDuplicate, mysqlErr.Message)
	case mysqlNoReferencedRow, mysqlNoReferencedRow2:
		return fmt.Errorf("%w: %s", ErrInvalidReference, mysqlErr.Message)
	case mysqlBadNull:
		return fmt.Errorf("%w: %s", ErrRequiredValue, mysqlErr.Message)
	case mysqlDataTooLong:
		return fmt.Errorf("%w: %s", ErrInvalidValue, mysqlErr.Message)
	}
	return err
}

// list runs the list query of an entity.
func list[T any](ctx context.Context, s *Store, ma *admin.ModelAdmin, q admin.ListQuery) ([]T, error) {
	query, args := ma.SelectSQL(q)
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", ma.Table, err)
	}
	items := []T{}
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", ma.Table, translateError(err))
	}
	return items, nil
}

// get selects the row of table with the given id.
func get[T any](ctx context.Context, q sqlx.QueryerContext, table string, id int64) (T, error) {
	var item T
	err := sqlx.GetContext(ctx, q, &item, "SELECT * FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return item, fmt.Errorf("get %s %d: %w", table, id, translateError(err))
	}
	return item, nil
}

// insert executes an insert statement and returns the id of the new row.
func (s *Store) insert(ctx context.Context, query string, arg any) (int64, error) {
	result, err := s.db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return 0, translateError(err)
	}
	return result.LastInsertId()
}

// update changes the columns of the row with the given id according to patch. See assignments
// for the meaning of patch and nulls.
func (s *Store) update(ctx context.Context, table string, id int64, patch any, nulls map[string]bool) error {
	sets, args, err := assignments(patch, nulls)
	if err != nil {
		return err
	}
	query := "UPDATE " + table + " SET " + sets + " WHERE id = ?"
	args = append(args, id)
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s %d: %w", table, id, translateError(err))
	}
	return expectOneRow(result, table, id)
}

// remove deletes the row of table with the given id.
func (s *Store) remove(ctx context.Context, table string, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", table, id, translateError(err))
	}
	return expectOneRow(result, table, id)
}

// expectOneRow turns a result without affected rows into ErrNotFound. The DSN sets
// clientFoundRows, so an update that does not change any value still counts its row.
func expectOneRow(result sql.Result, table string, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}
	return nil
}
