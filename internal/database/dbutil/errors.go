// Package dbutil holds helpers shared by the repository sub-packages.
package dbutil

import (
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/entities"
)

// Translate maps gorm errors onto the store-level errors in entities,
// keeping the original error in the chain. nil stays nil.
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", entities.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", entities.ErrDuplicateKey, err)
	default:
		return err
	}
}

// InnoDB error numbers that abort a transaction which can safely be run
// again from the start.
const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// IsRetryable reports whether err comes from a transaction the server
// aborted over lock contention.
func IsRetryable(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDeadlock || mysqlErr.Number == mysqlLockWaitTimeout
	}
	return false
}

// SupportsRowLocks reports whether SELECT ... FOR UPDATE is meaningful for
// the connected dialect. SQLite serialises writers on the whole database
// and rejects the clause.
func SupportsRowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() != "sqlite"
}
