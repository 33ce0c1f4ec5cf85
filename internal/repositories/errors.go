// Package repositories implements MySQL data access for the API
package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers used to classify failures
const (
	mysqlErrDuplicateEntry = 1062
	mysqlErrDeadlock       = 1213
	mysqlErrSignal         = 1644 // SIGNAL SQLSTATE '45000' raised by a stored procedure
)

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry
}

func isDeadlock(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDeadlock
}

// signalMessage returns the MESSAGE_TEXT of a user-defined SIGNAL, if err is one
func signalMessage(err error) (string, bool) {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrSignal {
		return mysqlErr.Message, true
	}
	return "", false
}
