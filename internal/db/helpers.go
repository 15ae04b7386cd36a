package db

import "database/sql"

// Execer is satisfied by both *sql.DB and *sql.Tx so repository writes can
// run standalone or inside a ledger transaction.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}
