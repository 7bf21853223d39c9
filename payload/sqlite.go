package payload

import (
	"errors"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

var ErrNoRecord = errors.New("record not found")

// Schema of history database.
const Schema = `CREATE TABLE IF NOT EXISTS records (id TEXT PRIMARY KEY, payload TEXT NOT NULL)`

// LoadRecord reads payload of history record with given id.
func LoadRecord(dbPath, id string) (*Payload, error) {
	conn, err := sqlite.OpenConn(dbPath, sqlite.OpenReadOnly)
	if err != nil {
		return nil, fmt.Errorf("unable to open history database: %w", err)
	}
	defer conn.Close()

	var (
		raw   string
		found bool
	)
	err = sqlitex.Execute(conn, `SELECT payload FROM records WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				raw, found = stmt.ColumnText(0), true
				return nil
			}})
	if err != nil {
		return nil, fmt.Errorf("unable to query record %s: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNoRecord, id)
	}

	p, err := Parse([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", id, err)
	}
	if p.Data.ID == "" {
		p.Data.ID = FlexString(id)
	}
	return p, nil
}

// RecordIDs lists ids of all records in database.
func RecordIDs(dbPath string) ([]string, error) {
	conn, err := sqlite.OpenConn(dbPath, sqlite.OpenReadOnly)
	if err != nil {
		return nil, fmt.Errorf("unable to open history database: %w", err)
	}
	defer conn.Close()

	var ids []string
	err = sqlitex.Execute(conn, `SELECT id FROM records ORDER BY id`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			ids = append(ids, stmt.ColumnText(0))
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to list records: %w", err)
	}
	return ids, nil
}
