package inmem

import (
	"context"

	"github.com/hashicorp/go-memdb"
	"github.com/skybi/portal-client/internal/session"
)

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"entries": {
			Name: "entries",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:         "id",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "Key"},
				},
			},
		},
	},
}

type entry struct {
	Key   string
	Value string
}

// Driver represents the in-memory session store driver built using hashicorp/go-memdb.
// Its contents are lost when the process exits.
type Driver struct {
	db *memdb.MemDB
}

var _ session.Store = (*Driver)(nil)

// New creates a new empty in-memory session store driver
func New() (*Driver, error) {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return nil, err
	}
	return &Driver{db}, nil
}

// Get retrieves the value assigned to a key
func (driver *Driver) Get(_ context.Context, key string) (string, error) {
	txn := driver.db.Txn(false)
	obj, err := txn.First("entries", "id", key)
	if err != nil {
		return "", err
	}
	if obj == nil {
		return "", nil
	}
	return obj.(*entry).Value, nil
}

// Set assigns a value to a key, overwriting any previous value
func (driver *Driver) Set(_ context.Context, key, value string) error {
	txn := driver.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert("entries", &entry{Key: key, Value: value}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// Delete removes a key and its value
func (driver *Driver) Delete(_ context.Context, key string) error {
	txn := driver.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll("entries", "id", key); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// Close closes the store driver
func (driver *Driver) Close() {}
