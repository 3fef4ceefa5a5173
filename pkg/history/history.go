// Package history keeps a log of recent calculations.
//
// A [Store] receives one [Record] per computed request. The web page and the
// /api/history endpoint read them back newest first. Two backends exist:
// [MemoryStore], a bounded in-process ring, and [MongoStore], which persists
// records to a MongoDB collection. [NullStore] disables history.
//
// History is a convenience. Callers log Store failures and carry on; a
// calculation never fails because its record could not be written.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit bounds the memory store and the default Recent query.
const DefaultLimit = 50

// Backend names accepted by [New].
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Record is one computed request.
type Record struct {
	ID        string            `json:"id" bson:"_id"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
	Module    string            `json:"module" bson:"module"`
	Operation string            `json:"operation" bson:"operation"`
	Params    map[string]string `json:"params" bson:"params"`
	Result    []string          `json:"result" bson:"result"`
	Status    string            `json:"status" bson:"status"`
	Error     string            `json:"error,omitempty" bson:"error,omitempty"`
}

// NewRecord stamps a record with a fresh ID and the current time.
func NewRecord(module, op string, params map[string]string) Record {
	return Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Module:    module,
		Operation: op,
		Params:    params,
	}
}

// Store persists records.
type Store interface {
	// Add appends r. Records without an ID or timestamp are stamped first.
	Add(ctx context.Context, r Record) error

	// Recent returns at most limit records, newest first. A limit <= 0
	// selects DefaultLimit.
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Config selects and configures a backend.
type Config struct {
	Backend    string
	Limit      int
	MongoURI   string
	Database   string
	Collection string
}

// New opens the backend named by cfg.Backend.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryStore(cfg.Limit), nil
	case BackendMongo:
		ms, err := NewMongoStore(ctx, MongoOptions{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
		if err != nil {
			return nil, err
		}
		return ms, nil
	case BackendNone:
		return NullStore{}, nil
	}
	return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
}

func stamp(r Record) Record {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return r
}

// MaxLimit caps a single Recent query.
const MaxLimit = 500

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, MaxLimit)
}

// NullStore discards every record.
type NullStore struct{}

func (NullStore) Add(context.Context, Record) error             { return nil }
func (NullStore) Recent(context.Context, int) ([]Record, error) { return nil, nil }
func (NullStore) Close(context.Context) error                   { return nil }
