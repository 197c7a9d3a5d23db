package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/actualize/actualize/internal/progress"
)

// Row keys in app_state.
const (
	NamespaceUser     = "user"
	NamespaceProgress = "progress"
)

const upsertState = `INSERT INTO app_state (namespace, data, updated_at) VALUES (?, ?, ?)
ON CONFLICT(namespace) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`

type stateRow struct {
	Namespace string `db:"namespace"`
	Data      string `db:"data"`
}

// StateRepo stores progress.State as two JSON documents, one per namespace.
// It implements progress.Repo.
type StateRepo struct {
	db       *sqlx.DB
	attempts uint
	delay    time.Duration
	now      func() time.Time
}

// RepoOption configures a StateRepo.
type RepoOption func(*StateRepo)

// WithRetry sets how many times a busy write is attempted and the base delay between tries.
func WithRetry(attempts uint, delay time.Duration) RepoOption {
	return func(r *StateRepo) {
		r.attempts = attempts
		r.delay = delay
	}
}

// NewStateRepo returns a StateRepo using db.
func NewStateRepo(db *sqlx.DB, opts ...RepoOption) *StateRepo {
	r := &StateRepo{
		db:       db,
		attempts: 3,
		delay:    50 * time.Millisecond,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ progress.Repo = (*StateRepo)(nil)

func (r *StateRepo) Load(ctx context.Context) (progress.State, bool, error) {
	var rows []stateRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT namespace, data FROM app_state WHERE namespace IN (?, ?)",
		NamespaceUser, NamespaceProgress)
	if err != nil {
		return progress.State{}, false, fmt.Errorf("query app state: %w", err)
	}
	if len(rows) == 0 {
		return progress.State{}, false, nil
	}

	st := progress.DefaultState()
	for _, row := range rows {
		var target any
		switch row.Namespace {
		case NamespaceUser:
			target = &st.User
		case NamespaceProgress:
			target = &st.Progress
		default:
			continue
		}
		if err := json.Unmarshal([]byte(row.Data), target); err != nil {
			return progress.State{}, false, fmt.Errorf("decode %s state: %w", row.Namespace, err)
		}
	}
	return st, true, nil
}

// Save replaces both documents in one transaction, retrying while the database is busy.
func (r *StateRepo) Save(ctx context.Context, st progress.State) error {
	user, err := json.Marshal(st.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	prog, err := json.Marshal(st.Progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	return retry.Do(
		func() error {
			now := r.now().UTC()
			return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
				if _, err := tx.ExecContext(ctx, upsertState, NamespaceUser, string(user), now); err != nil {
					return fmt.Errorf("save user: %w", err)
				}
				if _, err := tx.ExecContext(ctx, upsertState, NamespaceProgress, string(prog), now); err != nil {
					return fmt.Errorf("save progress: %w", err)
				}
				return nil
			})
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.RetryIf(isBusy),
		retry.LastErrorOnly(true),
	)
}

// Clear deletes both documents.
func (r *StateRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM app_state WHERE namespace IN (?, ?)",
		NamespaceUser, NamespaceProgress)
	if err != nil {
		return fmt.Errorf("clear app state: %w", err)
	}
	return nil
}

// isBusy reports whether err is a transient lock conflict worth retrying.
func isBusy(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code() & 0xff
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
