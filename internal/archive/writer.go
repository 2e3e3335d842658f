package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrArchiveLocked is returned when another writer holds the archive.
var ErrArchiveLocked = errors.New("archive is locked by another writer")

const lockRetryDelay = 50 * time.Millisecond

// WriterOptions configure Create.
type WriterOptions struct {
	// Writer names the application recorded in the archive metadata.
	Writer string
	// Source is the scene the archive was converted from, if any.
	Source string
	// LockTimeout bounds how long Create waits for the archive lock. Zero
	// means a single attempt.
	LockTimeout time.Duration
}

// Writer is the exclusive handle for writing one archive. It is safe for
// concurrent use; commits are serialized.
type Writer struct {
	mu      sync.Mutex
	db      *sql.DB
	path    string
	id      uuid.UUID
	lock    *flock.Flock
	closed  bool
	objects int
}

// Create replaces any archive at path with an empty one and returns the
// writer that owns it until Close.
func Create(ctx context.Context, path string, opts WriterOptions) (*Writer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("archive path is empty")
	}

	lock := flock.New(path + ".lock")
	if err := acquire(ctx, lock, opts.LockTimeout); err != nil {
		return nil, err
	}

	w, err := create(ctx, path, opts)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	w.lock = lock
	return w, nil
}

func acquire(ctx context.Context, lock *flock.Flock, timeout time.Duration) error {
	var (
		ok  bool
		err error
	)
	if timeout <= 0 {
		ok, err = lock.TryLock()
	} else {
		lockCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		ok, err = lock.TryLockContext(lockCtx, lockRetryDelay)
		if errors.Is(err, context.DeadlineExceeded) {
			ok, err = false, nil
		}
	}
	if err != nil {
		return fmt.Errorf("acquire archive lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrArchiveLocked, lock.Path())
	}
	return nil
}

func create(ctx context.Context, path string, opts WriterOptions) (*Writer, error) {
	for _, name := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove existing archive: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	if err := applyPragmas(db, pragmas); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := createSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	w := &Writer{db: db, path: path, id: uuid.New()}
	info := map[string]string{
		"archive_id": w.id.String(),
		"writer":     opts.Writer,
		"source":     opts.Source,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	for key, value := range info {
		if _, err := db.ExecContext(ctx, "INSERT INTO archive_info (key, value) VALUES (?, ?)", key, value); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("record archive info %s: %w", key, err)
		}
	}
	return w, nil
}

// ID returns the identifier recorded in the archive metadata.
func (w *Writer) ID() uuid.UUID {
	return w.id
}

// Path returns the archive file path.
func (w *Writer) Path() string {
	return w.path
}

// Objects returns how many objects have been committed.
func (w *Writer) Objects() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.objects
}

// CommitObject writes obj and all of its samples in one transaction. Either
// the whole object lands in the archive or none of it does.
func (w *Writer) CommitObject(ctx context.Context, obj Object) error {
	if err := validateObject(obj); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("archive writer is closed")
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin object tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO objects (path, parent_path, schema, source_type, basis, curve_type, wrap)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		obj.Path,
		obj.Parent,
		string(obj.Schema),
		nullableString(obj.SourceType),
		nullableString(obj.Basis),
		nullableString(obj.CurveType),
		nullableString(obj.Wrap),
	)
	if err != nil {
		return fmt.Errorf("insert object %s: %w", obj.Path, err)
	}
	objectID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	for _, prop := range obj.Properties {
		if err := insertProperty(ctx, tx, objectID, prop); err != nil {
			return fmt.Errorf("object %s: %w", obj.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit object %s: %w", obj.Path, err)
	}
	w.objects++
	return nil
}

func insertProperty(ctx context.Context, tx *sql.Tx, objectID int64, prop Property) error {
	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO properties (object_id, name, data_type, scope, is_static) VALUES (?, ?, ?, ?, ?)`,
		objectID,
		prop.Name,
		string(prop.Type),
		prop.Scope,
		boolToInt(prop.Static),
	)
	if err != nil {
		return fmt.Errorf("insert property %s: %w", prop.Name, err)
	}
	propertyID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	for i, sample := range prop.Samples {
		data, count, err := encodeSample(prop.Type, sample)
		if err != nil {
			return fmt.Errorf("property %s sample %d: %w", prop.Name, i, err)
		}
		var sampleTime any
		if !prop.Static {
			sampleTime = sample.Time
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO samples (property_id, sample_index, time, element_count, data) VALUES (?, ?, ?, ?, ?)`,
			propertyID,
			i,
			sampleTime,
			count,
			data,
		); err != nil {
			return fmt.Errorf("insert property %s sample %d: %w", prop.Name, i, err)
		}
	}
	return nil
}

func validateObject(obj Object) error {
	if !strings.HasPrefix(obj.Path, "/") || obj.Path == "/" {
		return fmt.Errorf("invalid object path %q", obj.Path)
	}
	switch obj.Schema {
	case SchemaCurves, SchemaXform:
	default:
		return fmt.Errorf("object %s: unknown schema %q", obj.Path, obj.Schema)
	}
	seen := make(map[string]struct{}, len(obj.Properties))
	for _, prop := range obj.Properties {
		if prop.Name == "" {
			return fmt.Errorf("object %s: property with empty name", obj.Path)
		}
		if _, dup := seen[prop.Name]; dup {
			return fmt.Errorf("object %s: duplicate property %s", obj.Path, prop.Name)
		}
		seen[prop.Name] = struct{}{}
		if len(prop.Samples) == 0 {
			return fmt.Errorf("object %s: property %s has no samples", obj.Path, prop.Name)
		}
		if prop.Static && len(prop.Samples) != 1 {
			return fmt.Errorf("object %s: static property %s has %d samples", obj.Path, prop.Name, len(prop.Samples))
		}
		if !prop.Static {
			if err := checkTimes(prop.Times()); err != nil {
				return fmt.Errorf("object %s: property %s: %w", obj.Path, prop.Name, err)
			}
		}
	}
	return nil
}

// Close flushes the archive and releases the lock. It is safe to call more
// than once.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	if w.db != nil {
		if _, err := w.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			errs = append(errs, fmt.Errorf("checkpoint archive: %w", err))
		}
		if err := w.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close archive: %w", err))
		}
	}
	if w.lock != nil {
		if err := w.lock.Unlock(); err != nil {
			errs = append(errs, fmt.Errorf("release archive lock: %w", err))
		}
	}
	return errors.Join(errs...)
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
