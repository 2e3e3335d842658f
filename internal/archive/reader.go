package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reader provides read access to a finished archive.
type Reader struct {
	db   *sql.DB
	path string
	info Info
}

// Open connects to an existing archive and verifies its layout version.
func Open(ctx context.Context, path string) (*Reader, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("archive path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA query_only = ON",
	}
	if err := applyPragmas(db, pragmas); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := checkSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	r := &Reader{db: db, path: path}
	if err := r.loadInfo(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the underlying database connection.
func (r *Reader) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Path returns the archive file path.
func (r *Reader) Path() string {
	return r.path
}

// Info returns the archive metadata.
func (r *Reader) Info() Info {
	return r.info
}

func (r *Reader) loadInfo(ctx context.Context) error {
	rows, err := r.db.QueryContext(ctx, "SELECT key, value FROM archive_info")
	if err != nil {
		return fmt.Errorf("read archive info: %w", err)
	}
	defer rows.Close()

	info := Info{SchemaVersion: schemaVersion}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scan archive info: %w", err)
		}
		switch key {
		case "archive_id":
			id, err := uuid.Parse(value)
			if err != nil {
				return fmt.Errorf("parse archive id: %w", err)
			}
			info.ID = id
		case "writer":
			info.Writer = value
		case "source":
			info.Source = value
		case "created_at":
			created, err := time.Parse(time.RFC3339Nano, value)
			if err != nil {
				return fmt.Errorf("parse archive creation time: %w", err)
			}
			info.CreatedAt = created
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate archive info: %w", err)
	}
	r.info = info
	return nil
}

const objectColumns = `id, path, parent_path, schema, COALESCE(source_type, ''), COALESCE(basis, ''), COALESCE(curve_type, ''), COALESCE(wrap, '')`

type objectRow struct {
	id  int64
	obj Object
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObject(row rowScanner) (objectRow, error) {
	var (
		out    objectRow
		schema string
	)
	err := row.Scan(
		&out.id,
		&out.obj.Path,
		&out.obj.Parent,
		&schema,
		&out.obj.SourceType,
		&out.obj.Basis,
		&out.obj.CurveType,
		&out.obj.Wrap,
	)
	out.obj.Schema = Schema(schema)
	return out, err
}

// Objects lists every object in hierarchy-path order with property
// summaries. Sample payloads are not loaded.
func (r *Reader) Objects(ctx context.Context) ([]ObjectInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+objectColumns+` FROM objects ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	var heads []objectRow
	for rows.Next() {
		head, err := scanObject(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan object: %w", err)
		}
		heads = append(heads, head)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate objects: %w", err)
	}
	_ = rows.Close()

	infos := make([]ObjectInfo, 0, len(heads))
	for _, head := range heads {
		props, err := r.propertyInfos(ctx, head.id)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", head.obj.Path, err)
		}
		infos = append(infos, ObjectInfo{
			Path:       head.obj.Path,
			Parent:     head.obj.Parent,
			Schema:     head.obj.Schema,
			SourceType: head.obj.SourceType,
			Basis:      head.obj.Basis,
			Properties: props,
		})
	}
	return infos, nil
}

func (r *Reader) propertyInfos(ctx context.Context, objectID int64) ([]PropertyInfo, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT p.name, p.data_type, p.scope, p.is_static, COUNT(s.sample_index)
         FROM properties p LEFT JOIN samples s ON s.property_id = p.id
         WHERE p.object_id = ?
         GROUP BY p.id ORDER BY p.id`,
		objectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var infos []PropertyInfo
	for rows.Next() {
		var (
			info     PropertyInfo
			dataType string
			static   int
		)
		if err := rows.Scan(&info.Name, &dataType, &info.Scope, &static, &info.NumSamples); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		info.Type = DataType(dataType)
		info.Static = static != 0
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return infos, nil
}

// Object loads the object at path with all property samples. It returns an
// error wrapping ErrObjectNotFound when no such object exists.
func (r *Reader) Object(ctx context.Context, path string) (*Object, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+objectColumns+` FROM objects WHERE path = ?`, path)
	head, err := scanObject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", path, err)
	}

	props, err := r.properties(ctx, head.id)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", path, err)
	}
	obj := head.obj
	obj.Properties = props
	return &obj, nil
}

func (r *Reader) properties(ctx context.Context, objectID int64) ([]Property, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT p.id, p.name, p.data_type, p.scope, p.is_static, s.time, s.element_count, s.data
         FROM properties p JOIN samples s ON s.property_id = p.id
         WHERE p.object_id = ?
         ORDER BY p.id, s.sample_index`,
		objectID,
	)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	defer rows.Close()

	var (
		props  []Property
		lastID int64 = -1
	)
	for rows.Next() {
		var (
			propertyID int64
			name       string
			dataType   string
			scope      string
			static     int
			sampleTime sql.NullFloat64
			count      int
			data       []byte
		)
		if err := rows.Scan(&propertyID, &name, &dataType, &scope, &static, &sampleTime, &count, &data); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		if propertyID != lastID {
			props = append(props, Property{Name: name, Type: DataType(dataType), Scope: scope, Static: static != 0})
			lastID = propertyID
		}
		prop := &props[len(props)-1]
		sample, err := decodeSample(prop.Type, count, data)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		if !prop.Static {
			if !sampleTime.Valid {
				return nil, fmt.Errorf("property %s: animated sample without time", name)
			}
			sample.Time = sampleTime.Float64
		}
		prop.Samples = append(prop.Samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return props, nil
}
