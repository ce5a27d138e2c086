package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a Repository backed by the fhir_resources and
// fhir_resource_history tables.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const resCols = `resource_type, id, version_id, last_updated, deleted, resource`

const histCols = `resource_type, id, version_id, last_updated, method, resource`

func scanCurrent(row pgx.Row) (*Version, error) {
	var v Version
	if err := row.Scan(&v.ResourceType, &v.ID, &v.VersionID, &v.LastUpdated, &v.Deleted, &v.Body); err != nil {
		return nil, err
	}
	return &v, nil
}

func scanHistory(row pgx.Row) (*Version, error) {
	var v Version
	if err := row.Scan(&v.ResourceType, &v.ID, &v.VersionID, &v.LastUpdated, &v.Method, &v.Body); err != nil {
		return nil, err
	}
	v.Deleted = v.Body == nil
	return &v, nil
}

func insertHistory(ctx context.Context, q queryable, v *Version) error {
	_, err := q.Exec(ctx, `
		INSERT INTO fhir_resource_history (`+histCols+`)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		v.ResourceType, v.ID, v.VersionID, v.LastUpdated, v.Method, v.Body)
	if err != nil {
		return fmt.Errorf("insert history %s/_history/%d: %w", v.Key(), v.VersionID, err)
	}
	return nil
}

func (r *repoPG) Create(ctx context.Context, v *Version) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO fhir_resources (`+resCols+`)
			VALUES ($1,$2,$3,$4,FALSE,$5)
			ON CONFLICT (resource_type, id) DO NOTHING`,
			v.ResourceType, v.ID, v.VersionID, v.LastUpdated, v.Body)
		if err != nil {
			return fmt.Errorf("insert %s: %w", v.Key(), err)
		}
		if tag.RowsAffected() == 0 {
			return ErrAlreadyExists
		}
		return insertHistory(ctx, tx, v)
	})
}

func (r *repoPG) Get(ctx context.Context, resourceType, id string) (*Version, error) {
	v, err := scanCurrent(r.pool.QueryRow(ctx,
		`SELECT `+resCols+` FROM fhir_resources WHERE resource_type = $1 AND id = $2`,
		resourceType, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", resourceType, id, err)
	}
	return v, nil
}

// advance moves the current row from v.VersionID-1 to v.VersionID.
func (r *repoPG) advance(ctx context.Context, v *Version) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE fhir_resources
			SET version_id = $3, last_updated = $4, deleted = $5, resource = $6
			WHERE resource_type = $1 AND id = $2 AND version_id = $7`,
			v.ResourceType, v.ID, v.VersionID, v.LastUpdated, v.Deleted, v.Body, v.VersionID-1)
		if err != nil {
			return fmt.Errorf("update %s: %w", v.Key(), err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM fhir_resources WHERE resource_type = $1 AND id = $2)`,
				v.ResourceType, v.ID).Scan(&exists); err != nil {
				return fmt.Errorf("check %s: %w", v.Key(), err)
			}
			if !exists {
				return ErrNotFound
			}
			return ErrVersionConflict
		}
		return insertHistory(ctx, tx, v)
	})
}

func (r *repoPG) Update(ctx context.Context, v *Version) error {
	return r.advance(ctx, v)
}

func (r *repoPG) Delete(ctx context.Context, v *Version) error {
	return r.advance(ctx, v)
}

func (r *repoPG) List(ctx context.Context, resourceType string, limit, offset int) ([]*Version, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM fhir_resources WHERE resource_type = $1 AND NOT deleted`,
		resourceType).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", resourceType, err)
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+resCols+` FROM fhir_resources
		WHERE resource_type = $1 AND NOT deleted
		ORDER BY last_updated DESC, id
		LIMIT $2 OFFSET $3`,
		resourceType, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", resourceType, err)
	}
	defer rows.Close()
	var items []*Version
	for rows.Next() {
		v, err := scanCurrent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", resourceType, err)
		}
		items = append(items, v)
	}
	return items, total, rows.Err()
}

func (r *repoPG) History(ctx context.Context, resourceType, id string, limit, offset int) ([]*Version, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM fhir_resource_history WHERE resource_type = $1 AND id = $2`,
		resourceType, id).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count history %s/%s: %w", resourceType, id, err)
	}
	if total == 0 {
		return nil, 0, ErrNotFound
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+histCols+` FROM fhir_resource_history
		WHERE resource_type = $1 AND id = $2
		ORDER BY version_id DESC
		LIMIT $3 OFFSET $4`,
		resourceType, id, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list history %s/%s: %w", resourceType, id, err)
	}
	defer rows.Close()
	var items []*Version
	for rows.Next() {
		v, err := scanHistory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan history %s/%s: %w", resourceType, id, err)
		}
		items = append(items, v)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Version(ctx context.Context, resourceType, id string, versionID int) (*Version, error) {
	v, err := scanHistory(r.pool.QueryRow(ctx, `
		SELECT `+histCols+` FROM fhir_resource_history
		WHERE resource_type = $1 AND id = $2 AND version_id = $3`,
		resourceType, id, versionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s/_history/%d: %w", resourceType, id, versionID, err)
	}
	return v, nil
}
