package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	oresmerrors "github.com/diwise/oresm/pkg/oresm/errors"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresConfig struct {
	host     string
	user     string
	password string
	port     string
	dbname   string
	sslmode  string
}

func LoadPostgresConfiguration(ctx context.Context) PostgresConfig {
	return PostgresConfig{
		host:     env.GetVariableOrDefault(ctx, "POSTGRES_HOST", ""),
		user:     env.GetVariableOrDefault(ctx, "POSTGRES_USER", ""),
		password: env.GetVariableOrDefault(ctx, "POSTGRES_PASSWORD", ""),
		port:     env.GetVariableOrDefault(ctx, "POSTGRES_PORT", "5432"),
		dbname:   env.GetVariableOrDefault(ctx, "POSTGRES_DBNAME", "diwise"),
		sslmode:  env.GetVariableOrDefault(ctx, "POSTGRES_SSLMODE", "disable"),
	}
}

func (c PostgresConfig) Enabled() bool {
	return c.host != ""
}

func (c PostgresConfig) ConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.dbname, c.sslmode)
}

// NewPostgres stores every record as a jsonb document in a single table. The
// returned function closes the connection pool.
func NewPostgres(ctx context.Context, cfg PostgresConfig, key string) (Repository, func(), error) {
	if key == "" {
		key = "id"
	}

	p, err := pgxpool.New(ctx, cfg.ConnStr())
	if err != nil {
		return nil, nil, err
	}

	if err = p.Ping(ctx); err != nil {
		p.Close()
		return nil, nil, err
	}

	_, err = p.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS records (
			seq        BIGSERIAL,
			resource   TEXT NOT NULL,
			id         TEXT NOT NULL,
			attributes JSONB NOT NULL,
			PRIMARY KEY (resource, id)
		);`)
	if err != nil {
		p.Close()
		return nil, nil, fmt.Errorf("failed to create records table: %w", err)
	}

	return &pgRepository{pool: p, key: key}, p.Close, nil
}

type pgRepository struct {
	pool *pgxpool.Pool
	key  string
}

func (r *pgRepository) Key() string {
	return r.key
}

func (r *pgRepository) List(ctx context.Context, resource string) ([]map[string]any, error) {
	rows, err := r.pool.Query(ctx, `SELECT attributes FROM records WHERE resource=$1 ORDER BY seq;`, resource)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []map[string]any{}

	for rows.Next() {
		var b []byte
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}

		record, err := unmarshalRecord(b)
		if err != nil {
			return nil, err
		}

		result = append(result, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pgRepository) Retrieve(ctx context.Context, resource, id string) (map[string]any, error) {
	row := r.pool.QueryRow(ctx, `SELECT attributes FROM records WHERE resource=$1 AND id=$2;`, resource, id)
	return scanRecord(row, resource, id)
}

func (r *pgRepository) Create(ctx context.Context, resource string, record map[string]any) (map[string]any, error) {
	record = maps.Clone(record)
	if record == nil {
		record = map[string]any{}
	}

	id := formatID(record[r.key])
	if id == "" {
		id = uuid.NewString()
		record[r.key] = id
	}

	b, err := json.Marshal(record)
	if err != nil {
		return nil, oresmerrors.NewBadRequestError(err.Error())
	}

	tag, err := r.pool.Exec(ctx,
		`INSERT INTO records (resource, id, attributes) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING;`,
		resource, id, b,
	)
	if err != nil {
		return nil, err
	}

	if tag.RowsAffected() == 0 {
		return nil, oresmerrors.NewConflictError(fmt.Sprintf("%s/%s already exists", resource, id))
	}

	logging.GetFromContext(ctx).Debug("record created", "resource", resource, "id", id)

	return unmarshalRecord(b)
}

// Replace swaps the stored document but keeps the stored key attribute
func (r *pgRepository) Replace(ctx context.Context, resource, id string, record map[string]any) (map[string]any, error) {
	if record == nil {
		record = map[string]any{}
	}

	b, err := json.Marshal(record)
	if err != nil {
		return nil, oresmerrors.NewBadRequestError(err.Error())
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE records SET attributes = ($3::jsonb - $4::text) || jsonb_build_object($4::text, attributes->$4::text)
		WHERE resource=$1 AND id=$2
		RETURNING attributes;`,
		resource, id, b, r.key,
	)

	return scanRecord(row, resource, id)
}

func (r *pgRepository) Merge(ctx context.Context, resource, id string, fragment map[string]any) (map[string]any, error) {
	if fragment == nil {
		fragment = map[string]any{}
	}

	b, err := json.Marshal(fragment)
	if err != nil {
		return nil, oresmerrors.NewBadRequestError(err.Error())
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE records SET attributes = attributes || ($3::jsonb - $4::text)
		WHERE resource=$1 AND id=$2
		RETURNING attributes;`,
		resource, id, b, r.key,
	)

	return scanRecord(row, resource, id)
}

func (r *pgRepository) Delete(ctx context.Context, resource, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM records WHERE resource=$1 AND id=$2;`, resource, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return oresmerrors.NewNotFoundError(fmt.Sprintf("%s/%s not found", resource, id))
	}

	logging.GetFromContext(ctx).Debug("record deleted", "resource", resource, "id", id)

	return nil
}

func scanRecord(row pgx.Row, resource, id string) (map[string]any, error) {
	var b []byte

	err := row.Scan(&b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oresmerrors.NewNotFoundError(fmt.Sprintf("%s/%s not found", resource, id))
	}
	if err != nil {
		return nil, err
	}

	return unmarshalRecord(b)
}

func unmarshalRecord(b []byte) (map[string]any, error) {
	record := map[string]any{}
	if err := json.Unmarshal(b, &record); err != nil {
		return nil, fmt.Errorf("stored record is not a json object: %w", err)
	}
	return record, nil
}
