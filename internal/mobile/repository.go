package mobile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no mobile matches the requested identifier.
var ErrNotFound = errors.New("mobile not found")

// Repository persists the mobile catalog and its user memberships. The
// membership test runs server-side; handlers never filter client-side.
type Repository interface {
	FindByID(ctx context.Context, id string) (Mobile, error)
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]Mobile, error)
	CountForUser(ctx context.Context, userID string) (int, error)
	IsMember(ctx context.Context, mobileID, userID string) (bool, error)
	Enroll(ctx context.Context, mobileID, userID string) error
}

// PostgresRepository implements Repository using PostgreSQL with a
// user_mobile join table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed mobile repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByID fetches a mobile by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Mobile, error) {
	mobileID, err := uuid.Parse(id)
	if err != nil {
		return Mobile{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, brand, model, description, price_cents, created_at
        FROM mobiles WHERE id = $1`, mobileID)
	return scanMobile(row)
}

// ListForUser returns one page of the mobiles the user is enrolled on.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]Mobile, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT m.id, m.brand, m.model, m.description, m.price_cents, m.created_at
        FROM mobiles m
        JOIN user_mobile um ON um.mobile_id = m.id
        WHERE um.user_id = $1
        ORDER BY m.created_at, m.id LIMIT $2 OFFSET $3`, user, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mobiles []Mobile
	for rows.Next() {
		mobile, err := scanMobile(rows)
		if err != nil {
			return nil, err
		}
		mobiles = append(mobiles, mobile)
	}
	return mobiles, rows.Err()
}

// CountForUser returns how many mobiles the user is enrolled on.
func (r *PostgresRepository) CountForUser(ctx context.Context, userID string) (int, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return 0, err
	}
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_mobile WHERE user_id = $1`, user).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// IsMember reports whether the user is enrolled on the mobile.
func (r *PostgresRepository) IsMember(ctx context.Context, mobileID, userID string) (bool, error) {
	mobile, err := uuid.Parse(mobileID)
	if err != nil {
		return false, nil
	}
	user, err := uuid.Parse(userID)
	if err != nil {
		return false, nil
	}
	var exists bool
	err = r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM user_mobile WHERE mobile_id = $1 AND user_id = $2)`,
		mobile, user).Scan(&exists)
	return exists, err
}

// Enroll records a user membership on a mobile.
func (r *PostgresRepository) Enroll(ctx context.Context, mobileID, userID string) error {
	mobile, err := uuid.Parse(mobileID)
	if err != nil {
		return ErrNotFound
	}
	user, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO user_mobile (user_id, mobile_id) VALUES ($1, $2)
        ON CONFLICT DO NOTHING`, user, mobile)
	return err
}

func scanMobile(row pgx.Row) (Mobile, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		mobile    Mobile
	)
	if err := row.Scan(&id, &mobile.Brand, &mobile.Model, &mobile.Description, &mobile.PriceCents, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Mobile{}, ErrNotFound
		}
		return Mobile{}, err
	}
	mobile.ID = id.String()
	mobile.CreatedAt = createdAt.UTC()
	return mobile, nil
}
