package client

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no client matches the requested identifier.
var ErrNotFound = errors.New("client not found")

// Repository persists clients. Owner-scoped reads filter by owner on the
// server side; callers never supply the filter themselves.
type Repository interface {
	Create(ctx context.Context, client Client) error
	FindByID(ctx context.Context, id string) (Client, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Client, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	Update(ctx context.Context, client Client) error
	Delete(ctx context.Context, id string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed client repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new client.
func (r *PostgresRepository) Create(ctx context.Context, client Client) error {
	clientID, err := uuid.Parse(client.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(client.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO clients (id, firstname, lastname, email, user_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`, clientID, client.Firstname, client.Lastname, client.Email, ownerID, client.CreatedAt.UTC())
	return err
}

// FindByID fetches a client by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Client, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return Client{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, firstname, lastname, email, user_id, created_at
        FROM clients WHERE id = $1`, clientID)
	return scanClient(row)
}

// ListByOwner returns one page of the owner's clients ordered by creation time.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Client, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, firstname, lastname, email, user_id, created_at
        FROM clients WHERE user_id = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`, owner, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

// CountByOwner returns how many clients the owner has in total.
func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return 0, err
	}
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE user_id = $1`, owner).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Update flushes the mutable fields of an existing client. Ownership is not
// part of the statement and therefore cannot change.
func (r *PostgresRepository) Update(ctx context.Context, client Client) error {
	clientID, err := uuid.Parse(client.ID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE clients SET firstname = $1, lastname = $2, email = $3
        WHERE id = $4`, client.Firstname, client.Lastname, client.Email, clientID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a client.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, clientID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanClient(row pgx.Row) (Client, error) {
	var (
		id        uuid.UUID
		ownerID   uuid.UUID
		createdAt time.Time
		client    Client
	)
	if err := row.Scan(&id, &client.Firstname, &client.Lastname, &client.Email, &ownerID, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	client.ID = id.String()
	client.OwnerID = ownerID.String()
	client.CreatedAt = createdAt.UTC()
	return client, nil
}
