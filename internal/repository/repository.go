package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/users-service/internal/models"
)

const (
	listUsersQuery  = `SELECT id, name, email FROM users`
	createUserQuery = `INSERT INTO users (name, email) VALUES (?, ?)`
	updateUserQuery = `UPDATE users SET name = ?, email = ? WHERE id = ?`
	deleteUserQuery = `DELETE FROM users WHERE id = ?`
)

// Repository provides database operations. Every call uses exactly one connection
// obtained from the connector and releases it before returning.
type Repository struct {
	connector Connector
	dialect   Dialect
}

// NewRepository initializes a new repository
func NewRepository(connector Connector, dialect Dialect) *Repository {
	return &Repository{connector: connector, dialect: dialect}
}

func (r *Repository) withConn(ctx context.Context, fn func(Conn) error) error {
	conn, err := r.connector.Connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

// ListUsers returns every row of the users table in storage order
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	err := r.withConn(ctx, func(conn Conn) error {
		rows, err := conn.QueryContext(ctx, r.dialect.Rebind(listUsersQuery))
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var u models.User
			if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
				return fmt.Errorf("failed to scan user: %w", err)
			}
			users = append(users, u)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate users: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser inserts a new user; the id is assigned by the database.
// A nil name or email is stored as NULL.
func (r *Repository) CreateUser(ctx context.Context, name, email *string) error {
	return r.withConn(ctx, func(conn Conn) error {
		if _, err := conn.ExecContext(ctx, r.dialect.Rebind(createUserQuery), name, email); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
}

// UpdateUser overwrites name and email of the user with the given id and reports how many rows matched
func (r *Repository) UpdateUser(ctx context.Context, id int64, name, email *string) (int64, error) {
	return r.exec(ctx, "update user", updateUserQuery, name, email, id)
}

// DeleteUser removes the user with the given id and reports how many rows matched
func (r *Repository) DeleteUser(ctx context.Context, id int64) (int64, error) {
	return r.exec(ctx, "delete user", deleteUserQuery, id)
}

// Ping checks that a connection can be obtained and is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.withConn(ctx, func(conn Conn) error {
		if err := conn.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
		return nil
	})
}

func (r *Repository) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	var affected int64
	err := r.withConn(ctx, func(conn Conn) error {
		res, err := conn.ExecContext(ctx, r.dialect.Rebind(query), args...)
		if err != nil {
			return fmt.Errorf("failed to %s: %w", op, err)
		}
		// Some drivers cannot report affected rows; the statement already succeeded.
		if n, err := res.RowsAffected(); err == nil {
			affected = n
		}
		return nil
	})
	return affected, err
}
