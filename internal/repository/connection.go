package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Rows is the cursor returned by Conn.QueryContext
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Conn is a single live database connection
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (Rows, error)
	PingContext(ctx context.Context) error
	Close() error
}

// Connector yields a live connection for the duration of one request
type Connector interface {
	Connect(ctx context.Context) (Conn, error)
}

// DBConnector hands out dedicated connections from a *sql.DB
type DBConnector struct {
	db *sql.DB
}

// NewDBConnector wraps an opened database handle
func NewDBConnector(db *sql.DB) *DBConnector {
	return &DBConnector{db: db}
}

// Connect reserves one connection; callers must Close it to release it
func (c *DBConnector) Connect(ctx context.Context) (Conn, error) {
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return &sqlConn{conn: conn}, nil
}

type sqlConn struct {
	conn *sql.Conn
}

func (c *sqlConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.conn.ExecContext(ctx, query, args...)
}

func (c *sqlConn) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *sqlConn) PingContext(ctx context.Context) error {
	return c.conn.PingContext(ctx)
}

func (c *sqlConn) Close() error {
	return c.conn.Close()
}
