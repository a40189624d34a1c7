package test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/Dan9191/users-service/internal/repository"
)

// Statement is a query received by a fake connection
type Statement struct {
	Query string
	Args  []any
}

// Connector is an in-memory repository.Connector that records every connection and statement.
type Connector struct {
	mu sync.Mutex

	// Rows is returned by QueryContext, one []any per row in column order
	Rows         [][]any
	RowsAffected int64
	ConnectErr   error
	ExecErr      error
	QueryErr     error
	PingErr      error

	opened     int
	closed     int
	statements []Statement
}

var _ repository.Connector = (*Connector)(nil)

// Connect hands out a new fake connection or fails with ConnectErr
func (c *Connector) Connect(_ context.Context) (repository.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ConnectErr != nil {
		return nil, c.ConnectErr
	}
	c.opened++
	return &conn{c: c}, nil
}

// Opened returns the number of connections handed out
func (c *Connector) Opened() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened
}

// Closed returns the number of connections released
func (c *Connector) Closed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Statements returns the statements executed so far
func (c *Connector) Statements() []Statement {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Statement(nil), c.statements...)
}

func (c *Connector) record(query string, args []any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statements = append(c.statements, Statement{Query: query, Args: args})
}

type conn struct {
	c      *Connector
	closed bool
}

func (cn *conn) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	if cn.closed {
		return nil, sql.ErrConnDone
	}
	cn.c.record(query, args)
	if cn.c.ExecErr != nil {
		return nil, cn.c.ExecErr
	}
	return result(cn.c.RowsAffected), nil
}

func (cn *conn) QueryContext(_ context.Context, query string, args ...any) (repository.Rows, error) {
	if cn.closed {
		return nil, sql.ErrConnDone
	}
	cn.c.record(query, args)
	if cn.c.QueryErr != nil {
		return nil, cn.c.QueryErr
	}
	return &rows{data: cn.c.Rows, pos: -1}, nil
}

func (cn *conn) PingContext(_ context.Context) error {
	if cn.closed {
		return sql.ErrConnDone
	}
	return cn.c.PingErr
}

func (cn *conn) Close() error {
	if cn.closed {
		return sql.ErrConnDone
	}
	cn.closed = true
	cn.c.mu.Lock()
	cn.c.closed++
	cn.c.mu.Unlock()
	return nil
}

type result int64

func (r result) LastInsertId() (int64, error) { return 0, errors.New("not supported") }
func (r result) RowsAffected() (int64, error) { return int64(r), nil }

type rows struct {
	data [][]any
	pos  int
}

func (r *rows) Next() bool {
	r.pos++
	return r.pos < len(r.data)
}

func (r *rows) Scan(dest ...any) error {
	row := r.data[r.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("expected %d destination arguments, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		if err := scanValue(reflect.ValueOf(d).Elem(), row[i]); err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
	}
	return nil
}

// scanValue mimics database/sql: nil is NULL and pointer targets are allocated for non-NULL values.
func scanValue(target reflect.Value, src any) error {
	if src == nil {
		if target.Kind() != reflect.Pointer {
			return fmt.Errorf("converting NULL to %s is unsupported", target.Type())
		}
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	value := reflect.ValueOf(src)
	if value.Type().AssignableTo(target.Type()) {
		target.Set(value)
		return nil
	}
	if target.Kind() == reflect.Pointer && value.Type().AssignableTo(target.Type().Elem()) {
		p := reflect.New(target.Type().Elem())
		p.Elem().Set(value)
		target.Set(p)
		return nil
	}
	return fmt.Errorf("cannot scan %T into %s", src, target.Type())
}

func (r *rows) Err() error   { return nil }
func (r *rows) Close() error { return nil }
