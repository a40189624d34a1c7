package repository

import (
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/Dan9191/users-service/internal/config"
	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Dialect describes how statements and DSNs are shaped for one database driver
type Dialect struct {
	Driver string
	// Rebind rewrites ? placeholders into the driver's native form
	Rebind func(query string) string
	DSN    func(cfg *config.Config) string
}

var (
	// Postgres targets github.com/lib/pq
	Postgres = Dialect{
		Driver: "postgres",
		Rebind: rebindDollar,
		DSN: func(cfg *config.Config) string {
			u := url.URL{
				Scheme:   "postgres",
				User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
				Host:     net.JoinHostPort(cfg.DBHost, cfg.DBPort),
				Path:     "/" + cfg.DBName,
				RawQuery: url.Values{"sslmode": {cfg.DBSSLMode}}.Encode(),
			}
			return u.String()
		},
	}

	// MySQL targets github.com/go-sql-driver/mysql
	MySQL = Dialect{
		Driver: "mysql",
		Rebind: func(query string) string { return query },
		DSN: func(cfg *config.Config) string {
			mc := mysql.NewConfig()
			mc.User = cfg.DBUser
			mc.Passwd = cfg.DBPassword
			mc.Net = "tcp"
			mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
			mc.DBName = cfg.DBName
			return mc.FormatDSN()
		},
	}
)

// DialectFor returns the dialect registered under driver
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case Postgres.Driver:
		return Postgres, nil
	case MySQL.Driver:
		return MySQL, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver: %q", driver)
	}
}

// OpenDB opens a database handle for the configured driver and verifies it is reachable
func OpenDB(cfg *config.Config) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, Dialect{}, err
	}

	db, err := sql.Open(dialect.Driver, dialect.DSN(cfg))
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, Dialect{}, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, dialect, nil
}

func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
