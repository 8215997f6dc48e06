package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/nodepress/demo-control-plane/internal/config"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

const DuplicateEntry = 1062

func New(cfg config.Database) (*sqlx.DB, error) {
	conf, err := baseConfig(cfg)
	if err != nil {
		return nil, err
	}
	conf.DBName = cfg.DBName

	return connect(cfg, conf)
}

// NewAdmin opens a connection without a default schema. The provisioning
// orchestrator uses it for CREATE/DROP DATABASE statements on per-tenant
// logical databases.
func NewAdmin(cfg config.Database) (*sqlx.DB, error) {
	conf, err := baseConfig(cfg)
	if err != nil {
		return nil, err
	}

	return connect(cfg, conf)
}

func baseConfig(cfg config.Database) (*mysql.Config, error) {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time load location failed: %w", err)
	}
	conf := mysql.NewConfig()
	conf.Net = cfg.Net
	conf.Addr = cfg.Server
	conf.User = cfg.User
	conf.Passwd = cfg.Password
	conf.Timeout = cfg.Timeout
	conf.Loc = location
	conf.ParseTime = true

	return conf, nil
}

func connect(cfg config.Database, conf *mysql.Config) (*sqlx.DB, error) {
	dbConn, err := sqlx.Connect("mysql", conf.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("db connection failed: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConnections)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConnections)

	if err := dbConn.Ping(); err != nil {
		return nil, err
	}

	return dbConn, nil
}

// IsDuplicate reports whether err is the MySQL duplicate-entry error, used to
// map unique-key violations (subdomain, port, token) to domain conflicts.
func IsDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == DuplicateEntry
}
