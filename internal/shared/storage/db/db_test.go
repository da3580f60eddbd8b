package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
)

type nopDriver struct{}

func (d nopDriver) Open(name string) (driver.Conn, error) {
	return nopConn{}, nil
}

type nopConn struct{}

func (nopConn) Prepare(query string) (driver.Stmt, error) { return nopStmt{}, nil }
func (nopConn) Close() error                              { return nil }
func (nopConn) Begin() (driver.Tx, error)                 { return nopTx{}, nil }
func (nopConn) Ping(ctx context.Context) error            { return nil }

type nopStmt struct{}

func (nopStmt) Close() error                                    { return nil }
func (nopStmt) NumInput() int                                   { return -1 }
func (nopStmt) Exec(args []driver.Value) (driver.Result, error) { return nopResult{}, nil }
func (nopStmt) Query(args []driver.Value) (driver.Rows, error)  { return nopRows{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

type nopResult struct{}

func (nopResult) LastInsertId() (int64, error) { return 0, nil }
func (nopResult) RowsAffected() (int64, error) { return 0, nil }

type nopRows struct{}

func (nopRows) Columns() []string              { return []string{} }
func (nopRows) Close() error                   { return nil }
func (nopRows) Next(dest []driver.Value) error { return driver.ErrBadConn }

var registerTestDriverOnce sync.Once

func withTestDriver(t *testing.T) func() {
	t.Helper()
	registerTestDriverOnce.Do(func() {
		sql.Register("dbtest", nopDriver{})
	})
	prev := openDB
	openDB = func(name, dsn string) (*sqlx.DB, error) {
		return sqlx.Open("dbtest", dsn)
	}
	return func() {
		openDB = prev
	}
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantDriver string
		wantDSN    string
		wantErr    bool
	}{
		{name: "postgres", url: "postgres://u:p@localhost/docs", wantDriver: DriverPostgres, wantDSN: "postgres://u:p@localhost/docs"},
		{name: "postgresql", url: "postgresql://localhost/docs", wantDriver: DriverPostgres, wantDSN: "postgresql://localhost/docs"},
		{name: "sqlite path", url: "sqlite://./data/docs.db", wantDriver: DriverSQLite, wantDSN: "./data/docs.db"},
		{name: "sqlite file uri", url: "file:docs.db?cache=shared", wantDriver: DriverSQLite, wantDSN: "file:docs.db?cache=shared"},
		{name: "memory", url: ":memory:", wantDriver: DriverSQLite, wantDSN: ":memory:"},
		{name: "empty", url: "  ", wantErr: true},
		{name: "sqlite without path", url: "sqlite://", wantErr: true},
		{name: "unknown scheme", url: "mysql://localhost/docs", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := ParseURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseURL(%q): %v", tt.url, err)
			}
			if driver != tt.wantDriver || dsn != tt.wantDSN {
				t.Fatalf("ParseURL(%q) = %q, %q; want %q, %q", tt.url, driver, dsn, tt.wantDriver, tt.wantDSN)
			}
		})
	}
}

func TestOptionsFromEnvAppliesOverrides(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()

	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "1s")

	opts := OptionsFromEnv(DefaultServerOptions())
	db, err := Connect(context.Background(), "postgres://ignored", opts)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	stats := db.Stats()
	if stats.MaxOpenConnections != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", stats.MaxOpenConnections)
	}
	if opts.MaxIdleConns != 3 {
		t.Fatalf("expected MaxIdleConns=3, got %d", opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime != 20*time.Minute {
		t.Fatalf("expected ConnMaxLifetime=20m, got %s", opts.ConnMaxLifetime)
	}
	if opts.ConnMaxIdleTime != 45*time.Second {
		t.Fatalf("expected ConnMaxIdleTime=45s, got %s", opts.ConnMaxIdleTime)
	}
	if opts.PingTimeout != time.Second {
		t.Fatalf("expected PingTimeout=1s, got %s", opts.PingTimeout)
	}
}

func TestRuntimeOptionsPicksLambdaPool(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	if got := RuntimeOptions(); got.MaxOpenConns != DefaultServerOptions().MaxOpenConns {
		t.Fatalf("expected server pool outside lambda, got %+v", got)
	}

	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "docstore-http")
	if got := RuntimeOptions(); got != DefaultLambdaOptions() {
		t.Fatalf("expected lambda pool, got %+v", got)
	}

	t.Setenv("DB_MAX_OPEN_CONNS", "4")
	if got := RuntimeOptions(); got.MaxOpenConns != 4 {
		t.Fatalf("expected DB_* override on lambda pool, got %d", got.MaxOpenConns)
	}
}

func TestRunMigrationsSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(ctx, ":memory:", DefaultMigrateOptions())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	// Idempotent on a second run.
	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("RunMigrations again: %v", err)
	}

	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM documents"); err != nil {
		t.Fatalf("query documents: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty documents table, got %d rows", count)
	}
}

func TestRunMigrationsNilIsNoop(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("expected nil database to be a no-op, got %v", err)
	}
}

func TestMigrateDownAndUnknownCommand(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(ctx, ":memory:", DefaultMigrateOptions())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	if err := Migrate(ctx, db, "up"); err != nil {
		t.Fatalf("up: %v", err)
	}
	if err := Migrate(ctx, db, "down"); err != nil {
		t.Fatalf("down: %v", err)
	}
	if _, err := db.ExecContext(ctx, "SELECT COUNT(*) FROM documents"); err == nil {
		t.Fatal("expected documents table to be dropped")
	}
	if err := Migrate(ctx, db, "sideways"); err == nil {
		t.Fatal("expected unknown command error")
	}
}
