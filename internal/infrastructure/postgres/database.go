package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var dbTracer = otel.Tracer("carteira.db")

const maxStatementLength = 256

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultPoolConfig is used for zero-valued PoolConfig fields.
var DefaultPoolConfig = PoolConfig{
	MaxOpenConns:    25,
	MaxIdleConns:    5,
	ConnMaxLifetime: 5 * time.Minute,
}

// DB is a *sql.DB whose query methods emit OpenTelemetry spans.
type DB struct {
	*sql.DB
}

// New opens and pings a PostgreSQL database.
func New(ctx context.Context, connStr string, pool PoolConfig) (*DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if pool.MaxOpenConns <= 0 {
		pool.MaxOpenConns = DefaultPoolConfig.MaxOpenConns
	}
	if pool.MaxIdleConns <= 0 {
		pool.MaxIdleConns = DefaultPoolConfig.MaxIdleConns
	}
	if pool.ConnMaxLifetime <= 0 {
		pool.ConnMaxLifetime = DefaultPoolConfig.ConnMaxLifetime
	}
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

func startSpan(ctx context.Context, name, query string) (context.Context, trace.Span) {
	return dbTracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", extractSQLVerb(query)),
		attribute.String("db.statement", sanitizeQuery(query)),
	))
}

func recordError(span trace.Span, err error) {
	// no rows is an expected outcome, not a failed query
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// QueryContext wraps sql.DB.QueryContext with tracing.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	ctx, span := startSpan(ctx, "db.Query", query)
	defer span.End()

	rows, err := db.DB.QueryContext(ctx, query, args...)
	recordError(span, err)
	return rows, err
}

// Row is a traced *sql.Row. The span stays open until Scan, where sql.Row reports
// every error including sql.ErrNoRows.
type Row struct {
	row  *sql.Row
	span trace.Span
}

func (r *Row) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if r.span != nil {
		recordError(r.span, err)
		r.span.End()
		r.span = nil
	}
	return err
}

// QueryRowContext wraps sql.DB.QueryRowContext with tracing.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *Row {
	ctx, span := startSpan(ctx, "db.QueryRow", query)

	return &Row{
		row:  db.DB.QueryRowContext(ctx, query, args...),
		span: span,
	}
}

// ExecContext wraps sql.DB.ExecContext with tracing.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx, span := startSpan(ctx, "db.Exec", query)
	defer span.End()

	result, err := db.DB.ExecContext(ctx, query, args...)
	recordError(span, err)
	return result, err
}

// sanitizeQuery replaces string and numeric literals with '?' so values never reach
// traces. $N placeholders are kept.
func sanitizeQuery(q string) string {
	q = strings.Join(strings.Fields(q), " ")

	var b strings.Builder
	b.Grow(len(q))

	for i := 0; i < len(q); {
		ch := q[i]

		if ch == '\'' {
			b.WriteString("'?'")
			i = skipStringLiteral(q, i+1)
			continue
		}

		if unicode.IsDigit(rune(ch)) && (i == 0 || !isIdentChar(q[i-1])) {
			b.WriteByte('?')
			for i < len(q) && (unicode.IsDigit(rune(q[i])) || q[i] == '.') {
				i++
			}
			continue
		}

		b.WriteByte(ch)
		i++
	}

	s := b.String()
	if len(s) > maxStatementLength {
		return s[:maxStatementLength] + "..."
	}
	return s
}

// skipStringLiteral returns the index after the literal's closing quote, treating ''
// as an escaped quote.
func skipStringLiteral(q string, i int) int {
	for i < len(q) {
		if q[i] != '\'' {
			i++
			continue
		}
		if i+1 < len(q) && q[i+1] == '\'' {
			i += 2
			continue
		}
		return i + 1
	}
	return i
}

func isIdentChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '$'
}

func extractSQLVerb(q string) string {
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}
