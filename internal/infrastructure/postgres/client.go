// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package postgres holds the PostgreSQL repositories, built with goqu on
// the lib/pq driver.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
)

// Table names
const (
	TableEvents       = "booking_events"
	TableIntegrations = "booking_integrations"
	TableMeetings     = "booking_meetings"
)

const (
	tracerName = "github.com/linuxfoundation/lfx-v2-booking-service/internal/infrastructure/postgres"
	dialect    = "postgres"

	// uniqueViolation is the SQLSTATE of a unique constraint failure.
	uniqueViolation = pq.ErrorCode("23505")
)

//go:embed schema.sql
var schema string

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	slog.InfoContext(ctx, "connected to PostgreSQL")
	return db, nil
}

// Migrate creates the booking tables when missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply booking schema: %w", err)
	}
	return nil
}

// NewRepositories returns the PostgreSQL implementation of every repository.
func NewRepositories(db *sql.DB) *domain.Repositories {
	gdb := goqu.New(dialect, db)
	return &domain.Repositories{
		Events:       &EventRepository{db: gdb},
		Integrations: &IntegrationRepository{db: gdb},
		Meetings:     &MeetingRepository{db: gdb},
	}
}

func startSpan(ctx context.Context, operation, table string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "postgres."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
			attribute.String("db.sql.table", table),
		),
	)
}

// finish records the outcome on the span and passes err through.
func finish(span trace.Span, err error) error {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
