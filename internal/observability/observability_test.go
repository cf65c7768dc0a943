package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/geocoder89/recipehub/internal/actorctx"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestClassifyDBErr(t *testing.T) {
	cases := map[string]error{
		"unique_violation":            &pgconn.PgError{Code: "23505"},
		"foreign_key_violation":       &pgconn.PgError{Code: "23503"},
		"invalid_text_representation": &pgconn.PgError{Code: "22P02"},
		"pg_42P01":                    &pgconn.PgError{Code: "42P01"},
		"timeout":                     context.DeadlineExceeded,
		"canceled":                    context.Canceled,
		"connection":                  errors.New("failed to connect: connection refused"),
		"unknown":                     errors.New("boom"),
	}

	for want, err := range cases {
		assert.Equal(t, want, classifyDBErr(err), err.Error())
	}
}

func TestObserveDB(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	require.NoError(t, p.ObserveDB("recipes.get_by_id", func() error { return nil }))

	err := p.ObserveDB("users.create", func() error { return &pgconn.PgError{Code: "23505"} })
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("users.create", "unique_violation")))
	assert.Equal(t, 0.0, testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("recipes.get_by_id", "unknown")))

	require.Error(t, p.ObserveDB("recipes.list", func() error { return errors.New("boom") }))

	// one series per (op, status): ok, conflict, error
	assert.Equal(t, 3, testutil.CollectAndCount(p.DbQueryDuration))
}

func TestLoggerAddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "prod")

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	log.InfoContext(ctx, "hello")
	log.DebugContext(ctx, "hidden at info level")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "recipehub", line["service"])
	assert.Equal(t, traceID.String(), line["trace_id"])
	assert.Equal(t, spanID.String(), line["span_id"])
}

func TestLoggerAddsUserID(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "dev")

	log.InfoContext(actorctx.WithUserID(context.Background(), "u-1"), "signed in")
	log.InfoContext(context.Background(), "anonymous")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))

	assert.Equal(t, "u-1", first["user_id"])
	assert.NotContains(t, second, "user_id")
	assert.NotContains(t, second, "trace_id")
}
