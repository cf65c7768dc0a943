package observability

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// ObserveDB times one logical store operation. Constraint violations are the
// store answering a client mistake (a second like, a taken email), so they are
// labelled "conflict" rather than "error" in the latency histogram; every
// failure is still counted by class in DbErrorsTotal.
func (p *Prom) ObserveDB(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "ok"
	if err != nil {
		class := classifyDBErr(err)
		p.DbErrorsTotal.WithLabelValues(op, class).Inc()

		status = "error"
		if class == "unique_violation" || class == "foreign_key_violation" {
			status = "conflict"
		}
	}

	p.DbQueryDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err
}

func classifyDBErr(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return "unique_violation"
		case "23503":
			return "foreign_key_violation"
		case "22P02":
			return "invalid_text_representation"
		case "57014":
			return "query_canceled"
		}
		return "pg_" + pgErr.Code
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), pgconn.Timeout(err):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}

	if strings.Contains(strings.ToLower(err.Error()), "connect") {
		return "connection"
	}
	return "unknown"
}
