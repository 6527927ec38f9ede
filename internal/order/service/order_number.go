package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"storefront/internal/errors"
)

const (
	orderNumberPrefix = "ORD"
	sequenceDigits    = 4
	maxDailySequence  = 9999
)

type OrderNumberSource interface {
	LatestNumberForDay(ctx context.Context, tx *sql.Tx, prefix string) (string, error)
}

// OrderNumberGenerator produces ORD + YYMMDD + 4-digit daily sequence
// numbers. It reads the current daily maximum under lock inside the
// placement transaction; the UNIQUE index on orderNumber plus the
// duplicate-key retry in the usecase guarantee global uniqueness under
// concurrent placement.
type OrderNumberGenerator struct {
	source OrderNumberSource
}

func NewOrderNumberGenerator(source OrderNumberSource) *OrderNumberGenerator {
	return &OrderNumberGenerator{source: source}
}

func DayPrefix(t time.Time) string {
	return orderNumberPrefix + t.Format("060102")
}

func (g *OrderNumberGenerator) Next(ctx context.Context, tx *sql.Tx, now time.Time) (string, error) {
	prefix := DayPrefix(now)

	latest, err := g.source.LatestNumberForDay(ctx, tx, prefix)
	if err != nil {
		return "", err
	}

	sequence, err := nextSequence(latest, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%0*d", prefix, sequenceDigits, sequence), nil
}

func nextSequence(latest, prefix string) (int, error) {
	if latest == "" {
		return 1, nil
	}

	if len(latest) != len(prefix)+sequenceDigits {
		return 0, errors.NewInternalError(fmt.Sprintf("malformed order number %q", latest), nil)
	}

	current, err := strconv.Atoi(latest[len(prefix):])
	if err != nil {
		return 0, errors.NewInternalError(fmt.Sprintf("malformed order number %q", latest), err)
	}

	if current >= maxDailySequence {
		return 0, errors.NewConflictError("daily order number space exhausted")
	}

	return current + 1, nil
}
