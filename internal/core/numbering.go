package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NumberingService hands out gap-free formatted document numbers.
type NumberingService interface {
	// Next reserves the next number in its own serializable transaction.
	// Use for standalone calls.
	Next(ctx context.Context, counterCode, company, site string, date time.Time, complement string) (string, error)
	// NextTx reserves the next number inside the caller's transaction, so
	// numbering and document persistence commit or roll back together.
	// The caller owns the commit/rollback; a SequenceOverflowError must
	// abort the whole transaction.
	NextTx(ctx context.Context, tx pgx.Tx, counterCode, company, site string, date time.Time, complement string) (string, error)
}

type numberingService struct {
	pool        *pgxpool.Pool
	sites       SiteDirectory
	lockTimeout time.Duration
	execTimeout time.Duration
}

// NewNumberingService wires the engine over a pgx pool and a site
// directory for legal-entity scope resolution.
func NewNumberingService(pool *pgxpool.Pool, sites SiteDirectory) NumberingService {
	return &numberingService{
		pool:        pool,
		sites:       sites,
		lockTimeout: 5 * time.Second,
		execTimeout: 10 * time.Second,
	}
}

func (s *numberingService) Next(ctx context.Context, counterCode, company, site string, date time.Time, complement string) (string, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Bound both the lock wait and the statement execution so a stuck
	// counter row surfaces as a retryable conflict instead of hanging.
	_, err = tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds()))
	if err != nil {
		return "", fmt.Errorf("failed to set lock timeout: %w", err)
	}
	_, err = tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", s.execTimeout.Milliseconds()))
	if err != nil {
		return "", fmt.Errorf("failed to set statement timeout: %w", err)
	}

	number, err := s.nextWithTx(ctx, tx, counterCode, company, site, date, complement)
	if err != nil {
		return "", classifyPgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		if err = classifyPgError(err); errors.Is(err, ErrSequenceConflict) {
			return "", err
		}
		return "", fmt.Errorf("failed to commit numbering transaction: %w", err)
	}
	return number, nil
}

func (s *numberingService) NextTx(ctx context.Context, tx pgx.Tx, counterCode, company, site string, date time.Time, complement string) (string, error) {
	number, err := s.nextWithTx(ctx, tx, counterCode, company, site, date, complement)
	if err != nil {
		return "", classifyPgError(err)
	}
	return number, nil
}

// nextWithTx contains the reserve-and-render logic and runs within a
// provided transaction.
func (s *numberingService) nextWithTx(ctx context.Context, tx pgx.Tx, counterCode, company, site string, date time.Time, complement string) (string, error) {
	def, err := loadDefinition(ctx, tx, counterCode)
	if err != nil {
		return "", err
	}

	seqIdx := def.SequenceIndex()
	if seqIdx < 0 {
		// No SEQUENCE_NUMBER slot: numbering is a documented no-op.
		return "", nil
	}

	if !def.HasComplement() {
		complement = ""
	}

	width := def.Components[seqIdx].Length
	if width <= 0 {
		width = 1
	}

	period := PeriodBucket(def.RTZ, date)
	scope, err := ResolveScope(ctx, s.sites, def.Level, company, site)
	if err != nil {
		return "", err
	}

	current, err := reserveValue(ctx, tx, def.Code, scope, period, complement, width)
	if err != nil {
		return "", err
	}

	return def.Render(RenderValues{
		Date:       date,
		Company:    company,
		Site:       site,
		Sequence:   fmt.Sprintf("%0*d", width, current),
		Complement: complement,
	}), nil
}

// reserveValue reads, increments, and writes the counter row for one key,
// returning the pre-increment value the caller was handed. The stored row
// always holds the next value to give out, so the first observable value
// of a fresh counter is 1.
func reserveValue(ctx context.Context, tx pgx.Tx, code, scope string, period int, complement string, width int) (int64, error) {
	var current int64
	err := tx.QueryRow(ctx, `
		SELECT value FROM sequence_counters
		WHERE definition_code = $1 AND scope = $2 AND period = $3 AND complement = $4
		FOR UPDATE
	`, code, scope, period, complement).Scan(&current)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		current = 1
		next := current + 1
		if overflows(next, width) {
			return 0, &SequenceOverflowError{Code: code, Width: width, Next: next}
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO sequence_counters (id, definition_code, scope, period, complement, value, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		`, uuid.NewString(), code, scope, period, complement, next)
		if err != nil {
			return 0, fmt.Errorf("failed to create sequence counter: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("failed to read sequence counter: %w", err)
	default:
		next := current + 1
		if overflows(next, width) {
			return 0, &SequenceOverflowError{Code: code, Width: width, Next: next}
		}
		_, err = tx.Exec(ctx, `
			UPDATE sequence_counters SET value = $5, updated_at = NOW()
			WHERE definition_code = $1 AND scope = $2 AND period = $3 AND complement = $4
		`, code, scope, period, complement, next)
		if err != nil {
			return 0, fmt.Errorf("failed to advance sequence counter: %w", err)
		}
	}
	return current, nil
}

func overflows(next int64, width int) bool {
	return len(strconv.FormatInt(next, 10)) > width
}

// loadDefinition reads a counter definition and its ordered components
// inside the current transaction.
func loadDefinition(ctx context.Context, tx pgx.Tx, code string) (*CounterDefinition, error) {
	def := &CounterDefinition{Code: code}
	err := tx.QueryRow(ctx, `
		SELECT rtz_level, definition_level, chrono_control, value_type
		FROM sequence_definitions WHERE code = $1
	`, code).Scan(&def.RTZ, &def.Level, &def.Chrono, &def.ValueType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrDefinitionNotFound, code)
		}
		return nil, fmt.Errorf("failed to load counter definition %s: %w", code, err)
	}

	rows, err := tx.Query(ctx, `
		SELECT component_type, length, constant_value
		FROM sequence_components WHERE definition_code = $1
		ORDER BY position
	`, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load components for %s: %w", code, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c CounterComponent
		if err := rows.Scan(&c.Type, &c.Length, &c.Constant); err != nil {
			return nil, fmt.Errorf("failed to scan component for %s: %w", code, err)
		}
		def.Components = append(def.Components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating components for %s: %w", code, err)
	}
	return def, nil
}
