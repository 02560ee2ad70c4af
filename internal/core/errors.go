package core

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDefinitionNotFound means no counter definition is configured for the
// requested code. Fatal; there is nothing to retry.
var ErrDefinitionNotFound = errors.New("counter definition not found")

// ErrSequenceConflict marks a transient serialization or lock failure on
// the sequence counter row. The service never retries internally; callers
// may re-run the whole operation.
var ErrSequenceConflict = errors.New("sequence counter conflict")

// SequenceOverflowError is returned when the next counter value no longer
// fits the configured digit width. It aborts the enclosing transaction
// and is a configuration problem, not a transient fault.
type SequenceOverflowError struct {
	Code  string
	Width int
	Next  int64
}

func (e *SequenceOverflowError) Error() string {
	return fmt.Sprintf("sequence %s overflow: value %d does not fit in %d digit(s)", e.Code, e.Next, e.Width)
}

// transient SQLSTATEs: serialization_failure, deadlock_detected,
// lock_not_available, query_canceled (statement_timeout), plus the unique
// violation two first-users of a counter key can race into.
var transientSQLStates = map[string]bool{
	"40001": true,
	"40P01": true,
	"55P03": true,
	"57014": true,
	"23505": true,
}

// classifyPgError rewraps transient postgres failures as
// ErrSequenceConflict so callers can branch with errors.Is. Domain errors
// and everything else pass through unchanged.
func classifyPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && transientSQLStates[pgErr.Code] {
		return fmt.Errorf("%w: %s (%s)", ErrSequenceConflict, pgErr.Message, pgErr.Code)
	}
	return err
}
