package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the ingest and read paths can hit
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgStringTruncation    = "22001"
	pgBadTextValue        = "22P02"
	pgNumericOutOfRange   = "22003"

	pgSerializationFailure = "40001"
	pgDeadlock             = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
	pgReadOnlyTx           = "25006"
	pgCannotConnectNow     = "57P03"
	pgTooManyConnections   = "53300"
)

var pgCodes = map[string]ErrorCode{
	pgUniqueViolation:     ErrorCodeDuplicateKey,
	pgForeignKeyViolation: ErrorCodeInvalidArgument, // plays or roster pointing at a game that was never written
	pgNotNullViolation:    ErrorCodeValidation,
	pgCheckViolation:      ErrorCodeValidation, // ingest_games.status
	pgStringTruncation:    ErrorCodeInvalidArgument,
	pgBadTextValue:        ErrorCodeInvalidArgument,
	pgNumericOutOfRange:   ErrorCodeInvalidArgument,
	pgReadOnlyTx:          ErrorCodeUnavailable,
	pgCannotConnectNow:    ErrorCodeUnavailable,
	pgTooManyConnections:  ErrorCodeUnavailable,
}

// contention that a fresh transaction usually gets past
var pgRetry = map[string]bool{
	pgSerializationFailure: true,
	pgDeadlock:             true,
	pgLockNotAvailable:     true,
	pgQueryCanceled:        true,
}

// ExtractPgError returns the *pgconn.PgError at the root of err, if any
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err carries the given SQLSTATE
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsDuplicateKey reports a unique violation
func IsDuplicateKey(err error) bool { return IsSQLState(err, pgUniqueViolation) }

// DBErrorCode maps a Postgres error to an ErrorCode.
// ok is false when err is not a PgError
func DBErrorCode(err error) (ErrorCode, bool) {
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	if c, ok := pgCodes[pgErr.Code]; ok {
		return c, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err with its mapped code. Nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	if IsCode(err, ErrorCodeNotFound) || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return err
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// pgx surfaces some of these only as text, notably on commit
var retryText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"serialization failure",
	"canceling statement due to statement timeout",
	"canceling statement due to lock timeout",
	"could not obtain lock on row",
	"terminating connection due to administrator command",
}

// IsRetryableDB reports whether a database error is transient
func IsRetryableDB(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgErr, ok := ExtractPgError(err); ok {
		return pgRetry[pgErr.Code]
	}
	s := strings.ToLower(Root(err).Error())
	for _, t := range retryText {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
