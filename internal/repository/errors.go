// Package repository defines error types that are reused across multiple
// repositories. These values let higher layers such as the booking
// service and handlers distinguish between failure scenarios without
// inspecting driver-specific errors. For example, ErrLockTimeout
// signals that a row-lock wait exceeded its bound, while
// SeatsUnavailableError names the exact seats that can no longer
// be booked so the caller can retry with an adjusted seat set.
package repository

import (
    "errors"
    "fmt"

    "github.com/go-sql-driver/mysql"
)

// ErrShowNotFound is returned when a show lookup finds no row.
// Handlers should translate this into an HTTP 404 response.
var ErrShowNotFound = errors.New("show not found")

// ErrBookingNotFound is returned when a booking lookup finds no row
// for the requesting user.
var ErrBookingNotFound = errors.New("booking not found")

// ErrLockTimeout is returned when a pessimistic row-lock wait exceeds
// the configured bound, or the database chose this transaction as a
// deadlock victim. The attempt made no durable change and is safe to
// retry.
var ErrLockTimeout = errors.New("row lock wait timed out")

// ErrCommitConflict is returned when a uniqueness constraint fires at
// write or commit time after internal retries are exhausted. The
// transaction was rolled back; no partial state remains.
var ErrCommitConflict = errors.New("commit conflict")

// SeatsNotFoundError reports requested seats that have no inventory row
// for the show. The whole attempt fails; nothing was written.
type SeatsNotFoundError struct {
    ShowID  uint64
    SeatIDs []uint64
}

func (e *SeatsNotFoundError) Error() string {
    return fmt.Sprintf("show %d: no inventory for seats %v", e.ShowID, e.SeatIDs)
}

// SeatsUnavailableError reports seats that are already sold. It carries
// the offending seat ids so the caller can retry with different seats.
type SeatsUnavailableError struct {
    ShowID  uint64
    SeatIDs []uint64
}

func (e *SeatsUnavailableError) Error() string {
    return fmt.Sprintf("show %d: seats %v are not available", e.ShowID, e.SeatIDs)
}

// MySQL server error numbers that the repositories translate into the
// sentinel errors above.
const (
    mysqlErrDupEntry        = 1062 // ER_DUP_ENTRY
    mysqlErrLockDeadlock    = 1213 // ER_LOCK_DEADLOCK
    mysqlErrLockWaitTimeout = 1205 // ER_LOCK_WAIT_TIMEOUT
)

// mapLockError converts driver lock-wait and deadlock errors into
// ErrLockTimeout and leaves every other error untouched.
func mapLockError(err error) error {
    var me *mysql.MySQLError
    if errors.As(err, &me) {
        if me.Number == mysqlErrLockWaitTimeout || me.Number == mysqlErrLockDeadlock {
            return fmt.Errorf("%w: %v", ErrLockTimeout, err)
        }
    }
    return err
}

// isDupEntry reports whether err is a MySQL duplicate-key violation.
func isDupEntry(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == mysqlErrDupEntry
}
