// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"errors"
	"fmt"

	"github.com/vechain/veescrow/builtin/reverts"
)

var (
	ErrZeroValue            = reverts.New("zero value")
	ErrNoLock               = reverts.New("no existing lock")
	ErrLockExpired          = reverts.New("lock expired")
	ErrWithdrawOldTokens    = reverts.New("withdraw old tokens first")
	ErrLockExists           = reverts.New("lock already exists")
	ErrUnlockTimeInPast     = reverts.New("unlock time in the past")
	ErrExceedsMaxTime       = reverts.New("exceeds max lock time")
	ErrNotIncreasing        = reverts.New("can only increase lock duration")
	ErrLockNotExpired       = reverts.New("lock not expired")
	ErrNothingToWithdraw    = reverts.New("nothing to withdraw")
	ErrNotPast              = reverts.New("point must be in the past")
	ErrEarlyWithdrawOff     = reverts.New("early withdraw disabled")
	ErrCheckpointLapsed     = reverts.New("checkpoint lapsed too long, call checkpoint first")
	ErrPenaltyPoolUndefined = reverts.New("penalty pool not set")
)

// InvariantError reports ledger state that correct validation can never produce.
// It is never a revert, the caller must treat it as fatal for the operation.
type InvariantError struct {
	msg   string
	cause error
}

func (e *InvariantError) Error() string {
	if e.cause != nil {
		return "invariant violated: " + e.msg + ": " + e.cause.Error()
	}
	return "invariant violated: " + e.msg
}

func (e *InvariantError) Unwrap() error {
	return e.cause
}

func invariant(format string, args ...any) error {
	err := &InvariantError{msg: fmt.Sprintf(format, args...)}
	logger.Error("ledger invariant violated", "error", err)
	return err
}

func invariantCause(cause error, format string, args ...any) error {
	err := &InvariantError{msg: fmt.Sprintf(format, args...), cause: cause}
	logger.Error("ledger invariant violated", "error", err)
	return err
}

func IsInvariantErr(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
