package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds for transfer")
	ErrWriteProtection   = errors.New("write protection")
	ErrNoCode            = errors.New("no contract code at given address")
	ErrContractCollision = errors.New("contract address collision")
	ErrTraceIdConflict   = errors.New("trace id conflict")
)

// RevertError is returned when contract code aborts a call, the reason
// is kept verbatim so callers can match it.
type RevertError struct {
	Reason string
}

func Revert(reason string) error {
	return &RevertError{Reason: reason}
}

func (e *RevertError) Error() string {
	return fmt.Sprintf("execution reverted: %s", e.Reason)
}

func RevertReason(err error) (string, bool) {
	var re *RevertError
	if errors.As(err, &re) {
		return re.Reason, true
	}
	return "", false
}
