package token

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/locktoken-contract/common"
	"github.com/nspcc-dev/locktoken-contract/token/tokenconst"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
)

// Errors corresponding to the exceptions thrown by the contract.
var (
	ErrInvalidAmount         = errors.New(tokenconst.ErrInvalidAmount)
	ErrInsufficientBalance   = errors.New(tokenconst.ErrInsufficientBalance)
	ErrInsufficientAllowance = errors.New(tokenconst.ErrInsufficientAllowance)
	ErrMissingArgument       = errors.New(tokenconst.ErrMissingArgument)
	ErrInvalidAccount        = errors.New(tokenconst.ErrInvalidAccount)
	ErrWitness               = errors.New("witness check failed")

	// ErrFault is returned for a FAULT not related to the token semantics
	// (out of GAS, failed payment callback, etc.).
	ErrFault = errors.New("contract execution failed")
)

var faults = []struct {
	substr string
	err    error
}{
	{tokenconst.ErrInvalidAmount, ErrInvalidAmount},
	{tokenconst.ErrInsufficientBalance, ErrInsufficientBalance},
	{tokenconst.ErrInsufficientAllowance, ErrInsufficientAllowance},
	{tokenconst.ErrMissingArgument, ErrMissingArgument},
	{tokenconst.ErrInvalidAccount, ErrInvalidAccount},
	{common.ErrOwnerWitnessFailed, ErrWitness},
	{common.ErrCommitteeWitnessFailed, ErrWitness},
}

// ClassifyFault maps VM exception message to one of the package errors. Nil
// is returned for an empty message.
func ClassifyFault(exception string) error {
	if exception == "" {
		return nil
	}

	for _, f := range faults {
		if strings.Contains(exception, f.substr) {
			return fmt.Errorf("%w: %s", f.err, exception)
		}
	}

	return fmt.Errorf("%w: %s", ErrFault, exception)
}

// CheckInvoke returns classified FAULT of the test invocation result.
func CheckInvoke(res *result.Invoke) error {
	if res.State == vmstate.Halt.String() {
		return nil
	}
	return ClassifyFault(res.FaultException)
}

// CheckApplicationLog returns classified FAULT of the first failed execution
// of the persisted transaction.
func CheckApplicationLog(log *result.ApplicationLog) error {
	for _, ex := range log.Executions {
		if ex.VMState != vmstate.Halt {
			err := ClassifyFault(ex.FaultException)
			if err == nil {
				err = fmt.Errorf("%w: %s state", ErrFault, ex.VMState)
			}
			return err
		}
	}
	return nil
}
