// Package nep17recv contains a contract accepting NEP-17 payments, it's used
// in tests of token transfers to contracts.
package nep17recv

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Payment describes the last accepted payment.
type Payment struct {
	Token  interop.Hash160
	From   interop.Hash160
	Amount int
	Data   any
}

const (
	lastPaymentKey = "last"
	rejectKey      = "reject"
)

// OnNEP17Payment stores payment details or fails if rejection is enabled.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()
	if storage.Get(ctx, rejectKey) != nil {
		panic("payment rejected")
	}

	storage.Put(ctx, lastPaymentKey, std.Serialize(Payment{
		Token:  runtime.GetCallingScriptHash(),
		From:   from,
		Amount: amount,
		Data:   data,
	}))
}

// SetReject toggles payment rejection.
func SetReject(reject bool) {
	ctx := storage.GetContext()
	if reject {
		storage.Put(ctx, rejectKey, true)
		return
	}
	storage.Delete(ctx, rejectKey)
}

// LastPayment returns the last accepted payment or null.
func LastPayment() any {
	data := storage.Get(storage.GetReadOnlyContext(), lastPaymentKey)
	if data == nil {
		return nil
	}
	return std.Deserialize(data.([]byte))
}

// Transfer sends tokens owned by this contract.
func Transfer(token, to interop.Hash160, amount int) bool {
	return contract.Call(token, "transfer", contract.All,
		runtime.GetExecutingScriptHash(), to, amount, nil).(bool)
}
