package token

import (
	"github.com/nspcc-dev/locktoken-contract/common"
	"github.com/nspcc-dev/locktoken-contract/token/tokenconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/math"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Lock is a deposit credited to the holder that becomes spendable once the
// block timestamp reaches Until.
type Lock struct {
	// Maturity timestamp in milliseconds.
	Until int
	// Locked amount.
	Amount int
}

func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	if data == nil {
		panic(tokenconst.ErrMissingArgument)
	}

	args := data.([]any)
	if len(args) < 4 {
		panic(tokenconst.ErrMissingArgument)
	}
	for i := 0; i < 4; i++ {
		if args[i] == nil {
			panic(tokenconst.ErrMissingArgument)
		}
	}

	var (
		name     = args[0].(string)
		symbol   = args[1].(string)
		decimals = args[2].(int)
		initial  = args[3].(int)
		owner    interop.Hash160
	)

	if decimals < 0 || initial < 0 {
		panic(tokenconst.ErrInvalidAmount)
	}

	if len(args) > 4 && args[4] != nil {
		owner = args[4].(interop.Hash160)
	} else {
		owner = runtime.GetScriptContainer().Sender
	}
	checkAccount(owner)

	supply := initial * math.Pow(10, decimals)

	storage.Put(ctx, tokenconst.NameKey, name)
	storage.Put(ctx, tokenconst.SymbolKey, symbol)
	storage.Put(ctx, tokenconst.DecimalsKey, decimals)
	storage.Put(ctx, tokenconst.TotalSupplyKey, supply)

	credit(ctx, owner, supply)

	var mint interop.Hash160
	runtime.Notify("Transfer", mint, owner, supply)

	runtime.Log("token contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	common.Update(nefFile, manifest, data)
	runtime.Log("token contract updated")
}

// Name returns the token name set at deployment.
func Name() string {
	return storage.Get(storage.GetReadOnlyContext(), tokenconst.NameKey).(string)
}

// Symbol is a NEP-17 standard method that returns the token ticker.
func Symbol() string {
	return storage.Get(storage.GetReadOnlyContext(), tokenconst.SymbolKey).(string)
}

// Decimals is a NEP-17 standard method that returns precision of the token.
func Decimals() int {
	return common.GetInt(storage.GetReadOnlyContext(), tokenconst.DecimalsKey)
}

// TotalSupply is a NEP-17 standard method that returns the amount of minted
// base units. It never changes after deployment.
func TotalSupply() int {
	return common.GetInt(storage.GetReadOnlyContext(), tokenconst.TotalSupplyKey)
}

// BalanceOf is a NEP-17 standard method that returns the spendable balance of
// the account. Locks that have matured by the current block time are counted
// even if no state-changing call persisted them yet.
func BalanceOf(account interop.Hash160) int {
	checkAccount(account)

	ctx := storage.GetReadOnlyContext()
	matured, _ := lockedAmounts(ctx, account, runtime.GetTime())

	return getBalance(ctx, account) + matured
}

// LockedBalanceOf returns the sum of locks of the account that are not mature
// by the current block time.
func LockedBalanceOf(account interop.Hash160) int {
	checkAccount(account)

	_, pending := lockedAmounts(storage.GetReadOnlyContext(), account, runtime.GetTime())

	return pending
}

// Locks returns iterator over stored locks of the account. Matured locks stay
// there until the next state-changing call touching the account.
func Locks(account interop.Hash160) iterator.Iterator {
	checkAccount(account)

	return storage.Find(storage.GetReadOnlyContext(), lockPrefix(account),
		storage.ValuesOnly|storage.DeserializeValues)
}

// Allowance returns the amount spender can still transfer from the owner's
// balance.
func Allowance(owner, spender interop.Hash160) int {
	checkAccount(owner)
	checkAccount(spender)

	return common.GetInt(storage.GetReadOnlyContext(), allowanceKey(owner, spender))
}

// Transfer is a NEP-17 standard method that moves amount of spendable tokens
// from one account to another. It produces Transfer notification and invokes
// `onNEP17Payment` if the receiver is a deployed contract.
//
// It panics instead of returning false, so failed transfers never change
// the state.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	checkAccount(from)
	checkAccount(to)
	checkAmount(amount)
	common.CheckOwnerWitness(from)

	ctx := storage.GetContext()

	debit(ctx, from, amount)
	credit(ctx, to, amount)

	postTransfer(from, to, amount, data)

	return true
}

// TransferLocked moves amount of spendable tokens of the sender into a lock of
// the receiver that matures at until (milliseconds). If until is not in the
// future, the amount is credited to the receiver right away.
//
// Transfer notification is produced in both cases.
func TransferLocked(from, to interop.Hash160, amount int, until int) bool {
	checkAccount(from)
	checkAccount(to)
	checkAmount(amount)
	checkArgument(until)
	common.CheckOwnerWitness(from)

	ctx := storage.GetContext()

	debit(ctx, from, amount)
	lockFunds(ctx, to, amount, until)

	postTransfer(from, to, amount, nil)

	return true
}

// TransferFrom moves amount of owner's spendable tokens to the receiver on
// behalf of spender, decreasing the allowance.
func TransferFrom(spender, from, to interop.Hash160, amount int) bool {
	checkAccount(spender)
	checkAccount(from)
	checkAccount(to)
	checkAmount(amount)
	common.CheckOwnerWitness(spender)

	ctx := storage.GetContext()

	allowed := common.GetInt(ctx, allowanceKey(from, spender))
	if allowed < amount {
		panic(tokenconst.ErrInsufficientAllowance)
	}
	setAllowance(ctx, from, spender, allowed-amount)

	debit(ctx, from, amount)
	credit(ctx, to, amount)

	postTransfer(from, to, amount, nil)

	return true
}

// Approve sets the allowance of spender over owner's tokens to amount. It
// produces Approval notification.
func Approve(owner, spender interop.Hash160, amount int) bool {
	checkAccount(owner)
	checkAccount(spender)
	checkAmount(amount)
	common.CheckOwnerWitness(owner)

	setAllowance(storage.GetContext(), owner, spender, amount)

	runtime.Notify("Approval", owner, spender, amount)

	return true
}

// IncreaseApproval adds amount to the allowance of spender. Approval
// notification carries the resulting allowance.
func IncreaseApproval(owner, spender interop.Hash160, amount int) bool {
	checkAccount(owner)
	checkAccount(spender)
	checkAmount(amount)
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()

	current := common.GetInt(ctx, allowanceKey(owner, spender))
	checkAmount(current)

	result := current + amount
	setAllowance(ctx, owner, spender, result)

	runtime.Notify("Approval", owner, spender, result)

	return true
}

// DecreaseApproval subtracts amount from the allowance of spender. The
// allowance never goes below zero. Approval notification carries the
// resulting allowance.
func DecreaseApproval(owner, spender interop.Hash160, amount int) bool {
	checkAccount(owner)
	checkAccount(spender)
	checkAmount(amount)
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()

	current := common.GetInt(ctx, allowanceKey(owner, spender))
	checkAmount(current)

	result := 0
	if amount < current {
		result = current - amount
	}
	setAllowance(ctx, owner, spender, result)

	runtime.Notify("Approval", owner, spender, result)

	return true
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func postTransfer(from, to interop.Hash160, amount int, data any) {
	runtime.Notify("Transfer", from, to, amount)

	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}

// credit adds amount to the spendable balance of the holder after folding
// its matured locks.
func credit(ctx storage.Context, holder interop.Hash160, amount int) {
	checkAmount(amount)

	balance := sweep(ctx, holder)
	storage.Put(ctx, balanceKey(holder), balance+amount)
}

// debit subtracts amount from the spendable balance of the holder after
// folding its matured locks.
func debit(ctx storage.Context, holder interop.Hash160, amount int) {
	checkAmount(amount)

	balance := sweep(ctx, holder)
	if balance < amount {
		panic(tokenconst.ErrInsufficientBalance)
	}
	storage.Put(ctx, balanceKey(holder), balance-amount)
}

// lockFunds puts amount into the holder's lock maturing at until. Locks with
// the same maturity are merged. Amount is credited directly if until is not in
// the future.
func lockFunds(ctx storage.Context, holder interop.Hash160, amount int, until int) {
	checkAmount(amount)

	if until <= runtime.GetTime() {
		credit(ctx, holder, amount)
		return
	}

	sweep(ctx, holder)

	if amount == 0 {
		return
	}

	var (
		key  = lockKey(holder, until)
		lock = Lock{Until: until}
	)

	data := storage.Get(ctx, key)
	if data != nil {
		lock = std.Deserialize(data.([]byte)).(Lock)
	}
	lock.Amount += amount

	common.SetSerialized(ctx, key, lock)
}

// sweep moves all matured locks of the holder into its spendable balance and
// returns the resulting balance. Storage is untouched if nothing matured.
func sweep(ctx storage.Context, holder interop.Hash160) int {
	var (
		now     = runtime.GetTime()
		balance = getBalance(ctx, holder)
		matured []int
	)

	it := storage.Find(ctx, lockPrefix(holder), storage.ValuesOnly|storage.DeserializeValues)
	for iterator.Next(it) {
		lock := iterator.Value(it).(Lock)
		if lock.Until <= now {
			balance += lock.Amount
			matured = append(matured, lock.Until)
		}
	}

	if len(matured) == 0 {
		return balance
	}

	for i := range matured {
		storage.Delete(ctx, lockKey(holder, matured[i]))
	}
	storage.Put(ctx, balanceKey(holder), balance)

	return balance
}

// lockedAmounts returns sums of matured and pending locks of the holder at
// the given time.
func lockedAmounts(ctx storage.Context, holder interop.Hash160, now int) (int, int) {
	var matured, pending int

	it := storage.Find(ctx, lockPrefix(holder), storage.ValuesOnly|storage.DeserializeValues)
	for iterator.Next(it) {
		lock := iterator.Value(it).(Lock)
		if lock.Until <= now {
			matured += lock.Amount
		} else {
			pending += lock.Amount
		}
	}

	return matured, pending
}

func getBalance(ctx storage.Context, holder interop.Hash160) int {
	return common.GetInt(ctx, balanceKey(holder))
}

// setAllowance stores allowance value, zero allowance is removed from the
// storage.
func setAllowance(ctx storage.Context, owner, spender interop.Hash160, amount int) {
	checkAmount(amount)

	key := allowanceKey(owner, spender)
	if amount == 0 {
		storage.Delete(ctx, key)
		return
	}

	storage.Put(ctx, key, amount)
}

func checkAmount(amount int) {
	checkArgument(amount)
	if amount < 0 {
		panic(tokenconst.ErrInvalidAmount)
	}
}

// checkArgument panics if the VM passed Null instead of the argument value.
func checkArgument(arg any) {
	if arg == nil {
		panic(tokenconst.ErrMissingArgument)
	}
}

func checkAccount(acc interop.Hash160) {
	if len(acc) == 0 {
		panic(tokenconst.ErrMissingArgument)
	}
	if len(acc) != interop.Hash160Len {
		panic(tokenconst.ErrInvalidAccount)
	}
}

func balanceKey(holder interop.Hash160) []byte {
	return append([]byte{tokenconst.BalancePrefix}, holder...)
}

func allowanceKey(owner, spender interop.Hash160) []byte {
	return append(append([]byte{tokenconst.AllowancePrefix}, owner...), spender...)
}

func lockPrefix(holder interop.Hash160) []byte {
	return append([]byte{tokenconst.LockPrefix}, holder...)
}

func lockKey(holder interop.Hash160, until int) []byte {
	return append(lockPrefix(holder), convert.ToBytes(until)...)
}
