// Package tokenconst contains constants shared by the token contract and its
// off-chain clients.
package tokenconst

// Exception messages the contract FAULTs with.
const (
	// ErrInvalidAmount is thrown when an amount or an allowance is negative.
	ErrInvalidAmount = "invalid amount"
	// ErrInsufficientBalance is thrown when a debit exceeds the spendable
	// balance of the holder.
	ErrInsufficientBalance = "insufficient balance"
	// ErrInsufficientAllowance is thrown when transferFrom exceeds the amount
	// approved by the owner.
	ErrInsufficientAllowance = "insufficient allowance"
	// ErrMissingArgument is thrown when a required argument is null.
	ErrMissingArgument = "missing argument"
	// ErrInvalidAccount is thrown when an account is not a 20-byte script hash.
	ErrInvalidAccount = "invalid account"
)

// Notification names.
const (
	TransferEvent = "Transfer"
	ApprovalEvent = "Approval"
)

// Storage layout.
const (
	BalancePrefix   = 'b'
	AllowancePrefix = 'a'
	LockPrefix      = 'l'

	NameKey        = "name"
	SymbolKey      = "symbol"
	DecimalsKey    = "decimals"
	TotalSupplyKey = "totalSupply"
)
