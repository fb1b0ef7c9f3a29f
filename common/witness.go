package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

const (
	// ErrCommitteeWitnessFailed appears when the method must be
	// called by the network committee but was not.
	ErrCommitteeWitnessFailed = "committee witness check failed"
	// ErrOwnerWitnessFailed appears when the method must be called
	// by an owner of some assets but was not.
	ErrOwnerWitnessFailed = "owner witness check failed"
)

// CheckCommitteeWitness checks witness of the current committee multisignature
// account. It panics with ErrCommitteeWitnessFailed message on fail.
func CheckCommitteeWitness() {
	if !runtime.CheckWitness(CommitteeAddress()) {
		panic(ErrCommitteeWitnessFailed)
	}
}

// CheckOwnerWitness checks that the passed account either signed the
// transaction or is the contract calling the current one. It panics with
// ErrOwnerWitnessFailed message on fail.
func CheckOwnerWitness(owner interop.Hash160) {
	if !IsUsableAddress(owner) {
		panic(ErrOwnerWitnessFailed)
	}
}

// IsUsableAddress checks if the sender is either a correct NEO address or SC address.
func IsUsableAddress(addr interop.Hash160) bool {
	if runtime.CheckWitness(addr) {
		return true
	}

	// Contracts spend their own assets by calling the token directly.
	return runtime.GetCallingScriptHash().Equals(addr)
}
