package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/neo"
)

// CommitteeAddress returns `M = N/2+1` multi signature address of the current
// committee public keys.
func CommitteeAddress() []byte {
	keys := neo.GetCommittee()
	return contract.CreateMultisigAccount(len(keys)/2+1, keys)
}
