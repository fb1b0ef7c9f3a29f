package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
)

// Update checks committee witness and replaces the calling contract with the
// given NEF and manifest. Current version is appended to the data passed to
// `_deploy`.
func Update(nefFile, manifest []byte, data any) {
	CheckCommitteeWitness()

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, AppendVersion(data))
}
