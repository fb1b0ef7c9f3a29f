/*
Package contracts provides access to compiled token contract artifacts.

Artifacts are a NEF file and a JSON manifest produced by the neo-go compiler,
they're stored under the same directory of any [fs.FS], for example:

	token/contract.nef
	token/manifest.json
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest/standard"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	// TokenDir is a default directory of the token contract artifacts.
	TokenDir = "token"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about Neo contract read from the artifacts.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")

	// ErrNotNEP17 is returned by GetToken when the manifest doesn't declare
	// NEP-17 support.
	ErrNotNEP17 = errors.New("contract is not NEP-17")
)

// GetToken reads token contract artifacts from TokenDir of the given FS and
// checks that the manifest declares and implements NEP-17 standard.
func GetToken(fsys fs.FS) (Contract, error) {
	c, err := Read(fsys, TokenDir)
	if err != nil {
		return c, fmt.Errorf("read contract %s: %w", TokenDir, err)
	}

	if !slices.Contains(c.Manifest.SupportedStandards, manifest.NEP17StandardName) {
		return c, ErrNotNEP17
	}

	err = standard.CheckABI(&c.Manifest, manifest.NEP17StandardName)
	if err != nil {
		return c, fmt.Errorf("%w: %w", ErrNotNEP17, err)
	}

	return c, nil
}

// Read reads NEF and manifest of a contract stored in the dir of the given FS.
func Read(fsys fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS paths are always slash-separated, so filepath.Join() is not
	// applicable.
	fNEF, err := fsys.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := fsys.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}
