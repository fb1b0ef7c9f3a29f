package contracts

import (
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest/standard"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/stretchr/testify/require"
)

var (
	nefPath      = TokenDir + "/" + nefName
	manifestPath = TokenDir + "/" + manifestName
)

func TestGetMissingFiles(t *testing.T) {
	_fs := fstest.MapFS{}

	// Missing NEF
	_, err := GetToken(_fs)
	require.Error(t, err)

	// Missing manifest.
	_fs[nefPath] = &fstest.MapFile{}
	_, err = GetToken(_fs)
	require.Error(t, err)
}

func TestReadInvalidFormat(t *testing.T) {
	_fs := fstest.MapFS{}

	_, validNEF := anyValidNEF(t)
	_, validManifest := anyValidManifest(t, "zero")

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	_, err := Read(_fs, TokenDir)
	require.NoError(t, err)

	_fs[nefPath] = &fstest.MapFile{Data: []byte("not a NEF")}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	_, err = Read(_fs, TokenDir)
	require.ErrorIs(t, err, errInvalidNEF)

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: []byte("not a manifest")}

	_, err = Read(_fs, TokenDir)
	require.ErrorIs(t, err, errInvalidManifest)
}

func TestGetToken(t *testing.T) {
	_, validNEF := anyValidNEF(t)

	t.Run("no standard", func(t *testing.T) {
		_, m := anyValidManifest(t, "zero")
		_, err := GetToken(fstest.MapFS{
			nefPath:      &fstest.MapFile{Data: validNEF},
			manifestPath: &fstest.MapFile{Data: m},
		})
		require.ErrorIs(t, err, ErrNotNEP17)
	})
	t.Run("declared but not implemented", func(t *testing.T) {
		m := manifest.NewManifest("token")
		m.SupportedStandards = []string{manifest.NEP17StandardName}

		_, err := GetToken(fstest.MapFS{
			nefPath:      &fstest.MapFile{Data: validNEF},
			manifestPath: &fstest.MapFile{Data: marshalManifest(t, m)},
		})
		require.ErrorIs(t, err, ErrNotNEP17)
	})
	t.Run("valid", func(t *testing.T) {
		m := manifest.NewManifest("token")
		m.SupportedStandards = []string{manifest.NEP17StandardName}
		m.ABI = nep17ABI()

		c, err := GetToken(fstest.MapFS{
			nefPath:      &fstest.MapFile{Data: validNEF},
			manifestPath: &fstest.MapFile{Data: marshalManifest(t, m)},
		})
		require.NoError(t, err)
		require.Equal(t, "token", c.Manifest.Name)
	})
}

// nep17ABI returns ABI declaring all methods and events of NEP-17 and its
// base standards.
func nep17ABI() manifest.ABI {
	var abi manifest.ABI
	for st := standard.Nep17; st != nil; st = st.Base {
		abi.Methods = append(abi.Methods, st.ABI.Methods...)
		abi.Events = append(abi.Events, st.ABI.Events...)
	}
	return abi
}

func marshalManifest(tb testing.TB, m *manifest.Manifest) []byte {
	b, err := json.Marshal(m)
	require.NoError(tb, err)
	return b
}

func anyValidNEF(tb testing.TB) (nef.File, []byte) {
	script := make([]byte, 32)

	_nef, err := nef.NewFile(script)
	require.NoError(tb, err)

	bNEF, err := _nef.Bytes()
	require.NoError(tb, err)

	return *_nef, bNEF
}

func anyValidManifest(tb testing.TB, name string) (manifest.Manifest, []byte) {
	_manifest := manifest.NewManifest(name)

	return *_manifest, marshalManifest(tb, _manifest)
}
