package main

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	for _, tc := range []struct {
		s        string
		decimals int
		expected int64
	}{
		{"0", 8, 0},
		{"1", 0, 1},
		{"12.5", 2, 1250},
		{"12.50", 2, 1250},
		{"0.00000001", 8, 1},
		{"1000", 2, 100000},
	} {
		n, err := parseAmount(tc.s, tc.decimals)
		require.NoError(t, err, tc.s)
		require.Equal(t, big.NewInt(tc.expected), n, tc.s)
	}

	_, err := parseAmount("-1", 2)
	require.ErrorIs(t, err, errNegativeAmount)

	_, err = parseAmount("0.001", 2)
	require.ErrorIs(t, err, errFractionalValue)

	_, err = parseAmount("ten", 2)
	require.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "12.5", formatAmount(big.NewInt(1250), 2))
	require.Equal(t, "1000", formatAmount(big.NewInt(100000), 2))
	require.Equal(t, "0.00000001", formatAmount(big.NewInt(1), 8))
	require.Equal(t, "7", formatAmount(big.NewInt(7), 0))
}

func TestFormatTime(t *testing.T) {
	require.Equal(t, "1970-01-01T00:00:01Z", formatTime(big.NewInt(1000)))
}

func TestParseAccount(t *testing.T) {
	h := util.Uint160{1, 2, 3}

	res, err := parseAccount(address.Uint160ToString(h))
	require.NoError(t, err)
	require.Equal(t, h, res)

	res, err = parseAccount(h.StringLE())
	require.NoError(t, err)
	require.Equal(t, h, res)

	_, err = parseAccount("not an account")
	require.Error(t, err)
}

func TestOpenAccount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")

	w, err := wallet.NewWallet(path)
	require.NoError(t, err)

	accs := make([]*wallet.Account, 2)
	for i := range accs {
		accs[i], err = wallet.NewAccount()
		require.NoError(t, err)
		require.NoError(t, accs[i].Encrypt("pass", w.Scrypt))
		w.AddAccount(accs[i])
	}
	require.NoError(t, w.Save())
	w.Close()

	_, err = openAccount("", "", "pass")
	require.ErrorIs(t, err, errNoWallet)

	acc, err := openAccount(path, "", "pass")
	require.NoError(t, err)
	require.Equal(t, accs[0].ScriptHash(), acc.ScriptHash())
	require.NotNil(t, acc.PrivateKey())

	acc, err = openAccount(path, accs[1].Address, "pass")
	require.NoError(t, err)
	require.Equal(t, accs[1].ScriptHash(), acc.ScriptHash())

	_, err = openAccount(path, accs[1].Address, "wrong")
	require.Error(t, err)

	_, err = openAccount(path, address.Uint160ToString(util.Uint160{9}), "pass")
	require.Error(t, err)

	_, err = openAccount(filepath.Join(t.TempDir(), "missing.json"), "", "pass")
	require.Error(t, err)
}
