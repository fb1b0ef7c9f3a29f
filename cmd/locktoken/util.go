package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	rpctoken "github.com/nspcc-dev/locktoken-contract/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/shopspring/decimal"
)

var (
	errNoWallet        = errors.New("wallet is not specified")
	errEmptyWallet     = errors.New("wallet has no accounts")
	errNegativeAmount  = errors.New("amount must not be negative")
	errFractionalValue = errors.New("amount has more fractional digits than token decimals")
)

// loadAccount opens the wallet configured via flags or environment and
// returns decrypted account.
func loadAccount() (*wallet.Account, error) {
	return openAccount(cfg.GetString(walletKey), cfg.GetString(walletAddressKey), cfg.GetString(walletPasswordKey))
}

func openAccount(path, addr, password string) (*wallet.Account, error) {
	if path == "" {
		return nil, errNoWallet
	}

	w, err := wallet.NewWalletFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	var acc *wallet.Account
	if addr == "" {
		if len(w.Accounts) == 0 {
			return nil, errEmptyWallet
		}
		acc = w.Accounts[0]
	} else {
		h, err := address.StringToUint160(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid wallet address: %w", err)
		}

		acc = w.GetAccount(h)
		if acc == nil {
			return nil, fmt.Errorf("account %s is missing in the wallet", addr)
		}
	}

	err = acc.Decrypt(password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	return acc, nil
}

// parseAccount accepts both Neo address and little-endian script hash.
func parseAccount(s string) (util.Uint160, error) {
	h, err := address.StringToUint160(s)
	if err == nil {
		return h, nil
	}

	h, err = util.Uint160DecodeStringLE(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid account %q: neither address nor script hash", s)
	}

	return h, nil
}

// parseAmount converts decimal token amount into integer base units.
func parseAmount(s string, decimals int) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return nil, errNegativeAmount
	}

	d = d.Shift(int32(decimals))
	if !d.IsInteger() {
		return nil, errFractionalValue
	}

	return d.BigInt(), nil
}

func formatAmount(n *big.Int, decimals int) string {
	return decimal.NewFromBigInt(n, -int32(decimals)).String()
}

// formatTime prints contract timestamp given in milliseconds.
func formatTime(ms *big.Int) string {
	return time.UnixMilli(ms.Int64()).UTC().Format(time.RFC3339)
}

func nowMillis() *big.Int {
	return big.NewInt(time.Now().UnixMilli())
}

// newActor returns actor signing transactions with CalledByEntry scope of
// the given account. Failed test invocations are reported as rpc/token errors.
func newActor(c *rpcclient.Client, acc *wallet.Account) (*actor.Actor, error) {
	return actor.NewTuned(c, []actor.SignerAccount{{
		Signer: transaction.Signer{
			Account: acc.ScriptHash(),
			Scopes:  transaction.CalledByEntry,
		},
		Account: acc,
	}}, actor.Options{
		CheckerModifier: func(r *result.Invoke, tx *transaction.Transaction) error {
			if err := rpctoken.CheckInvoke(r); err != nil {
				return err
			}
			return actor.DefaultCheckerModifier(r, tx)
		},
	})
}

func waitTx(act *actor.Actor, h util.Uint256, vub uint32, err error) error {
	if err != nil {
		return fmt.Errorf("send transaction: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetDuration(timeoutKey))
	defer cancel()

	res, err := act.WaitAny(ctx, vub, h)
	if err != nil {
		return fmt.Errorf("wait for transaction %s: %w", h.StringLE(), err)
	}
	if res.VMState != vmstate.Halt {
		return fmt.Errorf("transaction %s: %w", h.StringLE(), rpctoken.ClassifyFault(res.FaultException))
	}

	return nil
}
