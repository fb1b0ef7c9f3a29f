package deploy

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	rpctoken "github.com/nspcc-dev/locktoken-contract/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the token deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// MaxDecimals is the maximum token precision accepted by TokenConfig.
const MaxDecimals = 32

// TokenConfig groups initial settings of the token passed to the contract on
// deployment.
type TokenConfig struct {
	Name   string
	Symbol string
	// Precision of the token, total supply is InitialAmount * 10^Decimals base
	// units.
	Decimals uint8
	// Amount of whole tokens minted once at deployment.
	InitialAmount *big.Int
	// Account receiving minted tokens. Zero value means transaction sender.
	Owner util.Uint160
}

var (
	errEmptyName     = errors.New("empty token name")
	errEmptySymbol   = errors.New("empty token symbol")
	errDecimals      = fmt.Errorf("decimals exceed %d", MaxDecimals)
	errInitialAmount = errors.New("missing or negative initial amount")
)

// unknownContractSubstr is returned by RPC servers for missing contracts.
const unknownContractSubstr = "Unknown contract"

// Validate checks that c can be used for the token deployment.
func (c TokenConfig) Validate() error {
	switch {
	case c.Name == "":
		return errEmptyName
	case strings.TrimSpace(c.Symbol) == "":
		return errEmptySymbol
	case c.Decimals > MaxDecimals:
		return errDecimals
	case c.InitialAmount == nil || c.InitialAmount.Sign() < 0:
		return errInitialAmount
	}
	return nil
}

// deployData builds `_deploy` argument of the token contract.
func (c TokenConfig) deployData() []any {
	data := []any{c.Name, c.Symbol, int64(c.Decimals), c.InitialAmount}
	if !c.Owner.Equals(util.Uint160{}) {
		data = append(data, c.Owner)
	}
	return data
}

// TokenPrm groups parameters of the token deployment procedure.
type TokenPrm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance the token is deployed to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// Contract address depends on it.
	LocalAccount *wallet.Account

	Contract CommonDeployPrm
	Config   TokenConfig
}

// Token deploys the token contract and returns its address. If the contract
// is already deployed by the local account, its address is returned without
// sending any transaction, so Token can be safely retried.
//
// Token waits for the deployment transaction to be accepted until ctx is done.
// Contract exceptions are returned as errors of the rpc/token package.
func Token(ctx context.Context, prm TokenPrm) (util.Uint160, error) {
	err := prm.Config.Validate()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid token config: %w", err)
	}

	addr := state.CreateContractHash(prm.LocalAccount.ScriptHash(), prm.Contract.NEF.Checksum, prm.Contract.Manifest.Name)
	l := prm.Logger.With(zap.Stringer("address", addr))

	onChain, err := prm.Blockchain.GetContractStateByHash(addr)
	if err == nil {
		if onChain.NEF.Checksum != prm.Contract.NEF.Checksum {
			l.Warn("on-chain token contract differs from the local one, update is required",
				zap.Uint32("on-chain checksum", onChain.NEF.Checksum),
				zap.Uint32("local checksum", prm.Contract.NEF.Checksum))
		} else {
			l.Info("token contract is already deployed")
		}
		return addr, nil
	}
	if !strings.Contains(err.Error(), unknownContractSubstr) {
		return util.Uint160{}, fmt.Errorf("get token contract state: %w", err)
	}

	height, err := prm.Blockchain.GetBlockCount()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("get current blockchain height: %w", err)
	}

	act, err := actor.NewTuned(prm.Blockchain, []actor.SignerAccount{{
		Signer: transaction.Signer{
			Account: prm.LocalAccount.ScriptHash(),
			Scopes:  transaction.CalledByEntry,
		},
		Account: prm.LocalAccount,
	}}, actor.Options{
		CheckerModifier: deployTransactionModifier(func() uint32 { return height }),
	})
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	l.Info("sending token deployment transaction...",
		zap.String("name", prm.Config.Name), zap.String("symbol", prm.Config.Symbol))

	txHash, vub, err := management.New(act).Deploy(&prm.Contract.NEF, &prm.Contract.Manifest, prm.Config.deployData())
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send deployment transaction: %w", err)
	}

	l.Info("token deployment transaction sent, waiting for acceptance...",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	res, err := act.WaitAny(ctx, vub, txHash)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for deployment transaction %s: %w", txHash, err)
	}

	err = checkExecution(res)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("deployment transaction %s: %w", txHash, err)
	}

	l.Info("token contract successfully deployed", zap.Stringer("tx", txHash))

	return addr, nil
}

func checkExecution(res *state.AppExecResult) error {
	if res.VMState == vmstate.Halt {
		return nil
	}

	log := result.ApplicationLog{Executions: []state.Execution{res.Execution}}
	return rpctoken.CheckApplicationLog(&log)
}

// returns actor.TransactionCheckerModifier which checks that invocation
// finished with 'HALT' state (contract exceptions are classified by the
// rpc/token package) and, if so, sets transaction's nonce and
// ValidUntilBlock to 100*N and 100*(N+1) correspondingly, where
// 100*N <= current height < 100*(N+1). Retries within the same span produce
// the same transaction.
func deployTransactionModifier(getBlockchainHeight func() uint32) actor.TransactionCheckerModifier {
	return func(r *result.Invoke, tx *transaction.Transaction) error {
		err := actor.DefaultCheckerModifier(r, tx)
		if err != nil {
			if fault := rpctoken.CheckInvoke(r); fault != nil {
				return fault
			}
			return err
		}

		curHeight := getBlockchainHeight()
		const span = 100
		n := curHeight / span

		tx.Nonce = n * span

		if math.MaxUint32-span > tx.Nonce {
			tx.ValidUntilBlock = tx.Nonce + span
		} else {
			tx.ValidUntilBlock = math.MaxUint32
		}

		return nil
	}
}
