package main

import (
	"fmt"
	"math/big"
	"text/tabwriter"
	"time"

	rpctoken "github.com/nspcc-dev/locktoken-contract/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
)

var cmdInfo = &cobra.Command{
	Use:   "info <contract>",
	Short: "Print token metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var cmdBalance = &cobra.Command{
	Use:   "balance <contract> <account>",
	Short: "Print spendable and locked balances of the account",
	Args:  cobra.ExactArgs(2),
	RunE:  runBalance,
}

var cmdLocks = &cobra.Command{
	Use:   "locks <contract> <account>",
	Short: "List time-locked deposits of the account",
	Args:  cobra.ExactArgs(2),
	RunE:  runLocks,
}

var cmdTransfer = &cobra.Command{
	Use:   "transfer <contract> <to> <amount>",
	Short: "Transfer tokens from the wallet account",
	Long: `Transfer tokens from the wallet account. Amount is given in whole tokens
and may have up to 'decimals' fractional digits. With --lock-for the funds
stay locked for the receiver until the given period passes.`,
	Args: cobra.ExactArgs(3),
	RunE: runTransfer,
}

var flagLocks struct {
	All   bool
	Limit int
}

var flagTransfer struct {
	LockFor time.Duration
}

func init() {
	cmdMain.AddCommand(cmdInfo, cmdBalance, cmdLocks, cmdTransfer)

	cmdLocks.Flags().BoolVar(&flagLocks.All, "all", false, "Include matured deposits not yet folded into the balance")
	cmdLocks.Flags().IntVar(&flagLocks.Limit, "limit", 1000, "Maximum number of deposits to fetch")

	cmdTransfer.Flags().DurationVar(&flagTransfer.LockFor, "lock-for", 0, "Lock transferred funds for the given period")
}

// reader returns token reader of the contract given as the first argument.
func reader(cmd *cobra.Command, args []string) (*rpcclient.Client, *rpctoken.ContractReader, error) {
	h, err := util.Uint160DecodeStringLE(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("invalid contract hash: %w", err)
	}

	c, err := dial(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	return c, rpctoken.NewReader(invoker.New(c, nil), h), nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	c, r, err := reader(cmd, args)
	if err != nil {
		return err
	}
	defer c.Close()

	name, err := r.Name()
	if err != nil {
		return fmt.Errorf("get name: %w", err)
	}
	symbol, err := r.Symbol()
	if err != nil {
		return fmt.Errorf("get symbol: %w", err)
	}
	decimals, err := r.Decimals()
	if err != nil {
		return fmt.Errorf("get decimals: %w", err)
	}
	supply, err := r.TotalSupply()
	if err != nil {
		return fmt.Errorf("get total supply: %w", err)
	}
	version, err := r.Version()
	if err != nil {
		return fmt.Errorf("get version: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 1, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", name)
	fmt.Fprintf(w, "Symbol:\t%s\n", symbol)
	fmt.Fprintf(w, "Decimals:\t%d\n", decimals)
	fmt.Fprintf(w, "Total supply:\t%s\n", formatAmount(supply, decimals))
	fmt.Fprintf(w, "Version:\t%s\n", version)
	return w.Flush()
}

func runBalance(cmd *cobra.Command, args []string) error {
	acc, err := parseAccount(args[1])
	if err != nil {
		return err
	}

	c, r, err := reader(cmd, args)
	if err != nil {
		return err
	}
	defer c.Close()

	decimals, err := r.Decimals()
	if err != nil {
		return fmt.Errorf("get decimals: %w", err)
	}
	balance, err := r.BalanceOf(acc)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}
	locked, err := r.LockedBalanceOf(acc)
	if err != nil {
		return fmt.Errorf("get locked balance: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 1, ' ', 0)
	fmt.Fprintf(w, "Balance:\t%s\n", formatAmount(balance, decimals))
	fmt.Fprintf(w, "Locked:\t%s\n", formatAmount(locked, decimals))
	return w.Flush()
}

func runLocks(cmd *cobra.Command, args []string) error {
	acc, err := parseAccount(args[1])
	if err != nil {
		return err
	}

	c, r, err := reader(cmd, args)
	if err != nil {
		return err
	}
	defer c.Close()

	decimals, err := r.Decimals()
	if err != nil {
		return fmt.Errorf("get decimals: %w", err)
	}
	locks, err := r.ListLocks(acc, flagLocks.Limit)
	if err != nil {
		return fmt.Errorf("list locks: %w", err)
	}
	if !flagLocks.All {
		locks = rpctoken.Pending(locks, nowMillis())
	}

	printLocks(cmd, locks, decimals)
	return nil
}

func printLocks(cmd *cobra.Command, locks []*rpctoken.Lock, decimals int) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "UNTIL\tAMOUNT")
	for _, l := range locks {
		fmt.Fprintf(w, "%s\t%s\n", formatTime(l.Until), formatAmount(l.Amount, decimals))
	}
	_ = w.Flush()
}

func runTransfer(cmd *cobra.Command, args []string) error {
	if flagTransfer.LockFor < 0 {
		return fmt.Errorf("negative lock period %s", flagTransfer.LockFor)
	}

	h, err := util.Uint160DecodeStringLE(args[0])
	if err != nil {
		return fmt.Errorf("invalid contract hash: %w", err)
	}
	to, err := parseAccount(args[1])
	if err != nil {
		return err
	}

	acc, err := loadAccount()
	if err != nil {
		return err
	}

	c, err := dial(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	act, err := newActor(c, acc)
	if err != nil {
		return fmt.Errorf("init actor: %w", err)
	}
	tok := rpctoken.New(act, h)

	decimals, err := tok.Decimals()
	if err != nil {
		return fmt.Errorf("get decimals: %w", err)
	}
	amount, err := parseAmount(args[2], decimals)
	if err != nil {
		return err
	}

	var (
		txHash util.Uint256
		vub    uint32
	)
	if flagTransfer.LockFor > 0 {
		until := new(big.Int).Add(nowMillis(), big.NewInt(flagTransfer.LockFor.Milliseconds()))
		txHash, vub, err = tok.TransferLocked(acc.ScriptHash(), to, amount, until)
	} else {
		txHash, vub, err = tok.Transfer(acc.ScriptHash(), to, amount, nil)
	}

	err = waitTx(act, txHash, vub, err)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), txHash.StringLE())
	return nil
}
