package main

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/nspcc-dev/locktoken-contract/contracts"
	"github.com/nspcc-dev/locktoken-contract/deploy"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
)

var cmdDeploy = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy token contract from the compiled artifacts",
	Long: `Deploy token contract signed by the wallet account. Artifacts directory
must contain token/contract.nef and token/manifest.json files. Command does
nothing if the contract is already deployed by the same account.`,
	Args: cobra.NoArgs,
	RunE: runDeploy,
}

var flagDeploy struct {
	Artifacts string
	Name      string
	Symbol    string
	Decimals  uint8
	Initial   string
	Owner     string
}

func init() {
	cmdMain.AddCommand(cmdDeploy)

	f := cmdDeploy.Flags()
	f.StringVar(&flagDeploy.Artifacts, "artifacts", ".", "Directory with compiled contracts")
	f.StringVar(&flagDeploy.Name, "name", "", "Token name")
	f.StringVar(&flagDeploy.Symbol, "symbol", "", "Token symbol")
	f.Uint8Var(&flagDeploy.Decimals, "decimals", 8, "Token decimals")
	f.StringVar(&flagDeploy.Initial, "initial", "", "Initial amount in whole tokens, total supply is initial*10^decimals")
	f.StringVar(&flagDeploy.Owner, "owner", "", "Address receiving the initial supply (transaction sender if empty)")

	_ = cmdDeploy.MarkFlagRequired("name")
	_ = cmdDeploy.MarkFlagRequired("symbol")
	_ = cmdDeploy.MarkFlagRequired("initial")
}

func tokenConfigFromFlags() (deploy.TokenConfig, error) {
	initial, ok := new(big.Int).SetString(flagDeploy.Initial, 10)
	if !ok {
		return deploy.TokenConfig{}, fmt.Errorf("invalid initial amount %q", flagDeploy.Initial)
	}

	var owner util.Uint160
	if flagDeploy.Owner != "" {
		var err error
		owner, err = address.StringToUint160(flagDeploy.Owner)
		if err != nil {
			return deploy.TokenConfig{}, fmt.Errorf("invalid owner address: %w", err)
		}
	}

	c := deploy.TokenConfig{
		Name:          flagDeploy.Name,
		Symbol:        flagDeploy.Symbol,
		Decimals:      flagDeploy.Decimals,
		InitialAmount: initial,
		Owner:         owner,
	}

	return c, c.Validate()
}

func runDeploy(cmd *cobra.Command, _ []string) error {
	tokenCfg, err := tokenConfigFromFlags()
	if err != nil {
		return err
	}

	ctr, err := contracts.GetToken(os.DirFS(flagDeploy.Artifacts))
	if err != nil {
		return err
	}

	acc, err := loadAccount()
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetDuration(timeoutKey))
	defer cancel()

	c, err := dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	addr, err := deploy.Token(ctx, deploy.TokenPrm{
		Logger:       log,
		Blockchain:   c,
		LocalAccount: acc,
		Contract: deploy.CommonDeployPrm{
			NEF:      ctr.NEF,
			Manifest: ctr.Manifest,
		},
		Config: tokenCfg,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), addr.StringLE())
	return nil
}
