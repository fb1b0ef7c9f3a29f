package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	rpcEndpointKey    = "rpc-endpoint"
	logLevelKey       = "log-level"
	timeoutKey        = "timeout"
	walletKey         = "wallet"
	walletAddressKey  = "wallet-address"
	walletPasswordKey = "wallet-password"
)

// cfg merges command line flags with LOCKTOKEN_* environment variables.
var cfg = viper.New()

var cmdMain = &cobra.Command{
	Use:           "locktoken",
	Short:         "Time-locked NEP-17 token utility",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := cmdMain.PersistentFlags()
	f.StringP(rpcEndpointKey, "r", "http://localhost:30333", "Neo RPC endpoint")
	f.String(logLevelKey, "info", "Logging level (debug, info, warn, error)")
	f.Duration(timeoutKey, time.Minute, "Timeout for transaction acceptance")
	f.StringP(walletKey, "w", "", "Path to the NEP-6 wallet used for signing")
	f.String(walletAddressKey, "", "Wallet account address (first account if empty)")
	f.String(walletPasswordKey, "", "Wallet account password (prefer LOCKTOKEN_WALLET_PASSWORD)")

	err := cfg.BindPFlags(f)
	if err != nil {
		panic(err)
	}

	cfg.SetEnvPrefix("locktoken")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()
}

func main() {
	err := cmdMain.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	var lvl zapcore.Level
	err := lvl.UnmarshalText([]byte(cfg.GetString(logLevelKey)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(lvl)
	c.Encoding = "console"
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return c.Build()
}

// dial opens RPC client connection, all requests are limited by 15s timeout.
func dial(ctx context.Context) (*rpcclient.Client, error) {
	endpoint := cfg.GetString(rpcEndpointKey)

	c, err := rpcclient.New(ctx, endpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial %s: %w", endpoint, err)
	}

	return c, nil
}
