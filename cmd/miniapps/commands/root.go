package commands

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"viralcoin/internal/app"
	"viralcoin/pkg/config"
	"viralcoin/pkg/logger"
)

var (
	envFile     string
	keypairPath string
	network     string
	backendURL  string
	logLevel    string
	assumeYes   bool

	wire *app.Wire
)

// Execute runs the root command.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "miniapps",
		Short:        "ViralCoin wallet front-end and mini-app directory",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnv(envFile); err != nil {
				return err
			}

			cfg := config.Load()
			if keypairPath != "" {
				cfg.Wallet.KeypairPath = keypairPath
			}
			if network != "" {
				cfg.Solana.Network = network
			}
			if backendURL != "" {
				cfg.Backend.BaseURL = backendURL
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if assumeYes {
				cfg.Wallet.AutoApprove = true
			}

			// Logs go to stderr so command output stays pipeable.
			log := logger.New("miniapps",
				logger.WithLevel(logger.ParseLevel(cfg.Log.Level)),
				logger.WithWriter(cmd.ErrOrStderr()),
			)

			w, err := app.NewWire(cfg, log, app.Options{
				Stdin:  cmd.InOrStdin(),
				Prompt: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			w.Init(cmd.Context())
			wire = w
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if wire != nil {
				wire.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env when present)")
	root.PersistentFlags().StringVar(&keypairPath, "keypair", "", "solana-keygen keypair file (default ~/.config/solana/id.json)")
	root.PersistentFlags().StringVarP(&network, "network", "n", "", "cluster: mainnet-beta, devnet or testnet")
	root.PersistentFlags().StringVar(&backendURL, "backend", "", "mini-app backend base URL")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	root.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "approve wallet requests without prompting")

	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(serveCmd(), appsCmd(), walletCmd(), sendCmd())
	return root
}

// loadEnv loads path, or .env when path is empty and the file exists.
func loadEnv(path string) error {
	if path != "" {
		return godotenv.Load(path)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
