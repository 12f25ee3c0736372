package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"viralcoin/internal/domain"
)

// wallet: show the session; wallet connect / disconnect change it.
func walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Show the wallet session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printSession(cmd.OutOrStdout(), wire.Wallet.Session())
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "connect",
		Short: "Connect the keypair wallet, asking for approval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := wire.Wallet.Connect(cmd.Context()); err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), wire.Wallet.Session())
			return nil
		},
	}, &cobra.Command{
		Use:   "disconnect",
		Short: "Disconnect the wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Wallet.Disconnect(cmd.Context()); err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), wire.Wallet.Session())
			return nil
		},
	})

	return cmd
}

func printSession(w io.Writer, s domain.WalletSession) {
	fmt.Fprintf(w, "network:  %s\n", s.Network.Label())
	if !s.HasProvider {
		fmt.Fprintln(w, "wallet:   none found, point --keypair at a solana-keygen file")
		return
	}
	fmt.Fprintf(w, "wallet:   %s\n", s.Provider)
	if s.Address == "" {
		fmt.Fprintln(w, "address:  not connected")
		return
	}
	fmt.Fprintf(w, "address:  %s\n", s.Address)
}
