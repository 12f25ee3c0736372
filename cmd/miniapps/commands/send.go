package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	sendTo     string
	sendAmount string
)

// send --to <address> --amount <sol>: transfer SOL from the keypair wallet.
func sendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send SOL to an address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Connect explicitly when the silent reconnect did not.
			if _, ok := wire.Wallet.Address(); !ok && wire.Wallet.Provider() != nil {
				if _, err := wire.Wallet.Connect(cmd.Context()); err != nil {
					return err
				}
			}

			outcome, err := wire.Transfers.SubmitText(cmd.Context(), sendTo, sendAmount)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "signature: %s\n", outcome.Signature)
			fmt.Fprintf(out, "explorer:  %s\n", outcome.ExplorerURL)
			return nil
		},
	}
	cmd.Flags().StringVar(&sendTo, "to", "", "recipient address (base58)")
	cmd.Flags().StringVar(&sendAmount, "amount", "", "amount in SOL, e.g. 0.25")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
