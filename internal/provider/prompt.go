package provider

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
)

// AutoApprove approves every request.
func AutoApprove(context.Context, Request) bool { return true }

// PromptApprover asks on out and reads a y/N answer from in.
func PromptApprover(in io.Reader, out io.Writer) Approver {
	var mu sync.Mutex
	reader := bufio.NewReader(in)

	return func(ctx context.Context, req Request) bool {
		mu.Lock()
		defer mu.Unlock()

		fmt.Fprintf(out, "%s [y/N]: ", Describe(req))
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

// Describe renders req as a one-line question.
func Describe(req Request) string {
	if req.Kind == RequestConnect {
		return fmt.Sprintf("Connect wallet %s to this app?", req.PublicKey)
	}
	if req.Transaction == nil {
		return "Sign transaction?"
	}

	var parts []string
	for _, inst := range req.Transaction.Message.Instructions {
		if !req.Transaction.Message.AccountKeys[inst.ProgramIDIndex].Equals(solana.SystemProgramID) {
			parts = append(parts, "unknown instruction")
			continue
		}
		accounts, err := inst.ResolveInstructionAccounts(&req.Transaction.Message)
		if err != nil {
			parts = append(parts, "unknown instruction")
			continue
		}
		decoded, err := system.DecodeInstruction(accounts, inst.Data)
		if err != nil {
			parts = append(parts, "unknown instruction")
			continue
		}
		if t, ok := decoded.Impl.(*system.Transfer); ok && t.Lamports != nil {
			parts = append(parts, fmt.Sprintf("transfer %d lamports to %s", *t.Lamports, t.GetRecipientAccount().PublicKey))
			continue
		}
		parts = append(parts, "system instruction")
	}
	return fmt.Sprintf("Sign transaction from %s: %s?", req.PublicKey, strings.Join(parts, ", "))
}
