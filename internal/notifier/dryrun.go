package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
)

// DryRunNotifier prints what would be sent without actually sending
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a new dry-run notifier writing to out (stdout when nil)
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunNotifier{out: out}
}

// Notify prints the message that would be sent
func (n *DryRunNotifier) Notify(_ context.Context, msg Message) error {
	fmt.Fprintln(n.out, "--- Email (dry run) ---")
	fmt.Fprintf(n.out, "To: %s\n", msg.To)
	fmt.Fprintf(n.out, "Subject: %s\n\n", msg.Subject)
	fmt.Fprintln(n.out, msg.Body)
	fmt.Fprintf(n.out, "(Length: %d characters)\n\n", len(msg.Body))
	return nil
}
