package notifiersvc

import (
	"fmt"
	"io"

	"github.com/darasalabs/darasa/core/operation"
)

// consoleNotifier prints notices to a writer, typically the terminal.
type consoleNotifier struct {
	out io.Writer
}

var _ operation.Notifier = (*consoleNotifier)(nil)

func NewConsoleNotifier(out io.Writer) operation.Notifier {
	return &consoleNotifier{out: out}
}

func (n consoleNotifier) Success(msg string) {
	_, _ = fmt.Fprintf(n.out, "✓ %s\n", msg)
}

func (n consoleNotifier) Error(msg string) {
	_, _ = fmt.Fprintf(n.out, "✗ %s\n", msg)
}
