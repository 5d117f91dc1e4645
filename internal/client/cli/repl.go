package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a stub.
type execIface interface {
	Status(ctx context.Context) error
	Distill(ctx context.Context, url string) error
	Purchase(ctx context.Context) error
	Device(ctx context.Context) error
}

const helpText = "Available commands: status, distill <url>, purchase, device, help, exit"

// runREPL reads commands line by line from reader until EOF or exit.
//
//	status            show remaining daily uses or PRO
//	distill <url>     summarise a page (alias: d)
//	purchase          buy Distillr PRO (alias: buy)
//	device            show device id, session and purchase flow
//	help              list commands
//	exit | quit       leave the program
//
// Command errors are reported by the handlers themselves and do not stop
// the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "distillr %s> ", statusFn())
		line, err := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) > 0 && !dispatch(ctx, a, parts, w) {
			return
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintln(w, "input error:", err)
			}
			return
		}
	}
}

// dispatch runs one command and reports whether the session should go on.
func dispatch(ctx context.Context, a execIface, parts []string, w io.Writer) bool {
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "help":
		fmt.Fprintln(w, helpText)

	case "status":
		_ = a.Status(ctx)

	case "d", "distill":
		url := ""
		if len(args) > 0 {
			url = args[0]
		}
		_ = a.Distill(ctx, url)

	case "buy", "purchase":
		_ = a.Purchase(ctx)

	case "device":
		_ = a.Device(ctx)

	case "exit", "quit":
		fmt.Fprintln(w, "Bye!")
		return false

	default:
		fmt.Fprintln(w, "Unknown command:", cmd)
	}
	return true
}
