// Package cli provides the interactive Distillr command-line client.
//
// It wires configuration, local storage, the RPC client and the entitlement,
// distill and purchase components into a REPL. On start it resolves the
// device id, signs in anonymously in the background and polls the backend
// until the entitlement is known. One-shot commands given on the command
// line ("distill <url>", "status", "purchase", "device") run once and exit.
package cli
