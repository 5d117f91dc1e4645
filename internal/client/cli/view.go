package cli

import (
	"fmt"
	"io"
)

// termView prints purchase feedback to the terminal.
type termView struct {
	out io.Writer
}

func (v *termView) ShowError(msg string) {
	fmt.Fprintln(v.out, "Error:", msg)
}

func (v *termView) ShowSuccess(msg string) {
	fmt.Fprintln(v.out, msg)
}

func (v *termView) Close() {}
