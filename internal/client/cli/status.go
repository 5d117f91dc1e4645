package cli

import (
	"fmt"

	"github.com/dmitrijs2005/distillr/internal/client/entitlement"
)

const ephemeralWarning = "Warning: this device id could not be saved and will change when the program restarts."

// usesLeft renders the remaining-uses banner of a free device.
func usesLeft(remaining int) string {
	unit := "uses"
	if remaining == 1 {
		unit = "use"
	}
	return fmt.Sprintf("You have %d daily %s left.", remaining, unit)
}

func statusText(snap entitlement.Snapshot, known bool) string {
	switch {
	case !known:
		return "Loading account status..."
	case snap.IsPro:
		return "Distillr PRO: unlimited daily uses."
	case snap.IsOutOfUses():
		return usesLeft(snap.Remaining) + " Type 'purchase' to get PRO."
	default:
		return usesLeft(snap.Remaining)
	}
}

// promptTag is the short status shown in the REPL prompt.
func promptTag(snap entitlement.Snapshot, known bool) string {
	switch {
	case !known:
		return "(connecting)"
	case snap.IsPro:
		return "(PRO)"
	default:
		return fmt.Sprintf("(%d left)", snap.Remaining)
	}
}

func compressionLine(percent string) string {
	return fmt.Sprintf("Distilled to %s%% the length of the original.", percent)
}
