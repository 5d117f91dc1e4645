package identity

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
	"golang.org/x/crypto/blake2b"
)

var ErrNoFingerprint = errors.New("no host fingerprint available")

// HostFingerprinter hashes the machine's host id into an opaque identifier.
// The raw host id never leaves the process.
type HostFingerprinter struct {
	hostID func(ctx context.Context) (string, error)
}

func NewHostFingerprinter() *HostFingerprinter {
	return &HostFingerprinter{hostID: host.HostIDWithContext}
}

func (h *HostFingerprinter) Fingerprint(ctx context.Context) (string, error) {
	raw, err := h.hostID(ctx)
	if err != nil {
		return "", err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrNoFingerprint
	}
	sum := blake2b.Sum256([]byte("distillr-device:" + strings.ToLower(raw)))
	return hex.EncodeToString(sum[:16]), nil
}
