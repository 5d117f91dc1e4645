package entitlement

// Snapshot is the client's last-known view of the backend's entitlement
// record. It is replaced whole, never patched.
type Snapshot struct {
	IsPro     bool
	Remaining int
}

// IsOutOfUses reports a free device with no uses left. It gates the UI only;
// the backend enforces the quota.
func (s Snapshot) IsOutOfUses() bool {
	return !s.IsPro && s.Remaining <= 0
}

// Entitled reports whether the device may attempt a distill.
func (s Snapshot) Entitled() bool {
	return s.IsPro || s.Remaining > 0
}
