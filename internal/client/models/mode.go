package models

// Mode selects which store is authoritative for reads and writes.
type Mode string

const (
	// ModeRemote treats the multi-device document service as authoritative.
	ModeRemote Mode = "remote"
	// ModeLocal treats the single-device cache as authoritative.
	ModeLocal Mode = "local"
)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModeRemote || m == ModeLocal
}
