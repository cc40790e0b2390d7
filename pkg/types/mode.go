package types

// Mode represents the current mode of the TUI
type Mode int

const (
	// Normal is the default mode: preview, trigger operations, read results
	Normal Mode = iota
	// Browse is the file picker mode for choosing an image
	Browse
)

func (m Mode) String() string {
	if m == Browse {
		return "browse"
	}
	return "normal"
}
