package types

// ViewMode is the active tab of a front end
type ViewMode int

const (
	ViewClassify ViewMode = iota
	ViewDenoise
)

// ViewModes lists the tabs in display order
var ViewModes = []ViewMode{ViewClassify, ViewDenoise}

// Operation returns the operation the tab triggers
func (v ViewMode) Operation() Operation {
	if v == ViewDenoise {
		return Denoise
	}
	return Classify
}

// Next returns the following tab, wrapping around
func (v ViewMode) Next() ViewMode {
	return ViewModes[(int(v)+1)%len(ViewModes)]
}

// Label returns the tab caption
func (v ViewMode) Label() string {
	if v == ViewDenoise {
		return "Denoise"
	}
	return "Classify"
}
