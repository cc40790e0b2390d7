package types

// Operation identifies one of the remote inference operations
type Operation int

const (
	// Classify returns a label and confidence for an image
	Classify Operation = iota
	// Denoise returns a cleaned copy of an image
	Denoise
)

// Operations lists every operation in display order
var Operations = []Operation{Classify, Denoise}

func (o Operation) String() string {
	switch o {
	case Classify:
		return "classify"
	case Denoise:
		return "denoise"
	}
	return "unknown"
}

// Noun returns the operation name used in user-facing messages
func (o Operation) Noun() string {
	switch o {
	case Classify:
		return "classification"
	case Denoise:
		return "denoising"
	}
	return "operation"
}

// OperationState is the lifecycle state of one operation
type OperationState int

const (
	Idle OperationState = iota
	Busy
	Succeeded
	Failed
)

func (s OperationState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Busy:
		return "busy"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}
