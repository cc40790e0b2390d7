// Package presenter maps operation outcomes into display data. It has no
// side effects; front ends render the View it returns.
package presenter

import (
	"fmt"

	"imglab/internal/errors"
	"imglab/pkg/types"
)

// ProgressText is shown while a request is in flight
const ProgressText = "Processing..."

// View is the display data for one operation pane
type View struct {
	Title    string
	Lines    []string
	ImageRef string
	Notice   string
	Cause    string
	Progress string
}

// Empty reports whether the view has nothing to show beyond its title
func (v View) Empty() bool {
	return len(v.Lines) == 0 && v.ImageRef == "" && v.Notice == "" && v.Progress == ""
}

// Outcome holds the latest result of an operation, if any
type Outcome struct {
	Classification *types.ClassificationResult
	Denoised       *types.DenoisedImage
	Err            error
}

// FormatConfidence renders a [0,1] confidence as a percentage with two
// decimals
func FormatConfidence(c float64) string {
	return fmt.Sprintf("%.2f%%", c*100)
}

// Title returns the pane title for op
func Title(op types.Operation) string {
	switch op {
	case types.Classify:
		return "Image Classification"
	case types.Denoise:
		return "Image Denoising"
	}
	return "Result"
}

// Classification presents a classification result
func Classification(r *types.ClassificationResult) View {
	v := View{Title: Title(types.Classify)}
	if r == nil {
		return v
	}
	v.Lines = []string{
		"Predicted Class: " + r.Label,
		"Confidence: " + FormatConfidence(r.Confidence),
	}
	return v
}

// Denoised presents a denoised image by its display reference
func Denoised(img *types.DenoisedImage) View {
	v := View{Title: Title(types.Denoise)}
	if img == nil {
		return v
	}
	v.ImageRef = img.Ref
	v.Lines = []string{"Denoised Image:"}
	return v
}

// Failure presents a failed operation
func Failure(op types.Operation, err error) View {
	return View{
		Title:  Title(op),
		Notice: "An error occurred during " + op.Noun(),
		Cause:  Cause(err),
	}
}

// Pending presents an operation in flight
func Pending(op types.Operation) View {
	return View{Title: Title(op), Progress: ProgressText}
}

// Cause describes err for a user
func Cause(err error) string {
	if err == nil {
		return ""
	}
	var opErr *errors.OperationError
	switch errors.KindOf(err) {
	case errors.NoFileSelected:
		return "Please select an image file first."
	case errors.Busy:
		return "Another request is still in progress."
	case errors.OperationFailed:
		if errors.As(err, &opErr) && opErr.Status() != 0 {
			if opErr.Detail() != "" {
				return fmt.Sprintf("The service answered %d: %s", opErr.Status(), opErr.Detail())
			}
			return fmt.Sprintf("The service answered %d.", opErr.Status())
		}
	case errors.MalformedResponse:
		return "The service returned an unexpected response."
	case errors.TransportFailed:
		return "The service could not be reached."
	}
	return err.Error()
}

// Render chooses the view for op from its state and latest outcome. A
// failure notice takes precedence over a result left by an earlier request.
func Render(op types.Operation, state types.OperationState, out Outcome) View {
	switch {
	case state == types.Busy:
		return Pending(op)
	case state == types.Failed && out.Err != nil:
		return Failure(op, out.Err)
	}

	switch op {
	case types.Classify:
		return Classification(out.Classification)
	case types.Denoise:
		return Denoised(out.Denoised)
	}
	return View{Title: Title(op)}
}
