// Package verification checks an extraction result for connectivity problems:
// dangling pins, over-connected nets, and components without compact models.
package verification

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"siepic-tools/internal/models"
	"siepic-tools/internal/netlist"
	"siepic-tools/internal/tech"
	"siepic-tools/pkg/geometry"
)

// Severity of a reported issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue codes.
const (
	CodeDanglingPin      = "dangling-pin"
	CodeOverConnected    = "over-connected-net"
	CodeUnderConnected   = "under-connected-net"
	CodeNoCompactModel   = "no-compact-model"
	CodeEmptyExtraction  = "empty-extraction"
)

// Issue is one finding in a verification report.
type Issue struct {
	Severity Severity          `json:"severity"`
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Position *geometry.Point2D `json:"position,omitempty"`
}

// Report summarizes one verification run over one extraction result.
type Report struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Checks  int       `json:"checks"`
	Issues  []Issue   `json:"issues"`
}

// ErrorCount returns the number of error-severity issues.
func (r *Report) ErrorCount() int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-severity issues.
func (r *Report) WarningCount() int {
	return len(r.Issues) - r.ErrorCount()
}

// Clean reports whether verification found no errors (warnings allowed).
func (r *Report) Clean() bool {
	return r.ErrorCount() == 0
}

// Save writes the report to a JSON file.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Verify runs all connectivity checks over an extraction result. The
// technology and model registry are only used for the advisory compact-model
// check and may be nil.
func Verify(x *netlist.Extraction, t *tech.Technology, reg *models.Registry) *Report {
	r := &Report{
		ID:      uuid.NewString(),
		Created: time.Now(),
	}

	// Check 1: dangling pins left on the disconnected sentinel.
	r.Checks++
	for _, ref := range x.DanglingPins() {
		pin := x.Pin(ref)
		comp := x.Components[ref.Component]
		pos := pin.Center
		r.Issues = append(r.Issues, Issue{
			Severity: SeverityError,
			Code:     CodeDanglingPin,
			Message: fmt.Sprintf("pin %q (%s) of %s is not connected",
				pin.Name, pin.Type, comp.Instance),
			Position: &pos,
		})
	}

	// Check 2: arity violations recorded during inference.
	r.Checks++
	for _, ce := range x.Errors {
		code := CodeOverConnected
		if ce.Kind == netlist.UnderConnected {
			code = CodeUnderConnected
		}
		pos := ce.Position
		r.Issues = append(r.Issues, Issue{
			Severity: SeverityError,
			Code:     code,
			Message:  ce.Error(),
			Position: &pos,
		})
	}

	// Check 3: components without compact models (advisory).
	r.Checks++
	for _, c := range x.Components {
		if !c.HasModel(t, reg) {
			r.Issues = append(r.Issues, Issue{
				Severity: SeverityWarning,
				Code:     CodeNoCompactModel,
				Message:  fmt.Sprintf("%s (%s) has no compact model", c.Instance, c.Name),
			})
		}
	}

	// Check 4: an extraction with nothing in it is almost always a wrong
	// region or technology.
	r.Checks++
	if len(x.Components) == 0 {
		r.Issues = append(r.Issues, Issue{
			Severity: SeverityWarning,
			Code:     CodeEmptyExtraction,
			Message:  "no components recognized in the extraction region",
		})
	}

	return r
}
