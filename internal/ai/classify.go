package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/sony/gobreaker"
)

// FailureClass is the enum the decision engine branches on. Raw string
// sniffing stays inside this file; nothing outside the package should ever
// inspect vendor response text.
type FailureClass string

const (
	// FailureConfiguration means credentials are absent. No network attempt
	// was or should be made.
	FailureConfiguration FailureClass = "configuration"

	// FailureNetwork covers transport errors and non-2xx responses.
	FailureNetwork FailureClass = "network"

	// FailureTimeout is an expired call deadline, treated as an ordinary
	// failure rather than a distinguished cancellation.
	FailureTimeout FailureClass = "timeout"

	// FailureRefusal means the vendor answered but declined to decide.
	FailureRefusal FailureClass = "refusal"

	// FailureAccessDenied is the vendor's eligibility error (unpurchased
	// plan and friends). Expected and non-actionable, so logged quietly.
	FailureAccessDenied FailureClass = "access_denied"

	// FailureParse means the response body was not valid decision JSON after
	// code-block stripping.
	FailureParse FailureClass = "parse"

	FailureUnknown FailureClass = "unknown"
)

// VendorError is the typed error surfaced by the AI boundary.
type VendorError struct {
	Class   FailureClass
	Message string
	Err     error
}

func (e *VendorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ai %s: %s: %v", e.Class, e.Message, e.Err)
	}
	return fmt.Sprintf("ai %s: %s", e.Class, e.Message)
}

func (e *VendorError) Unwrap() error { return e.Err }

// Quiet reports whether the failure should be suppressed from warn-level
// logs. Access denied is an expected condition, not an incident.
func (e *VendorError) Quiet() bool {
	return e.Class == FailureAccessDenied || e.Class == FailureConfiguration
}

func newVendorError(class FailureClass, message string, err error) *VendorError {
	return &VendorError{Class: class, Message: message, Err: err}
}

// ClassifyError maps an arbitrary error from the vendor path onto the
// failure enum.
func ClassifyError(err error) FailureClass {
	if err == nil {
		return FailureUnknown
	}

	var ve *VendorError
	if errors.As(err, &ve) {
		return ve.Class
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailureTimeout
		}
		return FailureNetwork
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return FailureNetwork
	}

	return FailureUnknown
}

// refusalMarkers are substrings that flag a completion as a refusal rather
// than a decision. Lowercase, matched against the lowercased content.
var refusalMarkers = []string{
	"i cannot",
	"i can't",
	"i am unable",
	"i'm unable",
	"cannot assist",
	"cannot provide",
	"as an ai",
}

// IsRefusal applies the refusal-keyword heuristic to vendor response text.
func IsRefusal(content string) bool {
	lower := strings.ToLower(content)
	for _, marker := range refusalMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// accessDeniedMarkers identify the vendor's eligibility error class in
// response bodies.
var accessDeniedMarkers = []string{
	"purchase",
	"not eligible",
	"upgrade your plan",
	"insufficient_quota",
	"billing",
}

// classifyHTTPFailure maps a non-2xx vendor response onto the failure enum.
func classifyHTTPFailure(statusCode int, body string) FailureClass {
	if statusCode == 402 || statusCode == 403 {
		return FailureAccessDenied
	}
	lower := strings.ToLower(body)
	for _, marker := range accessDeniedMarkers {
		if strings.Contains(lower, marker) {
			return FailureAccessDenied
		}
	}
	return FailureNetwork
}
