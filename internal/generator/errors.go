package generator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEndpointURL is returned when the endpoint URL cannot be embedded
// as a string literal in the emitted source.
var ErrInvalidEndpointURL = errors.New("invalid endpoint url")

// UnsupportedTargetError reports a target identifier outside the supported set.
type UnsupportedTargetError struct {
	Target string
}

func (e *UnsupportedTargetError) Error() string {
	return fmt.Sprintf("unsupported target %q", e.Target)
}

// EndpointProblem describes one defect in one endpoint definition.
type EndpointProblem struct {
	Index  int    `json:"index"`
	Action string `json:"action"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (p EndpointProblem) String() string {
	return fmt.Sprintf("endpoint %d (%q) %s: %s", p.Index, p.Action, p.Field, p.Reason)
}

// InvalidEndpointDefinitionError collects every problem found by Validate.
type InvalidEndpointDefinitionError struct {
	Problems []EndpointProblem
}

func (e *InvalidEndpointDefinitionError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.String())
	}
	return "invalid endpoint definition: " + strings.Join(msgs, "; ")
}
