package scoring

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindConfiguration     Kind = "configuration"
	KindInvalidInput      Kind = "invalid_input"
	KindNetwork           Kind = "network"
	KindAuthentication    Kind = "authentication"
	KindEndpoint          Kind = "endpoint"
	KindMalformedResponse Kind = "malformed_response"
	KindContractViolation Kind = "contract_violation"
)

// Error is returned for every failed Score call. StatusCode and Body are set
// for failures that reached the endpoint.
type Error struct {
	Kind       Kind
	StatusCode int
	Body       string
	Timeout    bool
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("scoring %s: HTTP %d: %s", e.Kind, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("scoring %s: %v", e.Kind, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("scoring %s: %s", e.Kind, e.Detail)
	default:
		return fmt.Sprintf("scoring %s", e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage renders the error for people using the dashboard.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindConfiguration:
		return "The scoring endpoint is not configured. Set MODEL_URL and MODEL_API_KEY and restart the service."
	case KindInvalidInput:
		return fmt.Sprintf("The customer profile is incomplete or invalid: %s.", e.detailOrCause())
	case KindNetwork:
		if e.Timeout {
			return "The scoring endpoint did not answer within 30 seconds. Try again in a moment."
		}
		return fmt.Sprintf("Network error calling the scoring endpoint: %s.", e.detailOrCause())
	case KindAuthentication:
		return "Unauthorized (401). The endpoint rejected the API key; make sure MODEL_API_KEY matches the key issued for this exact endpoint."
	case KindEndpoint:
		return fmt.Sprintf("Endpoint returned HTTP %d: %s. This usually means the request body did not match what the service expects, or the model failed internally.", e.StatusCode, e.Body)
	case KindMalformedResponse:
		return fmt.Sprintf("Endpoint returned a response that is not valid prediction JSON: %s", e.Body)
	case KindContractViolation:
		return fmt.Sprintf("Endpoint returned an inconsistent prediction payload: %s.", e.detailOrCause())
	default:
		return e.Error()
	}
}

func (e *Error) detailOrCause() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

// KindOf returns the scoring error kind carried by err, or "" when err is not
// a scoring error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
