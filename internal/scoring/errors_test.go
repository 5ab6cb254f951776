package scoring

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "direct", err: &Error{Kind: KindEndpoint}, want: KindEndpoint},
		{name: "wrapped", err: fmt.Errorf("predict: %w", &Error{Kind: KindNetwork}), want: KindNetwork},
		{name: "foreign error", err: errors.New("other"), want: ""},
		{name: "nil", err: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{name: "configuration", err: &Error{Kind: KindConfiguration}, contains: []string{"MODEL_URL", "MODEL_API_KEY"}},
		{name: "network timeout", err: &Error{Kind: KindNetwork, Timeout: true}, contains: []string{"30 seconds"}},
		{name: "network cause", err: &Error{Kind: KindNetwork, Err: errors.New("dial tcp: connection refused")}, contains: []string{"connection refused"}},
		{name: "authentication", err: &Error{Kind: KindAuthentication, StatusCode: 401}, contains: []string{"401"}},
		{name: "endpoint", err: &Error{Kind: KindEndpoint, StatusCode: 503, Body: "overloaded"}, contains: []string{"503", "overloaded"}},
		{name: "malformed", err: &Error{Kind: KindMalformedResponse, Body: "not json"}, contains: []string{"not json"}},
		{name: "contract", err: &Error{Kind: KindContractViolation, Detail: "sent 2 rows"}, contains: []string{"sent 2 rows"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.UserMessage()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("UserMessage() = %q, want it to contain %q", msg, want)
				}
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := &Error{Kind: KindNetwork, Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to reach the cause")
	}
}
