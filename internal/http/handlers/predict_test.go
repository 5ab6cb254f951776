package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/churn_guard/backend/internal/scoring"
)

func TestScoringStatus(t *testing.T) {
	cases := []struct {
		err  *scoring.Error
		want int
	}{
		{&scoring.Error{Kind: scoring.KindInvalidInput}, http.StatusBadRequest},
		{&scoring.Error{Kind: scoring.KindConfiguration}, http.StatusServiceUnavailable},
		{&scoring.Error{Kind: scoring.KindNetwork, Timeout: true}, http.StatusGatewayTimeout},
		{&scoring.Error{Kind: scoring.KindNetwork, Err: errors.New("refused")}, http.StatusBadGateway},
		{&scoring.Error{Kind: scoring.KindAuthentication, StatusCode: 401}, http.StatusBadGateway},
		{&scoring.Error{Kind: scoring.KindEndpoint, StatusCode: 500}, http.StatusBadGateway},
		{&scoring.Error{Kind: scoring.KindMalformedResponse}, http.StatusBadGateway},
		{&scoring.Error{Kind: scoring.KindContractViolation}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		if got := scoringStatus(tc.err); got != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.err.Kind, tc.want, got)
		}
	}
}

func TestErrorCodeIsDistinctPerKind(t *testing.T) {
	seen := map[string]scoring.Kind{}
	for _, k := range []scoring.Kind{
		scoring.KindConfiguration, scoring.KindInvalidInput, scoring.KindNetwork,
		scoring.KindAuthentication, scoring.KindEndpoint, scoring.KindMalformedResponse,
		scoring.KindContractViolation,
	} {
		code := errorCode(k)
		if prev, dup := seen[code]; dup {
			t.Fatalf("%s and %s share code %s", prev, k, code)
		}
		seen[code] = k
	}
}
