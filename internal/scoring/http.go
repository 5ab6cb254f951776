package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/churn_guard/backend/internal/models"
)

// DefaultTimeout bounds a single scoring call end to end.
const DefaultTimeout = 30 * time.Second

const maxResponseBytes = 4 << 20

// HTTPScorer calls a hosted model endpoint. It never retries: one Score call
// is exactly one POST.
type HTTPScorer struct {
	URL    string
	APIKey string
	Client *http.Client
}

func NewHTTPScorer(url, apiKey string) *HTTPScorer {
	return &HTTPScorer{
		URL:    url,
		APIKey: apiKey,
		Client: &http.Client{Timeout: DefaultTimeout},
	}
}

type requestBody struct {
	Data []models.CustomerFeatures `json:"data"`
}

// Pointer fields tell a missing or null key apart from an empty list.
type responseBody struct {
	PredictedOutcomes *[]float64        `json:"predictedOutcomes"`
	InputFeatures     *[]map[string]any `json:"inputFeatures"`
}

func (h *HTTPScorer) Score(ctx context.Context, req models.ScoreRequest) (models.ScoreResult, error) {
	if strings.TrimSpace(h.URL) == "" || strings.TrimSpace(h.APIKey) == "" {
		return models.ScoreResult{}, &Error{Kind: KindConfiguration, Detail: "MODEL_URL and MODEL_API_KEY must both be set"}
	}
	if err := validateRequest(req); err != nil {
		return models.ScoreResult{}, err
	}

	b, err := json.Marshal(requestBody{Data: req.Items})
	if err != nil {
		return models.ScoreResult{}, &Error{Kind: KindInvalidInput, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(b))
	if err != nil {
		return models.ScoreResult{}, &Error{Kind: KindConfiguration, Err: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+h.APIKey)

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return models.ScoreResult{}, &Error{Kind: KindNetwork, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.ScoreResult{}, &Error{Kind: KindNetwork, Timeout: isTimeout(err), Err: fmt.Errorf("read response: %w", err)}
	}
	body := string(raw)

	if resp.StatusCode == http.StatusUnauthorized {
		return models.ScoreResult{}, &Error{Kind: KindAuthentication, StatusCode: resp.StatusCode, Body: body}
	}
	if resp.StatusCode >= 400 {
		return models.ScoreResult{}, &Error{Kind: KindEndpoint, StatusCode: resp.StatusCode, Body: body}
	}

	var r responseBody
	if err := json.Unmarshal(raw, &r); err != nil {
		return models.ScoreResult{}, &Error{Kind: KindMalformedResponse, Body: body, Err: err}
	}
	if r.PredictedOutcomes == nil || r.InputFeatures == nil {
		return models.ScoreResult{}, &Error{
			Kind:   KindMalformedResponse,
			Body:   body,
			Detail: "response must be an object with predictedOutcomes and inputFeatures",
		}
	}
	return decodeResult(*r.PredictedOutcomes, *r.InputFeatures, len(req.Items))
}

func decodeResult(outcomes []float64, inputs []map[string]any, want int) (models.ScoreResult, error) {
	if len(outcomes) != want || len(inputs) != want {
		return models.ScoreResult{}, &Error{
			Kind:   KindContractViolation,
			Detail: fmt.Sprintf("sent %d rows, got %d predictions and %d echoed inputs", want, len(outcomes), len(inputs)),
		}
	}

	result := models.ScoreResult{
		Predictions:  make([]int, 0, want),
		EchoedInputs: make([]models.CustomerFeatures, 0, want),
	}
	for i, p := range outcomes {
		if p != math.Trunc(p) || (p != models.PredictionStay && p != models.PredictionChurn) {
			return models.ScoreResult{}, &Error{
				Kind:   KindContractViolation,
				Detail: fmt.Sprintf("prediction %d is %v, expected 0 or 1", i+1, p),
			}
		}
		result.Predictions = append(result.Predictions, int(p))
	}
	for i, echoed := range inputs {
		f, err := models.ParseFeatures(echoed)
		if err != nil {
			return models.ScoreResult{}, &Error{
				Kind:   KindContractViolation,
				Detail: fmt.Sprintf("echoed input %d: %v", i+1, err),
				Err:    err,
			}
		}
		result.EchoedInputs = append(result.EchoedInputs, f)
	}
	return result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
