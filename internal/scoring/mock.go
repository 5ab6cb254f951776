package scoring

import (
	"context"

	"github.com/churn_guard/backend/internal/models"
)

// MockScorer answers locally from a few churn signals seen in the dataset
// (support calls, renewals, overage and roaming fees). It exists for local
// development without a hosted endpoint.
type MockScorer struct{}

func (MockScorer) Score(ctx context.Context, req models.ScoreRequest) (models.ScoreResult, error) {
	if err := validateRequest(req); err != nil {
		return models.ScoreResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.ScoreResult{}, &Error{Kind: KindNetwork, Err: err}
	}

	result := models.ScoreResult{
		Predictions:  make([]int, 0, len(req.Items)),
		EchoedInputs: make([]models.CustomerFeatures, 0, len(req.Items)),
	}
	for _, f := range req.Items {
		result.Predictions = append(result.Predictions, mockPrediction(f))
		result.EchoedInputs = append(result.EchoedInputs, f)
	}
	return result, nil
}

func mockPrediction(f models.CustomerFeatures) int {
	signals := 0
	if f.CustServCalls >= 4 {
		signals++
	}
	if f.ContractRenewal == 0 {
		signals++
	}
	if f.OverageFee >= 10 {
		signals++
	}
	if f.RoamMins >= 15 {
		signals++
	}
	if f.AccountWeeks < 12 && f.MonthlyCharge >= 70 {
		signals++
	}
	if signals >= 2 {
		return models.PredictionChurn
	}
	return models.PredictionStay
}
