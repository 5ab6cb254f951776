package scoring

import (
	"context"

	"github.com/churn_guard/backend/internal/models"
)

type Scorer interface {
	Score(ctx context.Context, req models.ScoreRequest) (models.ScoreResult, error)
}

// NewRequest builds a ScoreRequest from loosely typed rows. Missing or
// uncoercible fields fail with KindInvalidInput before anything is sent.
func NewRequest(rows []map[string]any) (models.ScoreRequest, error) {
	if len(rows) == 0 {
		return models.ScoreRequest{}, &Error{Kind: KindInvalidInput, Detail: "at least one customer row is required"}
	}
	items, err := models.ParseFeatureRows(rows)
	if err != nil {
		return models.ScoreRequest{}, &Error{Kind: KindInvalidInput, Err: err}
	}
	return models.ScoreRequest{Items: items}, nil
}

func validateRequest(req models.ScoreRequest) error {
	if len(req.Items) == 0 {
		return &Error{Kind: KindInvalidInput, Detail: "at least one customer row is required"}
	}
	for _, item := range req.Items {
		if err := models.ValidateFeatures(item); err != nil {
			return &Error{Kind: KindInvalidInput, Err: err}
		}
	}
	return nil
}
