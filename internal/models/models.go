package models

import "time"

// CustomerFeatures is one row sent to the scoring endpoint. JSON names match
// the wire format of the model service.
type CustomerFeatures struct {
	AccountWeeks    int     `json:"AccountWeeks" validate:"gte=0"`
	ContractRenewal int     `json:"ContractRenewal" validate:"oneof=0 1"`
	DataPlan        int     `json:"DataPlan" validate:"oneof=0 1"`
	DataUsage       float64 `json:"DataUsage" validate:"gte=0"`
	CustServCalls   int     `json:"CustServCalls" validate:"gte=0"`
	DayMins         float64 `json:"DayMins" validate:"gte=0"`
	DayCalls        int     `json:"DayCalls" validate:"gte=0"`
	MonthlyCharge   float64 `json:"MonthlyCharge" validate:"gte=0"`
	OverageFee      float64 `json:"OverageFee" validate:"gte=0"`
	RoamMins        float64 `json:"RoamMins" validate:"gte=0"`
	AvgCallDuration float64 `json:"AvgCallDuration" validate:"gte=0"`
	CostPerUsage    float64 `json:"CostPerUsage" validate:"gte=0"`
}

// DefaultFeatures are the values the prediction form starts with.
func DefaultFeatures() CustomerFeatures {
	return CustomerFeatures{
		AccountWeeks:    40,
		ContractRenewal: 1,
		DataPlan:        1,
		DataUsage:       5.0,
		CustServCalls:   2,
		DayMins:         250.0,
		DayCalls:        90,
		MonthlyCharge:   60.0,
		OverageFee:      5.0,
		RoamMins:        8.0,
		AvgCallDuration: 2.8,
		CostPerUsage:    0.25,
	}
}

type ScoreRequest struct {
	Items []CustomerFeatures `json:"data"`
}

type ScoreResult struct {
	Predictions  []int              `json:"predictions"`
	EchoedInputs []CustomerFeatures `json:"echoed_inputs"`
}

const (
	PredictionStay  = 0
	PredictionChurn = 1

	LabelChurn = "Churn"
	LabelStay  = "Stay"
)

// TimestampLayout is the minute-granularity format history timestamps are
// stored and compared in.
const TimestampLayout = "2006-01-02 15:04"

func PredictionLabel(raw int) string {
	if raw == PredictionChurn {
		return LabelChurn
	}
	return LabelStay
}

type HistoryRecord struct {
	Timestamp       time.Time        `json:"timestamp"`
	PredictionRaw   int              `json:"prediction_raw"`
	PredictionLabel string           `json:"prediction_label"`
	Features        CustomerFeatures `json:"features"`
}

func NewHistoryRecord(at time.Time, raw int, features CustomerFeatures) HistoryRecord {
	return HistoryRecord{
		Timestamp:       at.Truncate(time.Minute),
		PredictionRaw:   raw,
		PredictionLabel: PredictionLabel(raw),
		Features:        features,
	}
}

// RecordKey identifies a prediction event for de-duplication. Two distinct
// customers scored in the same minute with equal MonthlyCharge and
// AccountWeeks collide on this key.
type RecordKey struct {
	Timestamp     string
	MonthlyCharge float64
	AccountWeeks  int
	PredictionRaw int
}

func (r HistoryRecord) Key() RecordKey {
	return RecordKey{
		Timestamp:     r.Timestamp.Format(TimestampLayout),
		MonthlyCharge: r.Features.MonthlyCharge,
		AccountWeeks:  r.Features.AccountWeeks,
		PredictionRaw: r.PredictionRaw,
	}
}

type HistoryKPIs struct {
	Total        int     `json:"total"`
	ChurnCount   int     `json:"churn_count"`
	StayCount    int     `json:"stay_count"`
	ChurnRatePct float64 `json:"churn_rate_pct"`
}

type FeatureInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type ModelInfo struct {
	ModelType string        `json:"model_type"`
	Serving   string        `json:"serving"`
	Interface string        `json:"interface"`
	Target    string        `json:"target"`
	Features  []FeatureInfo `json:"features"`
}
