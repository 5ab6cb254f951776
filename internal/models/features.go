package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// FeatureNames lists the model inputs in the order the model was trained on.
var FeatureNames = []string{
	"AccountWeeks",
	"ContractRenewal",
	"DataPlan",
	"DataUsage",
	"CustServCalls",
	"DayMins",
	"DayCalls",
	"MonthlyCharge",
	"OverageFee",
	"RoamMins",
	"AvgCallDuration",
	"CostPerUsage",
}

var validate = validator.New()

type FeatureError struct {
	Row     int
	Field   string
	Problem string
}

func (e *FeatureError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Problem)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Problem)
}

// ParseFeatures coerces a loosely typed row (JSON numbers, numeric strings)
// into CustomerFeatures. Every field is required.
func ParseFeatures(raw map[string]any) (CustomerFeatures, error) {
	var f CustomerFeatures
	ints := map[string]*int{
		"AccountWeeks":    &f.AccountWeeks,
		"ContractRenewal": &f.ContractRenewal,
		"DataPlan":        &f.DataPlan,
		"CustServCalls":   &f.CustServCalls,
		"DayCalls":        &f.DayCalls,
	}
	floats := map[string]*float64{
		"DataUsage":       &f.DataUsage,
		"DayMins":         &f.DayMins,
		"MonthlyCharge":   &f.MonthlyCharge,
		"OverageFee":      &f.OverageFee,
		"RoamMins":        &f.RoamMins,
		"AvgCallDuration": &f.AvgCallDuration,
		"CostPerUsage":    &f.CostPerUsage,
	}

	for _, name := range FeatureNames {
		v, ok := raw[name]
		if !ok || v == nil {
			return CustomerFeatures{}, &FeatureError{Field: name, Problem: "missing"}
		}
		if s, isString := v.(string); isString {
			s = strings.TrimSpace(s)
			if s == "" {
				return CustomerFeatures{}, &FeatureError{Field: name, Problem: "missing"}
			}
			x, err := parseDecimal(s)
			if err != nil {
				return CustomerFeatures{}, &FeatureError{Field: name, Problem: "not a number"}
			}
			v = x
		}
		if dst, ok := ints[name]; ok {
			n, err := cast.ToIntE(v)
			if err != nil {
				return CustomerFeatures{}, &FeatureError{Field: name, Problem: "not an integer"}
			}
			*dst = n
			continue
		}
		x, err := cast.ToFloat64E(v)
		if err != nil {
			return CustomerFeatures{}, &FeatureError{Field: name, Problem: "not a number"}
		}
		*floats[name] = x
	}

	if err := ValidateFeatures(f); err != nil {
		return CustomerFeatures{}, err
	}
	return f, nil
}

// parseDecimal reads a plain base-10 number. Base prefixes, hex floats,
// NaN and Inf are rejected.
func parseDecimal(s string) (float64, error) {
	if strings.ContainsAny(s, "xXpP_") {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return x, nil
}

// ParseFeatureRows parses a batch; the first bad row fails the whole batch.
func ParseFeatureRows(rows []map[string]any) ([]CustomerFeatures, error) {
	out := make([]CustomerFeatures, 0, len(rows))
	for i, row := range rows {
		f, err := ParseFeatures(row)
		if err != nil {
			var fe *FeatureError
			if errors.As(err, &fe) {
				fe.Row = i + 1
			}
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func ValidateFeatures(f CustomerFeatures) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		problem := "must be >= 0"
		if fe.Tag() == "oneof" {
			problem = "must be 0 or 1"
		}
		return &FeatureError{Field: fe.Field(), Problem: problem}
	}
	return err
}

// Map returns the wire representation of the row.
func (f CustomerFeatures) Map() map[string]any {
	return map[string]any{
		"AccountWeeks":    f.AccountWeeks,
		"ContractRenewal": f.ContractRenewal,
		"DataPlan":        f.DataPlan,
		"DataUsage":       f.DataUsage,
		"CustServCalls":   f.CustServCalls,
		"DayMins":         f.DayMins,
		"DayCalls":        f.DayCalls,
		"MonthlyCharge":   f.MonthlyCharge,
		"OverageFee":      f.OverageFee,
		"RoamMins":        f.RoamMins,
		"AvgCallDuration": f.AvgCallDuration,
		"CostPerUsage":    f.CostPerUsage,
	}
}
