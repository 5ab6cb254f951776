package dataset

import (
	"fmt"
	"math"

	"github.com/caio/go-tdigest/v4"
)

const (
	LabelStayed  = "Stayed"
	LabelChurned = "Churned"
)

type Overview struct {
	Customers        int     `json:"customers"`
	ChurnRatePct     float64 `json:"churn_rate_pct"`
	AvgTenureWeeks   float64 `json:"avg_tenure_weeks"`
	AvgMonthlyCharge float64 `json:"avg_monthly_charge"`
	AvgCustServCalls float64 `json:"avg_cust_serv_calls"`
	MonthlyChargeP50 float64 `json:"monthly_charge_p50"`
	MonthlyChargeP90 float64 `json:"monthly_charge_p90"`
	SkippedRows      int     `json:"skipped_rows"`
}

type GroupRate struct {
	Group        string  `json:"group"`
	Customers    int     `json:"customers"`
	ChurnRatePct float64 `json:"churn_rate_pct"`
}

type Histogram struct {
	Column  string    `json:"column"`
	Edges   []float64 `json:"edges"`
	Stayed  []int     `json:"stayed"`
	Churned []int     `json:"churned"`
}

type Correlation struct {
	Columns []string    `json:"columns"`
	Matrix  [][]float64 `json:"matrix"`
}

type EDA struct {
	ChurnBreakdown          map[string]int     `json:"churn_breakdown"`
	AvgCustServCallsByLabel map[string]float64 `json:"avg_cust_serv_calls_by_label"`
	ChurnRateByDataPlan     []GroupRate        `json:"churn_rate_by_data_plan"`
	Histograms              []Histogram        `json:"histograms"`
	Correlation             Correlation        `json:"correlation"`
}

var histogramBins = []struct {
	Column string
	Bins   int
}{
	{"DayMins", 30},
	{"CustServCalls", 10},
	{"MonthlyCharge", 30},
}

func Summarize(f *Frame) (Overview, error) {
	ov := Overview{Customers: f.Len(), SkippedRows: f.Skipped}
	if ov.Customers == 0 {
		return ov, nil
	}
	ov.ChurnRatePct = mean(f.Values[ChurnColumn]) * 100
	ov.AvgTenureWeeks = mean(f.Values["AccountWeeks"])
	ov.AvgMonthlyCharge = mean(f.Values["MonthlyCharge"])
	ov.AvgCustServCalls = mean(f.Values["CustServCalls"])

	if charges := f.Values["MonthlyCharge"]; len(charges) > 0 {
		td, err := tdigest.New()
		if err != nil {
			return Overview{}, fmt.Errorf("tdigest: %w", err)
		}
		for _, v := range charges {
			if err := td.Add(v); err != nil {
				return Overview{}, fmt.Errorf("tdigest add: %w", err)
			}
		}
		ov.MonthlyChargeP50 = td.Quantile(0.5)
		ov.MonthlyChargeP90 = td.Quantile(0.9)
	}
	return ov, nil
}

func Explore(f *Frame) EDA {
	churn := f.Values[ChurnColumn]
	eda := EDA{
		ChurnBreakdown:          map[string]int{LabelStayed: 0, LabelChurned: 0},
		AvgCustServCallsByLabel: map[string]float64{},
	}
	for _, c := range churn {
		eda.ChurnBreakdown[churnLabel(c)]++
	}

	if calls, ok := f.Values["CustServCalls"]; ok {
		sums := map[string]float64{}
		for i, c := range churn {
			sums[churnLabel(c)] += calls[i]
		}
		for label, n := range eda.ChurnBreakdown {
			if n > 0 {
				eda.AvgCustServCallsByLabel[label] = sums[label] / float64(n)
			}
		}
	}

	if plans, ok := f.Values["DataPlan"]; ok {
		eda.ChurnRateByDataPlan = churnRateByBinary(plans, churn, "No Data Plan", "Has Data Plan")
	}

	for _, h := range histogramBins {
		if values, ok := f.Values[h.Column]; ok {
			eda.Histograms = append(eda.Histograms, histogram(h.Column, values, churn, h.Bins))
		}
	}

	eda.Correlation = correlate(f)
	return eda
}

func churnLabel(v float64) string {
	if v == 1 {
		return LabelChurned
	}
	return LabelStayed
}

func churnRateByBinary(groups, churn []float64, zeroLabel, oneLabel string) []GroupRate {
	var counts, churned [2]int
	for i, g := range groups {
		idx := 0
		if g == 1 {
			idx = 1
		}
		counts[idx]++
		if churn[i] == 1 {
			churned[idx]++
		}
	}
	out := make([]GroupRate, 0, 2)
	for idx, label := range []string{zeroLabel, oneLabel} {
		if counts[idx] == 0 {
			continue
		}
		out = append(out, GroupRate{
			Group:        label,
			Customers:    counts[idx],
			ChurnRatePct: float64(churned[idx]) / float64(counts[idx]) * 100,
		})
	}
	return out
}

func histogram(column string, values, churn []float64, bins int) Histogram {
	h := Histogram{Column: column, Stayed: make([]int, bins), Churned: make([]int, bins)}
	if len(values) == 0 {
		return h
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	width := (hi - lo) / float64(bins)
	h.Edges = make([]float64, bins+1)
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	for i, v := range values {
		bin := 0
		if width > 0 {
			bin = int((v - lo) / width)
			if bin >= bins {
				bin = bins - 1
			}
		}
		if churn[i] == 1 {
			h.Churned[bin]++
		} else {
			h.Stayed[bin]++
		}
	}
	return h
}

// correlate computes the Pearson matrix over all numeric columns, rounded to
// two decimals. Pairs involving a constant column are reported as 0.
func correlate(f *Frame) Correlation {
	n := len(f.Columns)
	c := Correlation{Columns: append([]string(nil), f.Columns...), Matrix: make([][]float64, n)}
	for i := range c.Matrix {
		c.Matrix[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pearson(f.Values[f.Columns[i]], f.Values[f.Columns[j]])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			if math.IsNaN(r) {
				r = 0
			}
			r = math.Round(r*100) / 100
			c.Matrix[i][j] = r
			c.Matrix[j][i] = r
		}
	}
	return c
}

func pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	return sxy / math.Sqrt(sxx*syy)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
