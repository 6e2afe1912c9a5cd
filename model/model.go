// Package model fits the nested sequence of OLS models that explain
// BorrowerRate, and prices prediction intervals off the fitted residual
// variance. Each model is a pure function of the cleaned slice and an
// ordered list of variable names; nothing is threaded between fits.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/invertedv/prosper/clean"
)

var (
	// ErrMissingPredictor reports a record lacking a variable the model uses.
	ErrMissingPredictor = errors.New("missing predictor")
	// ErrNoRows reports a fit with no complete rows.
	ErrNoRows = errors.New("no complete rows to fit")
)

// Explanatory variable names.
const (
	VarRating     = "Rating"
	VarIncome     = "StatedMonthlyIncome"
	VarHomeowner  = "IsBorrowerHomeowner"
	VarEmployment = "EmploymentStatus"
	VarBankcard   = "AvailableBankcardCredit"
	VarDTI        = "DebtToIncomeRatio"
)

// Sequence is the fixed order in which variables enter the nested models
// M1 through M6. Each model's variable set is the previous one plus the
// next entry.
var Sequence = []string{VarRating, VarIncome, VarHomeowner, VarEmployment, VarBankcard, VarDTI}

// DefaultLevel is the default two-sided confidence level for Predict.
const DefaultLevel = 0.95

// Model is one fitted OLS model. Coef lines up with Names; the first entry
// is the intercept. Excluded counts rows dropped from this fit because the
// response or an active variable was missing (non-fatal, per-fit).
type Model struct {
	Terms    []string
	Names    []string
	Coef     []float64
	R2       float64
	N        int
	Excluded int

	df     int
	sigma2 float64
	xtxInv *mat.Dense
}

// Prediction is a point estimate of BorrowerRate with a two-sided
// prediction interval (interval for a new observation, not for the mean
// response).
type Prediction struct {
	Estimate float64
	Lower    float64
	Upper    float64
}

// termNames returns the design-matrix column names a variable contributes.
// Categorical variables expand to dummies against a reference level
// (Rating: AA, EmploymentStatus: Employed).
func termNames(term string) []string {
	switch term {
	case VarRating:
		names := make([]string, 0, 6)
		for _, r := range clean.Ratings()[1:] {
			names = append(names, VarRating+"="+r.String())
		}
		return names
	case VarEmployment:
		names := make([]string, 0, len(clean.EmploymentLevels)-1)
		for _, lvl := range clean.EmploymentLevels[1:] {
			names = append(names, VarEmployment+"="+lvl)
		}
		return names
	}
	return []string{term}
}

// termValues returns the column values a variable contributes for one loan.
// ok is false when the loan is missing the variable.
func termValues(term string, ln clean.Loan) (vals []float64, ok bool) {
	switch term {
	case VarRating:
		if ln.Rating == clean.RatingNone {
			return nil, false
		}
		vals = make([]float64, 6)
		for i, r := range clean.Ratings()[1:] {
			if ln.Rating == r {
				vals[i] = 1
			}
		}
		return vals, true
	case VarEmployment:
		if ln.Employment == "" {
			return nil, false
		}
		vals = make([]float64, len(clean.EmploymentLevels)-1)
		for i, lvl := range clean.EmploymentLevels[1:] {
			if ln.Employment == lvl {
				vals[i] = 1
			}
		}
		return vals, true
	case VarHomeowner:
		if ln.Homeowner {
			return []float64{1}, true
		}
		return []float64{0}, true
	case VarIncome:
		return []float64{ln.MonthlyIncome}, !math.IsNaN(ln.MonthlyIncome)
	case VarBankcard:
		return []float64{ln.BankcardAvail}, !math.IsNaN(ln.BankcardAvail)
	case VarDTI:
		return []float64{ln.DTI}, !math.IsNaN(ln.DTI)
	}
	return nil, false
}

// designRow builds the full design row (with intercept) for one loan.
// The second return names the first missing variable, empty if none.
func designRow(terms []string, ln clean.Loan) ([]float64, string) {
	row := []float64{1}
	for _, t := range terms {
		vals, ok := termValues(t, ln)
		if !ok {
			return nil, t
		}
		row = append(row, vals...)
	}
	return row, ""
}

// Fit runs OLS of BorrowerRate on terms over the cleaned slice. Rows with a
// missing response or any missing active variable are excluded from the fit
// and counted, not fatal.
func Fit(loans []clean.Loan, terms []string) (*Model, error) {
	names := []string{"(Intercept)"}
	for _, t := range terms {
		names = append(names, termNames(t)...)
	}
	p := len(names)

	xData := make([]float64, 0, len(loans)*p)
	yData := make([]float64, 0, len(loans))
	excluded := 0
	for _, ln := range loans {
		if math.IsNaN(ln.BorrowerRate) {
			excluded++
			continue
		}
		row, miss := designRow(terms, ln)
		if miss != "" {
			excluded++
			continue
		}
		xData = append(xData, row...)
		yData = append(yData, ln.BorrowerRate)
	}
	n := len(yData)
	if n == 0 {
		return nil, fmt.Errorf("%w: terms %s", ErrNoRows, strings.Join(terms, "+"))
	}
	if n <= p {
		return nil, fmt.Errorf("only %d complete rows for %d coefficients", n, p)
	}

	x := mat.NewDense(n, p, xData)
	y := mat.NewVecDense(n, yData)

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		// ill-conditioned is reported but the solution is still valid
		if _, ok := err.(mat.Condition); !ok {
			return nil, fmt.Errorf("solving %s: %w", strings.Join(terms, "+"), err)
		}
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)

	mean := 0.0
	for _, v := range yData {
		mean += v
	}
	mean /= float64(n)

	sse, sst := 0.0, 0.0
	for i, v := range yData {
		r := v - fitted.AtVec(i)
		sse += r * r
		d := v - mean
		sst += d * d
	}

	var xtx, xtxInv mat.Dense
	xtx.Mul(x.T(), x)
	if err := xtxInv.Inverse(&xtx); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return nil, fmt.Errorf("inverting X'X for %s: %w", strings.Join(terms, "+"), err)
		}
	}

	m := &Model{
		Terms:    append([]string{}, terms...),
		Names:    names,
		Coef:     make([]float64, p),
		R2:       1 - sse/sst,
		N:        n,
		Excluded: excluded,
		df:       n - p,
		sigma2:   sse / float64(n-p),
		xtxInv:   &xtxInv,
	}
	for i := 0; i < p; i++ {
		m.Coef[i] = beta.AtVec(i)
	}
	return m, nil
}

// FitSequence fits the six nested models in Sequence order over the same
// cleaned slice. In-sample R2 is non-decreasing across the returned slice
// (an OLS identity, verified in tests rather than enforced here).
func FitSequence(loans []clean.Loan) ([]*Model, error) {
	models := make([]*Model, 0, len(Sequence))
	for k := 1; k <= len(Sequence); k++ {
		m, err := Fit(loans, Sequence[:k])
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}

// Predict returns the point estimate of BorrowerRate for ln plus a
// two-sided prediction interval at the given confidence level. The interval
// variance is sigma2*(1+h), h the leverage of the design point, so it covers
// a new individual observation rather than the mean response. Fails with
// ErrMissingPredictor naming the variable when ln lacks one the model uses.
func (m *Model) Predict(ln clean.Loan, level float64) (Prediction, error) {
	if level <= 0 || level >= 1 {
		return Prediction{}, fmt.Errorf("confidence level %v not in (0,1)", level)
	}
	row, miss := designRow(m.Terms, ln)
	if miss != "" {
		return Prediction{}, fmt.Errorf("%w: %s", ErrMissingPredictor, miss)
	}

	xv := mat.NewVecDense(len(row), row)
	pt := 0.0
	for i, c := range m.Coef {
		pt += c * row[i]
	}

	var tmp mat.VecDense
	tmp.MulVec(m.xtxInv, xv)
	h := mat.Dot(xv, &tmp)

	se := math.Sqrt(m.sigma2 * (1 + h))
	tq := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(m.df)}.Quantile(1 - (1-level)/2)

	return Prediction{
		Estimate: pt,
		Lower:    pt - tq*se,
		Upper:    pt + tq*se,
	}, nil
}

// Formula renders the model in y ~ x1 + x2 form for the report.
func (m *Model) Formula() string {
	return "BorrowerRate ~ " + strings.Join(m.Terms, " + ")
}
