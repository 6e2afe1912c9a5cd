package model

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invertedv/prosper/clean"
)

// synth generates loans whose BorrowerRate follows a known linear signal in
// every Sequence variable plus gaussian noise, so the fits have something real
// to recover. All predictors are populated.
func synth(n int, seed int64) []clean.Loan {
	rnd := rand.New(rand.NewSource(seed))
	ratings := clean.Ratings()
	loans := make([]clean.Loan, n)
	for i := range loans {
		rating := ratings[rnd.Intn(len(ratings))]
		income := 1000 + 9000*rnd.Float64()
		home := rnd.Intn(2) == 1
		empInd := rnd.Intn(len(clean.EmploymentLevels))
		bankcard := 20000 * rnd.Float64()
		dti := 0.6 * rnd.Float64()

		rate := 0.045 + 0.019*float64(rating-clean.RatingAA) - 0.0000015*income +
			0.002*float64(empInd) - 0.0000008*bankcard + 0.01*dti +
			rnd.NormFloat64()*0.005
		if home {
			rate -= 0.004
		}

		loans[i] = clean.Loan{
			Rating:        rating,
			MonthlyIncome: income,
			Homeowner:     home,
			Employment:    clean.EmploymentLevels[empInd],
			BankcardAvail: bankcard,
			DTI:           dti,
			BorrowerRate:  rate,
		}
	}
	return loans
}

func TestFitSequence(t *testing.T) {
	loans := synth(2000, 11)
	models, err := FitSequence(loans)
	require.NoError(t, err)
	require.Equal(t, len(Sequence), len(models))

	for k, m := range models {
		assert.Equal(t, Sequence[:k+1], m.Terms)
		assert.Equal(t, 2000, m.N)
		assert.Equal(t, 0, m.Excluded)
		assert.Equal(t, len(m.Names), len(m.Coef))
		if k > 0 {
			// adding a variable never lowers in-sample R2
			assert.GreaterOrEqual(t, m.R2, models[k-1].R2-1e-10)
		}
	}

	// intercept plus six rating dummies
	assert.Equal(t, 7, len(models[0].Names))
	assert.Equal(t, "(Intercept)", models[0].Names[0])
	assert.Equal(t, "Rating=A", models[0].Names[1])

	assert.Greater(t, models[len(models)-1].R2, 0.95)
	assert.Equal(t, "BorrowerRate ~ Rating + StatedMonthlyIncome", models[1].Formula())
}

func TestFitExcluded(t *testing.T) {
	loans := synth(500, 5)
	for i := 0; i < 25; i++ {
		loans[i].MonthlyIncome = math.NaN()
	}

	m, err := Fit(loans, []string{VarRating})
	require.NoError(t, err)
	assert.Equal(t, 0, m.Excluded)
	assert.Equal(t, 500, m.N)

	m, err = Fit(loans, []string{VarRating, VarIncome})
	require.NoError(t, err)
	assert.Equal(t, 25, m.Excluded)
	assert.Equal(t, 475, m.N)

	// an unrated loan drops from every model
	loans[100].Rating = clean.RatingNone
	m, err = Fit(loans, []string{VarRating})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Excluded)
}

func TestFitErrors(t *testing.T) {
	_, err := Fit(nil, []string{VarDTI})
	assert.True(t, errors.Is(err, ErrNoRows))

	// fewer complete rows than coefficients
	_, err = Fit(synth(5, 1), Sequence)
	assert.Error(t, err)
}

func TestPredict(t *testing.T) {
	models, err := FitSequence(synth(1000, 3))
	require.NoError(t, err)
	m := models[len(models)-1]

	ln := synth(1, 99)[0]
	p, err := m.Predict(ln, 0.95)
	require.NoError(t, err)
	assert.Greater(t, p.Estimate, p.Lower)
	assert.Less(t, p.Estimate, p.Upper)

	// wider interval at a higher level
	p99, err := m.Predict(ln, 0.99)
	require.NoError(t, err)
	assert.Greater(t, p99.Upper-p99.Lower, p.Upper-p.Lower)

	miss := ln
	miss.Employment = ""
	_, err = m.Predict(miss, 0.95)
	assert.True(t, errors.Is(err, ErrMissingPredictor))
	assert.Contains(t, err.Error(), VarEmployment)

	miss = ln
	miss.MonthlyIncome = math.NaN()
	_, err = m.Predict(miss, 0.95)
	assert.True(t, errors.Is(err, ErrMissingPredictor))

	for _, level := range []float64{0, 1, -0.5, 1.5} {
		_, err = m.Predict(ln, level)
		assert.Error(t, err, level)
	}
}

// more data narrows the interval: replicating the sample leaves the
// coefficients alone but raises the degrees of freedom and cuts the leverage
func TestPredictWidthShrinks(t *testing.T) {
	loans := synth(300, 7)
	rep := make([]clean.Loan, 0, 16*len(loans))
	for i := 0; i < 16; i++ {
		rep = append(rep, loans...)
	}

	small, err := Fit(loans, Sequence)
	require.NoError(t, err)
	big, err := Fit(rep, Sequence)
	require.NoError(t, err)

	ln := synth(1, 8)[0]
	ps, err := small.Predict(ln, 0.95)
	require.NoError(t, err)
	pb, err := big.Predict(ln, 0.95)
	require.NoError(t, err)

	assert.InDelta(t, ps.Estimate, pb.Estimate, 1e-8)
	assert.Less(t, pb.Upper-pb.Lower, ps.Upper-ps.Lower)
}

// a 95% interval should cover roughly 95% of held-out observations
func TestPredictCoverage(t *testing.T) {
	models, err := FitSequence(synth(1500, 21))
	require.NoError(t, err)
	m := models[len(models)-1]

	holdout := synth(400, 22)
	covered := 0
	for _, ln := range holdout {
		p, e := m.Predict(ln, 0.95)
		require.NoError(t, e)
		if ln.BorrowerRate >= p.Lower && ln.BorrowerRate <= p.Upper {
			covered++
		}
	}
	assert.GreaterOrEqual(t, float64(covered)/float64(len(holdout)), 0.90)
}
