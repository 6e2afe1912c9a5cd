package summary

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invertedv/prosper/clean"
)

func sample() []clean.Loan {
	return []clean.Loan{
		{Rating: clean.RatingAA, BorrowerRate: 0.08, Quarter: "2009 Q1",
			Category: "Auto", Status: clean.StatusCurrent, Amount: 1000},
		{Rating: clean.RatingAA, BorrowerRate: 0.10, Quarter: "2009 Q1",
			Category: "Auto", Status: clean.StatusCurrent, Amount: 2000.25},
		{Rating: clean.RatingAA, BorrowerRate: 0.12, Quarter: "2009 Q2",
			Category: "Debt Consolidation", Status: clean.StatusCompleted, Amount: 3000},
		{Rating: clean.RatingC, BorrowerRate: math.NaN(), Quarter: "2008 Q4",
			Category: "Other", Status: clean.StatusPastDue, Amount: math.NaN()},
		{Rating: clean.RatingC, BorrowerRate: 0.20, Quarter: "2008 Q4",
			Category: "Other", Status: clean.StatusChargedoff, Amount: 500.5},
	}
}

func TestFrame(t *testing.T) {
	df := Frame(sample())
	require.NoError(t, df.Error())
	r, c := df.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 6, c)
}

func TestByRating(t *testing.T) {
	out := ByRating(sample())
	require.Equal(t, 7, len(out))

	// one row per level, best to worst
	for i, r := range clean.Ratings() {
		assert.Equal(t, r, out[i].Rating)
	}

	aa := out[0]
	assert.Equal(t, 3, aa.Count)
	assert.InDelta(t, 0.10, aa.MeanRate, 1e-10)
	assert.InDelta(t, 0.10, aa.MedianRate, 1e-10)

	// the NaN rate stays in the count but drops out of the stats
	c := out[3]
	assert.Equal(t, clean.RatingC, c.Rating)
	assert.Equal(t, 2, c.Count)
	assert.InDelta(t, 0.20, c.MeanRate, 1e-10)
	assert.InDelta(t, 0.20, c.MedianRate, 1e-10)

	assert.Equal(t, 0, out[1].Count)
}

func TestByQuarter(t *testing.T) {
	out := ByQuarter(sample())
	require.Equal(t, 3, len(out))

	assert.Equal(t, "2008 Q4", out[0].Quarter)
	assert.Equal(t, 2, out[0].Count)
	assert.Equal(t, "500.50", out[0].Originated.StringFixed(2))

	assert.Equal(t, "2009 Q1", out[1].Quarter)
	assert.Equal(t, 2, out[1].Count)
	assert.Equal(t, "3000.25", out[1].Originated.StringFixed(2))

	assert.Equal(t, "2009 Q2", out[2].Quarter)
	assert.Equal(t, "3000.00", out[2].Originated.StringFixed(2))
}

func TestByCategory(t *testing.T) {
	out := ByCategory(sample())
	require.Equal(t, 21, len(out))

	assert.Equal(t, "Not Available", out[0].Category)
	assert.Equal(t, 0, out[0].Count)
	assert.Equal(t, "Debt Consolidation", out[1].Category)
	assert.Equal(t, 1, out[1].Count)
	assert.Equal(t, "Auto", out[6].Category)
	assert.Equal(t, 2, out[6].Count)
	assert.Equal(t, "Other", out[7].Category)
	assert.Equal(t, 2, out[7].Count)
}

func TestByStatus(t *testing.T) {
	out := ByStatus(sample())
	require.Equal(t, 7, len(out))

	want := map[clean.Status]int{
		clean.StatusChargedoff: 1,
		clean.StatusCompleted:  1,
		clean.StatusCurrent:    2,
		clean.StatusPastDue:    1,
	}
	for _, s := range out {
		assert.Equal(t, want[s.Status], s.Count, s.Status)
	}
}
