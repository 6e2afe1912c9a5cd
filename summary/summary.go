// Package summary builds the distribution tables handed to the reporting
// layer: rate by rating, origination volume by quarter, and category and
// status frequencies. Charting itself is out of scope here; these tables
// are the numbers behind it.
package summary

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shopspring/decimal"

	"github.com/invertedv/prosper/clean"
)

// RatingSummary is the rate distribution for one rating level.
type RatingSummary struct {
	Rating     clean.Rating
	Count      int
	MeanRate   float64
	MedianRate float64
}

// QuarterSummary is origination volume for one normalized quarter.
// Originated is an exact dollar total.
type QuarterSummary struct {
	Quarter    string
	Count      int
	Originated decimal.Decimal
}

// CategorySummary is the listing count for one category.
type CategorySummary struct {
	Category string
	Count    int
}

// StatusSummary is the listing count for one collapsed status.
type StatusSummary struct {
	Status clean.Status
	Count  int
}

// Frame lays the cleaned slice out as a dataframe for filtering and
// aggregation. Missing rates stay NaN and show up as NA in the frame.
func Frame(loans []clean.Loan) dataframe.DataFrame {
	n := len(loans)
	rating := make([]string, n)
	rate := make([]float64, n)
	quarter := make([]string, n)
	category := make([]string, n)
	status := make([]string, n)
	amount := make([]float64, n)
	for i, ln := range loans {
		rating[i] = ln.Rating.String()
		rate[i] = ln.BorrowerRate
		quarter[i] = ln.Quarter
		category[i] = ln.Category
		status[i] = ln.Status.String()
		amount[i] = ln.Amount
	}
	return dataframe.New(
		series.New(rating, series.String, "Rating"),
		series.New(rate, series.Float, "BorrowerRate"),
		series.New(quarter, series.String, "Quarter"),
		series.New(category, series.String, "Category"),
		series.New(status, series.String, "Status"),
		series.New(amount, series.Float, "Amount"),
	)
}

// ByRating returns one row per rating level, best to worst. Count is level
// membership; the mean and median are over the observed rates only (missing
// rates drop out of the stats, not the count). Unrated loans (RatingNone)
// are not tabulated.
func ByRating(loans []clean.Loan) []RatingSummary {
	df := Frame(loans)
	out := make([]RatingSummary, 0, 7)
	for _, r := range clean.Ratings() {
		level := df.FilterAggregation(
			dataframe.And,
			dataframe.F{Colname: "Rating", Comparator: series.Eq, Comparando: r.String()},
		)
		s := RatingSummary{Rating: r, Count: level.Nrow()}
		rated := level.FilterAggregation(
			dataframe.And,
			dataframe.F{Colname: "BorrowerRate", Comparator: series.CompFunc,
				Comparando: func(el series.Element) bool { return !el.IsNA() }},
		)
		if rated.Nrow() > 0 {
			col := rated.Col("BorrowerRate")
			s.MeanRate = col.Mean()
			s.MedianRate = col.Median()
		}
		out = append(out, s)
	}
	return out
}

// ByQuarter returns per-quarter counts and exact originated-dollar totals.
// Quarters are sorted lexically, which for the normalized "<year> Q<n>"
// format is chronological order.
func ByQuarter(loans []clean.Loan) []QuarterSummary {
	counts := make(map[string]int)
	totals := make(map[string]decimal.Decimal)
	for _, ln := range loans {
		counts[ln.Quarter]++
		if !math.IsNaN(ln.Amount) {
			totals[ln.Quarter] = totals[ln.Quarter].Add(decimal.NewFromFloat(ln.Amount))
		}
	}
	quarters := make([]string, 0, len(counts))
	for q := range counts {
		quarters = append(quarters, q)
	}
	sort.Strings(quarters)

	out := make([]QuarterSummary, 0, len(quarters))
	for _, q := range quarters {
		out = append(out, QuarterSummary{Quarter: q, Count: counts[q], Originated: totals[q]})
	}
	return out
}

// ByCategory returns listing counts in category-table order (code 0-20).
func ByCategory(loans []clean.Loan) []CategorySummary {
	counts := make(map[string]int)
	for _, ln := range loans {
		counts[ln.Category]++
	}
	out := make([]CategorySummary, 0, 21)
	for code := 0; code <= 20; code++ {
		name, err := clean.Category(code)
		if err != nil {
			continue
		}
		out = append(out, CategorySummary{Category: name, Count: counts[name]})
	}
	return out
}

// ByStatus returns listing counts per collapsed status.
func ByStatus(loans []clean.Loan) []StatusSummary {
	counts := make(map[clean.Status]int)
	for _, ln := range loans {
		counts[ln.Status]++
	}
	out := make([]StatusSummary, 0, 7)
	for _, s := range clean.Statuses() {
		out = append(out, StatusSummary{Status: s, Count: counts[s]})
	}
	return out
}
