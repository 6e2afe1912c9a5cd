package clean

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/invertedv/chutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invertedv/prosper/raw"
)

// rowDefaults covers the columns Records reads. The remaining columns get a
// type-appropriate filler in listingsCSV; a filler that fails validation only
// turns into the field's missing value, which Records handles anyway.
var rowDefaults = map[string]string{
	"ListingNumber":             "1001",
	"Term":                      "36",
	"LoanStatus":                "Current",
	"BorrowerAPR":               "0.2",
	"BorrowerRate":              "0.18",
	"LenderYield":               "0.17",
	"CreditGrade":               "",
	"ProsperRating (Alpha)":     "C",
	"ProsperScore":              "7",
	"ListingCategory (numeric)": "1",
	"BorrowerState":             "CA",
	"EmploymentStatus":          "Employed",
	"IsBorrowerHomeowner":       "True",
	"DebtToIncomeRatio":         "0.2",
	"StatedMonthlyIncome":       "5000",
	"AvailableBankcardCredit":   "4000",
	"LoanOriginalAmount":        "10000",
	"LoanOriginationDate":       "2009-09-12 00:00:00",
	"LoanOriginationQuarter":    "Q3 2009",
	"Investors":                 "50",
}

// listingsCSV writes a listings file with one row per override map
// (column name -> value) and returns a loaded raw.Table.
func listingsCSV(t *testing.T, rows ...map[string]string) *raw.Table {
	t.Helper()
	td := raw.Build()

	var b strings.Builder
	for i := 0; i < len(td.FieldDefs); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(td.FieldDefs[i].Name)
	}
	b.WriteByte('\n')

	for _, over := range rows {
		for i := 0; i < len(td.FieldDefs); i++ {
			fd := td.FieldDefs[i]
			if i > 0 {
				b.WriteByte(',')
			}
			v, ok := over[fd.Name]
			if !ok {
				if v, ok = rowDefaults[fd.Name]; !ok {
					switch fd.ChSpec.Base {
					case chutils.ChInt:
						v = "0"
					case chutils.ChFloat:
						v = "0"
					case chutils.ChDate:
						v = "2009-01-01 00:00:00"
					default:
						v = ""
					}
				}
			}
			b.WriteString(v)
		}
		b.WriteByte('\n')
	}

	fileName := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(fileName, []byte(b.String()), 0644))

	tbl, err := raw.Load(fileName)
	require.NoError(t, err)
	return tbl
}

func TestCategory(t *testing.T) {
	name, err := Category(0)
	require.NoError(t, err)
	assert.Equal(t, "Not Available", name)

	name, err = Category(1)
	require.NoError(t, err)
	assert.Equal(t, "Debt Consolidation", name)

	name, err = Category(20)
	require.NoError(t, err)
	assert.Equal(t, "Wedding Loans", name)

	_, err = Category(-1)
	assert.True(t, errors.Is(err, ErrInvalidCategoryCode))

	_, err = Category(21)
	assert.True(t, errors.Is(err, ErrInvalidCategoryCode))
}

func TestQuarter(t *testing.T) {
	q, err := Quarter("Q2 2009")
	require.NoError(t, err)
	assert.Equal(t, "2009 Q2", q)

	q, err = Quarter("Q4 2013")
	require.NoError(t, err)
	assert.Equal(t, "2013 Q4", q)

	for _, bad := range []string{"", "Q22009", "Q2 2009 x"} {
		_, err = Quarter(bad)
		assert.True(t, errors.Is(err, ErrMalformedQuarter), bad)
	}
}

// normalized quarters sort lexically into chronological order
func TestQuarterOrder(t *testing.T) {
	chrono := make([]string, 0, 32)
	for year := 2006; year <= 2013; year++ {
		for qn := 1; qn <= 4; qn++ {
			q, err := Quarter(fmt.Sprintf("Q%d %d", qn, year))
			require.NoError(t, err)
			chrono = append(chrono, q)
		}
	}
	sorted := append([]string{}, chrono...)
	sort.Strings(sorted)
	assert.Equal(t, chrono, sorted)
}

func ExampleQuarter() {
	q, _ := Quarter("Q2 2009")
	fmt.Println(q)
	// Output:
	// 2009 Q2
}

func TestDeriveRating(t *testing.T) {
	cases := []struct {
		grade, prosper string
		rating         Rating
	}{
		{"", "", RatingNone},
		{"NC", "", RatingNone},
		{"AA", "", RatingAA},
		{"HR", "", RatingHR},
		{"", "A", RatingA},
		{"", "C", RatingC},
		{"E", "", RatingE},
	}
	for _, c := range cases {
		r, err := DeriveRating(c.grade, c.prosper)
		require.NoError(t, err, c)
		assert.Equal(t, c.rating, r, c)
	}

	// both schemes populated, or a code outside the set
	for _, c := range [][2]string{{"AA", "C"}, {"Z", ""}, {"", "ZZ"}} {
		_, err := DeriveRating(c[0], c[1])
		assert.True(t, errors.Is(err, ErrUnknownCreditCode), c)
	}
}

func TestCollapseStatus(t *testing.T) {
	pastDue := []string{
		"Past Due (1-15 days)", "Past Due (16-30 days)", "Past Due (31-60 days)",
		"Past Due (61-90 days)", "Past Due (91-120 days)", "Past Due (>120 days)",
	}
	for _, rawStatus := range pastDue {
		st, ok := CollapseStatus(rawStatus)
		assert.Equal(t, StatusPastDue, st, rawStatus)
		assert.True(t, ok, rawStatus)
	}

	for rawStatus, want := range map[string]Status{
		"Cancelled":              StatusCancelled,
		"Chargedoff":             StatusChargedoff,
		"Completed":              StatusCompleted,
		"Current":                StatusCurrent,
		"Defaulted":              StatusDefaulted,
		"FinalPaymentInProgress": StatusFinalPayment,
	} {
		st, ok := CollapseStatus(rawStatus)
		assert.Equal(t, want, st, rawStatus)
		assert.True(t, ok, rawStatus)
	}

	st, ok := CollapseStatus("Pastdue")
	assert.Equal(t, StatusPastDue, st)
	assert.False(t, ok)
}

func TestRecords(t *testing.T) {
	tbl := listingsCSV(t,
		map[string]string{},
		map[string]string{
			"LoanStatus":            "Past Due (16-30 days)",
			"CreditGrade":           "AA",
			"ProsperRating (Alpha)": "",
			"DebtToIncomeRatio":     "",
			"Investors":             "",
			"IsBorrowerHomeowner":   "False",
		},
		map[string]string{"LoanStatus": "In Review"},
	)

	loans, err := Records(tbl, Options{})
	require.NoError(t, err)
	require.Equal(t, 3, len(loans))

	ln := loans[0]
	assert.Equal(t, 1001, ln.ListingNumber)
	assert.Equal(t, RatingC, ln.Rating)
	assert.Equal(t, "Debt Consolidation", ln.Category)
	assert.Equal(t, 1, ln.CategoryCode)
	assert.Equal(t, "2009 Q3", ln.Quarter)
	assert.Equal(t, StatusCurrent, ln.Status)
	assert.True(t, ln.StatusMapped)
	assert.True(t, ln.Homeowner)
	assert.Equal(t, 0.18, ln.BorrowerRate)
	assert.Equal(t, 50, ln.Investors)
	assert.Equal(t, 2009, ln.OriginationDt.Year())

	ln = loans[1]
	assert.Equal(t, RatingAA, ln.Rating)
	assert.Equal(t, StatusPastDue, ln.Status)
	assert.True(t, ln.StatusMapped)
	assert.False(t, ln.Homeowner)
	assert.True(t, math.IsNaN(ln.DTI))
	assert.Equal(t, -1, ln.Investors)

	ln = loans[2]
	assert.Equal(t, StatusPastDue, ln.Status)
	assert.False(t, ln.StatusMapped)
}

func TestRecordsStrict(t *testing.T) {
	tbl := listingsCSV(t, map[string]string{"LoanStatus": "In Review"})

	_, err := Records(tbl, Options{Strict: true})
	assert.True(t, errors.Is(err, ErrUnknownStatus))

	loans, err := Records(tbl, Options{Strict: false})
	require.NoError(t, err)
	assert.False(t, loans[0].StatusMapped)
}

func TestRecordsFatal(t *testing.T) {
	tbl := listingsCSV(t, map[string]string{"ListingCategory (numeric)": "25"})
	_, err := Records(tbl, Options{})
	assert.True(t, errors.Is(err, ErrInvalidCategoryCode))

	tbl = listingsCSV(t, map[string]string{"LoanOriginationQuarter": "Q32009"})
	_, err = Records(tbl, Options{})
	assert.True(t, errors.Is(err, ErrMalformedQuarter))

	tbl = listingsCSV(t, map[string]string{"CreditGrade": "Z", "ProsperRating (Alpha)": ""})
	_, err = Records(tbl, Options{})
	assert.True(t, errors.Is(err, ErrUnknownCreditCode))
}
