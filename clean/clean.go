// Package clean derives the analytical fields from the raw listings table:
// resolved listing category, normalized origination quarter, the ordered
// credit rating and the collapsed loan status. Cleaning is one pass, never
// mutates the raw table and is deterministic: the same raw table always
// yields the same cleaned slice.
package clean

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/invertedv/chutils"
	"github.com/invertedv/prosper/raw"
)

// Fatal cleaning errors. Each is wrapped with the field name and the
// offending raw value; any of these aborts the run (the input does not match
// the expected schema).
var (
	ErrInvalidCategoryCode = errors.New("invalid listing category code")
	ErrMalformedQuarter    = errors.New("malformed origination quarter")
	ErrUnknownCreditCode   = errors.New("unknown credit rating code")
	ErrUnknownStatus       = errors.New("unknown loan status")
)

// Rating is the 7-level creditworthiness bucket, ordered best (AA) to worst
// (HR). It merges the pre-2009 credit grade and the post-2009 Prosper
// rating. RatingNone means the listing carries no rating. The numeric order
// of the constants is the credit order and is relied on downstream.
type Rating int

const (
	RatingNone Rating = iota
	RatingAA
	RatingA
	RatingB
	RatingC
	RatingD
	RatingE
	RatingHR
)

var ratingName = map[Rating]string{
	RatingAA: "AA", RatingA: "A", RatingB: "B", RatingC: "C",
	RatingD: "D", RatingE: "E", RatingHR: "HR",
}

func (r Rating) String() string {
	if s, ok := ratingName[r]; ok {
		return s
	}
	return "NA"
}

// Ratings returns the seven levels best to worst.
func Ratings() []Rating {
	return []Rating{RatingAA, RatingA, RatingB, RatingC, RatingD, RatingE, RatingHR}
}

// DeriveRating merges the two historical rating schemes into one ordered
// rating. At most one of grade (pre-cutover) and prosper (post-cutover) is
// expected to be populated; the two are concatenated and the result mapped.
// Empty and the "NC" (no credit) sentinel map to RatingNone.
func DeriveRating(grade, prosper string) (Rating, error) {
	code := grade + prosper
	switch code {
	case "", "NC":
		return RatingNone, nil
	case "AA":
		return RatingAA, nil
	case "A":
		return RatingA, nil
	case "B":
		return RatingB, nil
	case "C":
		return RatingC, nil
	case "D":
		return RatingD, nil
	case "E":
		return RatingE, nil
	case "HR":
		return RatingHR, nil
	}
	return RatingNone, fmt.Errorf("%w: %q", ErrUnknownCreditCode, code)
}

// Status is the collapsed loan status: the six "past due, N days" sub-buckets
// of the source merge into StatusPastDue, everything else passes through.
type Status int

const (
	StatusCancelled Status = iota
	StatusChargedoff
	StatusCompleted
	StatusCurrent
	StatusDefaulted
	StatusFinalPayment
	StatusPastDue
)

var statusName = map[Status]string{
	StatusCancelled:    "Cancelled",
	StatusChargedoff:   "Chargedoff",
	StatusCompleted:    "Completed",
	StatusCurrent:      "Current",
	StatusDefaulted:    "Defaulted",
	StatusFinalPayment: "FinalPaymentInProgress",
	StatusPastDue:      "Past Due",
}

func (s Status) String() string {
	if n, ok := statusName[s]; ok {
		return n
	}
	return "Past Due"
}

// Statuses returns the collapsed levels in display order.
func Statuses() []Status {
	return []Status{StatusCancelled, StatusChargedoff, StatusCompleted,
		StatusCurrent, StatusDefaulted, StatusFinalPayment, StatusPastDue}
}

// CollapseStatus maps a raw loan status onto the collapsed set. The second
// return is false when the raw value was not recognized and fell through to
// the historical Past Due default (Options.Strict turns that into a fatal
// error in Records).
func CollapseStatus(rawStatus string) (Status, bool) {
	switch rawStatus {
	case "Cancelled":
		return StatusCancelled, true
	case "Chargedoff":
		return StatusChargedoff, true
	case "Completed":
		return StatusCompleted, true
	case "Current":
		return StatusCurrent, true
	case "Defaulted":
		return StatusDefaulted, true
	case "FinalPaymentInProgress":
		return StatusFinalPayment, true
	}
	if strings.HasPrefix(rawStatus, "Past Due") {
		return StatusPastDue, true
	}
	return StatusPastDue, false
}

// categories is the fixed lookup table for ListingCategory (numeric);
// the code indexes the table directly (0 = Not Available, 20 = Wedding Loans).
var categories = [21]string{
	"Not Available", "Debt Consolidation", "Home Improvement", "Business",
	"Personal Loan", "Student Use", "Auto", "Other", "Baby&Adoption", "Boat",
	"Cosmetic Procedure", "Engagement Ring", "Green Loans",
	"Household Expenses", "Large Purchases", "Medical/Dental",
	"Motorcycle", "RV", "Taxes", "Vacation", "Wedding Loans",
}

// Category resolves a listing category code to its name. A code outside
// 0-20 violates the input contract and fails rather than mislabeling.
func Category(code int) (string, error) {
	if code < 0 || code >= len(categories) {
		return "", fmt.Errorf("%w: %d", ErrInvalidCategoryCode, code)
	}
	return categories[code], nil
}

// Quarter reformats an origination quarter from "Q<n> <year>" to
// "<year> Q<n>" so that lexical order equals chronological order.
func Quarter(rawQuarter string) (string, error) {
	toks := strings.Fields(rawQuarter)
	if len(toks) != 2 {
		return "", fmt.Errorf("%w: %q", ErrMalformedQuarter, rawQuarter)
	}
	return toks[1] + " " + toks[0], nil
}

// Options controls cleaning policy.
type Options struct {
	// Strict fails the run on a loan status outside the known set instead
	// of defaulting it to Past Due.
	Strict bool
}

// Loan is one cleaned listing. Missing numeric values are NaN; RatingNone
// and an empty EmploymentStatus mark the categorical absences. A Loan is
// immutable input to the model and summary packages.
type Loan struct {
	ListingNumber int
	Term          int
	StatusRaw     string
	Status        Status
	StatusMapped  bool
	BorrowerAPR   float64
	BorrowerRate  float64
	LenderYield   float64
	Rating        Rating
	ProsperScore  float64
	CategoryCode  int
	Category      string
	State         string
	Employment    string
	Homeowner     bool
	DTI           float64
	MonthlyIncome float64
	BankcardAvail float64
	Amount        float64
	OriginationDt time.Time
	Quarter       string
	Investors     int
}

// column indexes into the raw table, resolved once
type cols struct {
	lnNum, term, status, apr, rate, yld, grade, prosper, score, cat,
	state, emp, home, dti, income, bankcard, amt, orgDt, qtr, inv int
}

func newCols(tbl *raw.Table) (*cols, error) {
	c := &cols{}
	var err error
	get := func(name string) (ind int) {
		if err != nil {
			return 0
		}
		var e error
		if ind, _, e = tbl.Get(name); e != nil {
			err = e
		}
		return ind
	}
	c.lnNum = get("ListingNumber")
	c.term = get("Term")
	c.status = get("LoanStatus")
	c.apr = get("BorrowerAPR")
	c.rate = get("BorrowerRate")
	c.yld = get("LenderYield")
	c.grade = get("CreditGrade")
	c.prosper = get("ProsperRating (Alpha)")
	c.score = get("ProsperScore")
	c.cat = get("ListingCategory (numeric)")
	c.state = get("BorrowerState")
	c.emp = get("EmploymentStatus")
	c.home = get("IsBorrowerHomeowner")
	c.dti = get("DebtToIncomeRatio")
	c.income = get("StatedMonthlyIncome")
	c.bankcard = get("AvailableBankcardCredit")
	c.amt = get("LoanOriginalAmount")
	c.orgDt = get("LoanOriginationDate")
	c.qtr = get("LoanOriginationQuarter")
	c.inv = get("Investors")
	return c, err
}

// fnum returns the float at ind, NaN if the field failed validation
func fnum(row chutils.Row, valid chutils.Valid, ind int) float64 {
	if valid[ind] != chutils.VPass {
		return math.NaN()
	}
	return row[ind].(float64)
}

func inum(row chutils.Row, valid chutils.Valid, ind int) int {
	if valid[ind] != chutils.VPass {
		return -1
	}
	return int(row[ind].(int32))
}

// Records builds the cleaned slice from the raw table in one pass.
// Structural violations (bad category code, malformed quarter, unknown
// credit code, and unknown status under Strict) abort with the offending
// value and row; everything else is carried through, with missing numerics
// as NaN for the model layer to exclude row-wise.
func Records(tbl *raw.Table, opt Options) ([]Loan, error) {
	c, err := newCols(tbl)
	if err != nil {
		return nil, err
	}

	loans := make([]Loan, 0, tbl.NRows())
	for i, row := range tbl.Rows {
		valid := tbl.Valid[i]

		code := inum(row, valid, c.cat)
		category, e := Category(code)
		if e != nil {
			return nil, fmt.Errorf("row %d, field ListingCategory (numeric): %w", i, e)
		}

		qtr, e := Quarter(row[c.qtr].(string))
		if e != nil {
			return nil, fmt.Errorf("row %d, field LoanOriginationQuarter: %w", i, e)
		}

		rating, e := DeriveRating(row[c.grade].(string), row[c.prosper].(string))
		if e != nil {
			return nil, fmt.Errorf("row %d, fields CreditGrade/ProsperRating (Alpha): %w", i, e)
		}

		statusRaw := row[c.status].(string)
		status, mapped := CollapseStatus(statusRaw)
		if !mapped && opt.Strict {
			return nil, fmt.Errorf("row %d, field LoanStatus: %w: %q", i, ErrUnknownStatus, statusRaw)
		}

		loans = append(loans, Loan{
			ListingNumber: inum(row, valid, c.lnNum),
			Term:          inum(row, valid, c.term),
			StatusRaw:     statusRaw,
			Status:        status,
			StatusMapped:  mapped,
			BorrowerAPR:   fnum(row, valid, c.apr),
			BorrowerRate:  fnum(row, valid, c.rate),
			LenderYield:   fnum(row, valid, c.yld),
			Rating:        rating,
			ProsperScore:  fnum(row, valid, c.score),
			CategoryCode:  code,
			Category:      category,
			State:         row[c.state].(string),
			Employment:    row[c.emp].(string),
			Homeowner:     row[c.home].(string) == "True",
			DTI:           fnum(row, valid, c.dti),
			MonthlyIncome: fnum(row, valid, c.income),
			BankcardAvail: fnum(row, valid, c.bankcard),
			Amount:        fnum(row, valid, c.amt),
			OriginationDt: row[c.orgDt].(time.Time),
			Quarter:       qtr,
			Investors:     inum(row, valid, c.inv),
		})
	}
	return loans, nil
}

// EmploymentLevels is the closed set of employment statuses; "Employed" is
// the reference level in the model design matrix. Blank means not reported.
var EmploymentLevels = []string{"Employed", "Full-time", "Not available",
	"Not employed", "Other", "Part-time", "Retired", "Self-employed"}
