package raw

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/invertedv/chutils"
	"github.com/invertedv/chutils/file"
)

// Table holds the listings extract in memory: one chutils.Row per listing in
// file order plus the per-field validation results from the read. The table
// is never mutated after Load returns.
type Table struct {
	td    *chutils.TableDef
	Rows  []chutils.Row
	Valid []chutils.Valid
}

// TableSpec returns the TableDef the rows were validated against.
func (t *Table) TableSpec() *chutils.TableDef {
	return t.td
}

// NRows returns the number of listings read.
func (t *Table) NRows() int {
	return len(t.Rows)
}

// Get returns the index and FieldDef of a field by name.
func (t *Table) Get(name string) (int, *chutils.FieldDef, error) {
	return t.td.Get(name)
}

// Load reads the listings CSV once and returns it as an in-memory Table.
// The file is read with the Build() spec attached, so each value arrives
// typed and range/level checked. Read errors are fatal; value and type
// failures are recorded per field in Valid and resolved downstream.
func Load(sourceFile string) (t *Table, err error) {
	f, err := os.Open(sourceFile)
	if err != nil {
		return nil, err
	}
	rdr := file.NewReader(sourceFile, ',', '\n', '"', 0, 1, 0, f, 6000000)
	rdr.Skip = 1 // header row
	defer func() {
		// don't throw an error if we already have one
		if e := rdr.Close(); e != nil && err == nil {
			err = e
		}
	}()
	rdr.SetTableSpec(Build())
	if e := rdr.TableSpec().Check(); e != nil {
		return nil, e
	}

	t = &Table{td: rdr.TableSpec()}
	for {
		data, valid, e := rdr.Read(50000, true)
		if len(data) > 0 {
			t.Rows = append(t.Rows, data...)
			t.Valid = append(t.Valid, valid...)
		}
		if e == io.EOF {
			break
		}
		if e != nil {
			return nil, fmt.Errorf("reading %s: %w", sourceFile, e)
		}
	}
	if t.NRows() == 0 {
		return nil, fmt.Errorf("%s has no data rows", sourceFile)
	}
	return t, nil
}

// Build builds the TableDef for the listings extract. Field order matches
// the file column order; names are kept bit-for-bit from the source header,
// including "ProsperRating (Alpha)" and "ListingCategory (numeric)".
func Build() *chutils.TableDef {
	var (
		// date ranges & missing value
		minDt  = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
		orgDt  = time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC)
		nowDt  = time.Now()
		missDt = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

		strMiss = ""
		dtFmt   = "2006-01-02 15:04:05"

		termMin, termMax, termMiss = int32(1), int32(600), int32(-1)

		aprMin, aprMax, aprMiss    = 0.0, 1.0, -1.0
		rateMin, rateMax, rateMiss = 0.0, 1.0, -1.0
		yldMin, yldMax, yldMiss    = -1.0, 1.0, -9.0

		pRatingMin, pRatingMax, pRatingMiss = int32(1), int32(7), int32(-1)
		pScoreMin, pScoreMax, pScoreMiss    = 1.0, 11.0, -1.0

		catMiss = int32(-1)

		stateMiss = "XX"
		stateLvl  = []string{"AK", "AL", "AR", "AZ", "CA", "CO", "CT", "DC", "DE", "FL", "GA", "HI", "IA", "ID",
			"IL", "IN", "KS", "KY", "LA", "MA", "MD", "ME", "MI", "MN", "MO", "MS", "MT", "NC", "ND",
			"NE", "NH", "NJ", "NM", "NV", "NY", "OH", "OK", "OR", "PA", "RI", "SC", "SD", "TN",
			"TX", "UT", "VA", "VT", "WA", "WI", "WV", "WY"}

		empLvl = []string{"Employed", "Full-time", "Not available", "Not employed", "Other",
			"Part-time", "Retired", "Self-employed", ""}

		boolLvl  = []string{"True", "False"}
		boolMiss = ""

		empDurMin, empDurMax, empDurMiss = int32(0), int32(1200), int32(-1)

		scoreLoMin, scoreLoMax, scoreMiss = int32(0), int32(900), int32(-1)

		linesMin, linesMax, linesMiss = int32(0), int32(300), int32(-1)

		revPayMin, revPayMax, revPayMiss = 0.0, 100000.0, -1.0
		inqMin, inqMax, inqMiss          = int32(0), int32(400), int32(-1)
		delqMin, delqMax, delqMiss       = int32(0), int32(150), int32(-1)
		amtDelqMin, amtDelqMax           = 0.0, 1500000.0
		pubRecMin, pubRecMax, pubRecMiss = int32(0), int32(50), int32(-1)
		revBalMin, revBalMax             = 0.0, 2000000.0
		utilMin, utilMax, utilMiss       = 0.0, 5.0, -1.0
		bankcardMin, bankcardMax         = 0.0, 1000000.0
		tradesMin, tradesMax, tradesMiss = int32(0), int32(200), int32(-1)
		pctTradesMin, pctTradesMax       = 0.0, 1.0

		dtiMin, dtiMax, dtiMiss = 0.0, 11.0, -1.0

		incRngLvl = []string{"$0", "$1-24,999", "$25,000-49,999", "$50,000-74,999",
			"$75,000-99,999", "$100,000+", "Not displayed", "Not employed"}
		incRngMiss = "Not displayed"

		incMin, incMax, incMiss = 0.0, 2000000.0, -1.0

		pLoansMin, pLoansMax, pLoansMiss = int32(0), int32(100), int32(-1)
		pPayMin, pPayMax, pPayMiss       = int32(0), int32(2000), int32(-1)
		pPrinMin, pPrinMax, pPrinMiss    = 0.0, 500000.0, -1.0

		scorexMin, scorexMax, scorexMiss = int32(-300), int32(300), int32(-999)

		daysDqMin, daysDqMax, daysDqMiss = int32(0), int32(4000), int32(-1)
		cycleMin, cycleMax, cycleMiss    = int32(0), int32(100), int32(-1)
		lnAgeMin, lnAgeMax, lnAgeMiss    = int32(0), int32(120), int32(-1)
		lnNumMin, lnNumMax, lnNumMiss    = int32(0), int32(2000000), int32(-1)

		amtMin, amtMax, amtMiss = 1000.0, 35000.0, -1.0

		payMin, payMax, payMiss = 0.0, 3000.0, -1.0

		lpMin, lpMax, lpMiss = -100000.0, 1000000.0, -1.0

		fundedMin, fundedMax, fundedMiss = 0.0, 1.1, -1.0

		recMin, recMax, recMiss       = int32(0), int32(100), int32(-1)
		frAmtMin, frAmtMax, frAmtMiss = 0.0, 50000.0, -1.0
		invMin, invMax, invMiss       = int32(0), int32(2000), int32(-1)
	)

	fds := make(map[int]*chutils.FieldDef)

	fd := &chutils.FieldDef{
		Name:        "ListingKey",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "unique key for each listing",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[0] = fd

	fd = &chutils.FieldDef{
		Name:        "ListingNumber",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "listing number, missing=" + fmt.Sprintf("%v", lnNumMiss),
		Legal:       &chutils.LegalValues{LowLimit: lnNumMin, HighLimit: lnNumMax},
		Missing:     lnNumMiss,
	}
	fds[1] = fd

	// sub-second precision, kept as text
	fd = &chutils.FieldDef{
		Name:        "ListingCreationDate",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "date the listing was created (timestamp with ns)",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[2] = fd

	// populated only for loans originated before the 2009 cutover.
	// no Levels here: the clean package owns the grade taxonomy so that a
	// bad code fails the run instead of being silently remapped.
	fd = &chutils.FieldDef{
		Name:        "CreditGrade",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "pre-2009 credit grade: AA-HR, NC, blank after cutover",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[3] = fd

	fd = &chutils.FieldDef{
		Name:        "Term",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "loan term in months, missing=" + fmt.Sprintf("%v", termMiss),
		Legal:       &chutils.LegalValues{LowLimit: termMin, HighLimit: termMax},
		Missing:     termMiss,
	}
	fds[4] = fd

	// no Levels: unmapped statuses are resolved by the clean package
	// (permissive or strict, see clean.Options)
	fd = &chutils.FieldDef{
		Name:        "LoanStatus",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "loan status incl. six past-due sub-buckets",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[5] = fd

	fd = &chutils.FieldDef{
		Name:        "ClosedDate",
		ChSpec:      chutils.ChField{Base: chutils.ChDate, Format: dtFmt},
		Description: "closed date, missing=" + missDt.Format("2006/1/2"),
		Legal:       &chutils.LegalValues{LowLimit: orgDt, HighLimit: nowDt},
		Missing:     missDt,
	}
	fds[6] = fd

	fd = &chutils.FieldDef{
		Name:        "BorrowerAPR",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "borrower APR as a fraction, 0-1, missing=" + fmt.Sprintf("%v", aprMiss),
		Legal:       &chutils.LegalValues{LowLimit: aprMin, HighLimit: aprMax},
		Missing:     aprMiss,
	}
	fds[7] = fd

	fd = &chutils.FieldDef{
		Name:        "BorrowerRate",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "borrower interest rate as a fraction, 0-1, missing=" + fmt.Sprintf("%v", rateMiss),
		Legal:       &chutils.LegalValues{LowLimit: rateMin, HighLimit: rateMax},
		Missing:     rateMiss,
	}
	fds[8] = fd

	fd = &chutils.FieldDef{
		Name:        "LenderYield",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "rate less servicing fee, missing=" + fmt.Sprintf("%v", yldMiss),
		Legal:       &chutils.LegalValues{LowLimit: yldMin, HighLimit: yldMax},
		Missing:     yldMiss,
	}
	fds[9] = fd

	fd = &chutils.FieldDef{
		Name:        "EstimatedEffectiveYield",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "estimated yield net of fees and losses (2009+), missing=" + fmt.Sprintf("%v", yldMiss),
		Legal:       &chutils.LegalValues{LowLimit: yldMin, HighLimit: yldMax},
		Missing:     yldMiss,
	}
	fds[10] = fd

	fd = &chutils.FieldDef{
		Name:        "EstimatedLoss",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "estimated principal loss rate (2009+), missing=" + fmt.Sprintf("%v", yldMiss),
		Legal:       &chutils.LegalValues{LowLimit: yldMin, HighLimit: yldMax},
		Missing:     yldMiss,
	}
	fds[11] = fd

	fd = &chutils.FieldDef{
		Name:        "EstimatedReturn",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "estimated return (2009+), missing=" + fmt.Sprintf("%v", yldMiss),
		Legal:       &chutils.LegalValues{LowLimit: yldMin, HighLimit: yldMax},
		Missing:     yldMiss,
	}
	fds[12] = fd

	fd = &chutils.FieldDef{
		Name:        "ProsperRating (numeric)",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "Prosper rating 1 (HR) - 7 (AA), 2009+, missing=" + fmt.Sprintf("%v", pRatingMiss),
		Legal:       &chutils.LegalValues{LowLimit: pRatingMin, HighLimit: pRatingMax},
		Missing:     pRatingMiss,
	}
	fds[13] = fd

	// taxonomy owned by the clean package, see CreditGrade
	fd = &chutils.FieldDef{
		Name:        "ProsperRating (Alpha)",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "post-2009 Prosper rating: AA-HR, blank before cutover",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[14] = fd

	fd = &chutils.FieldDef{
		Name:        "ProsperScore",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "custom risk score, 1-11, 2009+, missing=" + fmt.Sprintf("%v", pScoreMiss),
		Legal:       &chutils.LegalValues{LowLimit: pScoreMin, HighLimit: pScoreMax},
		Missing:     pScoreMiss,
	}
	fds[15] = fd

	// no range limits: an out-of-range code must reach the clean package
	// intact so the run fails with the offending value
	fd = &chutils.FieldDef{
		Name:        "ListingCategory (numeric)",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "listing category code 0-20, missing=" + fmt.Sprintf("%v", catMiss),
		Legal:       &chutils.LegalValues{},
		Missing:     catMiss,
	}
	fds[16] = fd

	fd = &chutils.FieldDef{
		Name:        "BorrowerState",
		ChSpec:      chutils.ChField{Base: chutils.ChFixedString, Length: 2},
		Description: "borrower state postal abbreviation, missing=" + stateMiss,
		Legal:       &chutils.LegalValues{Levels: stateLvl},
		Missing:     stateMiss,
	}
	fds[17] = fd

	fd = &chutils.FieldDef{
		Name:        "Occupation",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "borrower occupation at listing time",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[18] = fd

	fd = &chutils.FieldDef{
		Name:        "EmploymentStatus",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "employment status, may be blank",
		Legal:       &chutils.LegalValues{Levels: empLvl},
		Missing:     strMiss,
	}
	fds[19] = fd

	fd = &chutils.FieldDef{
		Name:        "EmploymentStatusDuration",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "months in current employment status, missing=" + fmt.Sprintf("%v", empDurMiss),
		Legal:       &chutils.LegalValues{LowLimit: empDurMin, HighLimit: empDurMax},
		Missing:     empDurMiss,
	}
	fds[20] = fd

	fd = &chutils.FieldDef{
		Name:        "IsBorrowerHomeowner",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "True if borrower owns a home or has a mortgage",
		Legal:       &chutils.LegalValues{Levels: boolLvl},
		Missing:     boolMiss,
	}
	fds[21] = fd

	fd = &chutils.FieldDef{
		Name:        "CurrentlyInGroup",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "True if borrower was in a group at listing time",
		Legal:       &chutils.LegalValues{Levels: boolLvl},
		Missing:     boolMiss,
	}
	fds[22] = fd

	fd = &chutils.FieldDef{
		Name:        "GroupKey",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "group key, blank if not in a group",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[23] = fd

	// sub-second precision, kept as text
	fd = &chutils.FieldDef{
		Name:        "DateCreditPulled",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "date the credit profile was pulled (timestamp with ns)",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[24] = fd

	fd = &chutils.FieldDef{
		Name:        "CreditScoreRangeLower",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "lower bound of credit score range, missing=" + fmt.Sprintf("%v", scoreMiss),
		Legal:       &chutils.LegalValues{LowLimit: scoreLoMin, HighLimit: scoreLoMax},
		Missing:     scoreMiss,
	}
	fds[25] = fd

	fd = &chutils.FieldDef{
		Name:        "CreditScoreRangeUpper",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "upper bound of credit score range, missing=" + fmt.Sprintf("%v", scoreMiss),
		Legal:       &chutils.LegalValues{LowLimit: scoreLoMin, HighLimit: scoreLoMax},
		Missing:     scoreMiss,
	}
	fds[26] = fd

	fd = &chutils.FieldDef{
		Name:        "FirstRecordedCreditLine",
		ChSpec:      chutils.ChField{Base: chutils.ChDate, Format: dtFmt},
		Description: "date of first recorded credit line, missing=" + missDt.Format("2006/1/2"),
		Legal:       &chutils.LegalValues{LowLimit: minDt, HighLimit: nowDt},
		Missing:     missDt,
	}
	fds[27] = fd

	fd = &chutils.FieldDef{
		Name:        "CurrentCreditLines",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "current credit lines, missing=" + fmt.Sprintf("%v", linesMiss),
		Legal:       &chutils.LegalValues{LowLimit: linesMin, HighLimit: linesMax},
		Missing:     linesMiss,
	}
	fds[28] = fd

	fd = &chutils.FieldDef{
		Name:        "OpenCreditLines",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "open credit lines, missing=" + fmt.Sprintf("%v", linesMiss),
		Legal:       &chutils.LegalValues{LowLimit: linesMin, HighLimit: linesMax},
		Missing:     linesMiss,
	}
	fds[29] = fd

	fd = &chutils.FieldDef{
		Name:        "TotalCreditLinespast7years",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "credit lines in the past 7 years, missing=" + fmt.Sprintf("%v", linesMiss),
		Legal:       &chutils.LegalValues{LowLimit: linesMin, HighLimit: linesMax},
		Missing:     linesMiss,
	}
	fds[30] = fd

	fd = &chutils.FieldDef{
		Name:        "OpenRevolvingAccounts",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "open revolving accounts, missing=" + fmt.Sprintf("%v", linesMiss),
		Legal:       &chutils.LegalValues{LowLimit: linesMin, HighLimit: linesMax},
		Missing:     linesMiss,
	}
	fds[31] = fd

	fd = &chutils.FieldDef{
		Name:        "OpenRevolvingMonthlyPayment",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "monthly payment on open revolving accounts, missing=" + fmt.Sprintf("%v", revPayMiss),
		Legal:       &chutils.LegalValues{LowLimit: revPayMin, HighLimit: revPayMax},
		Missing:     revPayMiss,
	}
	fds[32] = fd

	fd = &chutils.FieldDef{
		Name:        "InquiriesLast6Months",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "credit inquiries, past 6 months, missing=" + fmt.Sprintf("%v", inqMiss),
		Legal:       &chutils.LegalValues{LowLimit: inqMin, HighLimit: inqMax},
		Missing:     inqMiss,
	}
	fds[33] = fd

	fd = &chutils.FieldDef{
		Name:        "TotalInquiries",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "total credit inquiries, missing=" + fmt.Sprintf("%v", inqMiss),
		Legal:       &chutils.LegalValues{LowLimit: inqMin, HighLimit: inqMax},
		Missing:     inqMiss,
	}
	fds[34] = fd

	fd = &chutils.FieldDef{
		Name:        "CurrentDelinquencies",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "accounts currently delinquent, missing=" + fmt.Sprintf("%v", delqMiss),
		Legal:       &chutils.LegalValues{LowLimit: delqMin, HighLimit: delqMax},
		Missing:     delqMiss,
	}
	fds[35] = fd

	fd = &chutils.FieldDef{
		Name:        "AmountDelinquent",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "dollars currently delinquent, missing=" + fmt.Sprintf("%v", revPayMiss),
		Legal:       &chutils.LegalValues{LowLimit: amtDelqMin, HighLimit: amtDelqMax},
		Missing:     revPayMiss,
	}
	fds[36] = fd

	fd = &chutils.FieldDef{
		Name:        "DelinquenciesLast7Years",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "delinquencies in the past 7 years, missing=" + fmt.Sprintf("%v", delqMiss),
		Legal:       &chutils.LegalValues{LowLimit: delqMin, HighLimit: delqMax},
		Missing:     delqMiss,
	}
	fds[37] = fd

	fd = &chutils.FieldDef{
		Name:        "PublicRecordsLast10Years",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "public records, past 10 years, missing=" + fmt.Sprintf("%v", pubRecMiss),
		Legal:       &chutils.LegalValues{LowLimit: pubRecMin, HighLimit: pubRecMax},
		Missing:     pubRecMiss,
	}
	fds[38] = fd

	fd = &chutils.FieldDef{
		Name:        "PublicRecordsLast12Months",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "public records, past 12 months, missing=" + fmt.Sprintf("%v", pubRecMiss),
		Legal:       &chutils.LegalValues{LowLimit: pubRecMin, HighLimit: pubRecMax},
		Missing:     pubRecMiss,
	}
	fds[39] = fd

	fd = &chutils.FieldDef{
		Name:        "RevolvingCreditBalance",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "revolving credit balance, missing=" + fmt.Sprintf("%v", revPayMiss),
		Legal:       &chutils.LegalValues{LowLimit: revBalMin, HighLimit: revBalMax},
		Missing:     revPayMiss,
	}
	fds[40] = fd

	fd = &chutils.FieldDef{
		Name:        "BankcardUtilization",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "revolving balance / credit limit, missing=" + fmt.Sprintf("%v", utilMiss),
		Legal:       &chutils.LegalValues{LowLimit: utilMin, HighLimit: utilMax},
		Missing:     utilMiss,
	}
	fds[41] = fd

	fd = &chutils.FieldDef{
		Name:        "AvailableBankcardCredit",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "available bankcard credit in dollars, missing=" + fmt.Sprintf("%v", revPayMiss),
		Legal:       &chutils.LegalValues{LowLimit: bankcardMin, HighLimit: bankcardMax},
		Missing:     revPayMiss,
	}
	fds[42] = fd

	fd = &chutils.FieldDef{
		Name:        "TotalTrades",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "total trade items on credit profile, missing=" + fmt.Sprintf("%v", tradesMiss),
		Legal:       &chutils.LegalValues{LowLimit: tradesMin, HighLimit: tradesMax},
		Missing:     tradesMiss,
	}
	fds[43] = fd

	fd = &chutils.FieldDef{
		Name:        "TradesNeverDelinquent (percentage)",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "share of trades never delinquent, 0-1, missing=" + fmt.Sprintf("%v", utilMiss),
		Legal:       &chutils.LegalValues{LowLimit: pctTradesMin, HighLimit: pctTradesMax},
		Missing:     utilMiss,
	}
	fds[44] = fd

	fd = &chutils.FieldDef{
		Name:        "TradesOpenedLast6Months",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "trades opened in the past 6 months, missing=" + fmt.Sprintf("%v", tradesMiss),
		Legal:       &chutils.LegalValues{LowLimit: tradesMin, HighLimit: tradesMax},
		Missing:     tradesMiss,
	}
	fds[45] = fd

	// dti is capped at 10.01 in the source data
	fd = &chutils.FieldDef{
		Name:        "DebtToIncomeRatio",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "debt to income ratio as a fraction, capped at 10.01, missing=" + fmt.Sprintf("%v", dtiMiss),
		Legal:       &chutils.LegalValues{LowLimit: dtiMin, HighLimit: dtiMax},
		Missing:     dtiMiss,
	}
	fds[46] = fd

	fd = &chutils.FieldDef{
		Name:        "IncomeRange",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "stated income bucket, missing=" + incRngMiss,
		Legal:       &chutils.LegalValues{Levels: incRngLvl},
		Missing:     incRngMiss,
	}
	fds[47] = fd

	fd = &chutils.FieldDef{
		Name:        "IncomeVerifiable",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "True if income documentation was available",
		Legal:       &chutils.LegalValues{Levels: boolLvl},
		Missing:     boolMiss,
	}
	fds[48] = fd

	fd = &chutils.FieldDef{
		Name:        "StatedMonthlyIncome",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "stated monthly income in dollars, missing=" + fmt.Sprintf("%v", incMiss),
		Legal:       &chutils.LegalValues{LowLimit: incMin, HighLimit: incMax},
		Missing:     incMiss,
	}
	fds[49] = fd

	fd = &chutils.FieldDef{
		Name:        "LoanKey",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "unique key for each loan",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[50] = fd

	fd = &chutils.FieldDef{
		Name:        "TotalProsperLoans",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "prior Prosper loans, missing=" + fmt.Sprintf("%v", pLoansMiss),
		Legal:       &chutils.LegalValues{LowLimit: pLoansMin, HighLimit: pLoansMax},
		Missing:     pLoansMiss,
	}
	fds[51] = fd

	fd = &chutils.FieldDef{
		Name:        "TotalProsperPaymentsBilled",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "prior Prosper payments billed, missing=" + fmt.Sprintf("%v", pPayMiss),
		Legal:       &chutils.LegalValues{LowLimit: pPayMin, HighLimit: pPayMax},
		Missing:     pPayMiss,
	}
	fds[52] = fd

	fd = &chutils.FieldDef{
		Name:        "OnTimeProsperPayments",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "prior Prosper payments on time, missing=" + fmt.Sprintf("%v", pPayMiss),
		Legal:       &chutils.LegalValues{LowLimit: pPayMin, HighLimit: pPayMax},
		Missing:     pPayMiss,
	}
	fds[53] = fd

	fd = &chutils.FieldDef{
		Name:        "ProsperPaymentsLessThanOneMonthLate",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "prior Prosper payments <1 month late, missing=" + fmt.Sprintf("%v", pPayMiss),
		Legal:       &chutils.LegalValues{LowLimit: pPayMin, HighLimit: pPayMax},
		Missing:     pPayMiss,
	}
	fds[54] = fd

	fd = &chutils.FieldDef{
		Name:        "ProsperPaymentsOneMonthPlusLate",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "prior Prosper payments 1+ month late, missing=" + fmt.Sprintf("%v", pPayMiss),
		Legal:       &chutils.LegalValues{LowLimit: pPayMin, HighLimit: pPayMax},
		Missing:     pPayMiss,
	}
	fds[55] = fd

	fd = &chutils.FieldDef{
		Name:        "ProsperPrincipalBorrowed",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "prior Prosper principal borrowed, missing=" + fmt.Sprintf("%v", pPrinMiss),
		Legal:       &chutils.LegalValues{LowLimit: pPrinMin, HighLimit: pPrinMax},
		Missing:     pPrinMiss,
	}
	fds[56] = fd

	fd = &chutils.FieldDef{
		Name:        "ProsperPrincipalOutstanding",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "prior Prosper principal outstanding, missing=" + fmt.Sprintf("%v", pPrinMiss),
		Legal:       &chutils.LegalValues{LowLimit: pPrinMin, HighLimit: pPrinMax},
		Missing:     pPrinMiss,
	}
	fds[57] = fd

	fd = &chutils.FieldDef{
		Name:        "ScorexChangeAtTimeOfListing",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "credit score change at listing, -300 to 300, missing=" + fmt.Sprintf("%v", scorexMiss),
		Legal:       &chutils.LegalValues{LowLimit: scorexMin, HighLimit: scorexMax},
		Missing:     scorexMiss,
	}
	fds[58] = fd

	fd = &chutils.FieldDef{
		Name:        "LoanCurrentDaysDelinquent",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "days delinquent, missing=" + fmt.Sprintf("%v", daysDqMiss),
		Legal:       &chutils.LegalValues{LowLimit: daysDqMin, HighLimit: daysDqMax},
		Missing:     daysDqMiss,
	}
	fds[59] = fd

	fd = &chutils.FieldDef{
		Name:        "LoanFirstDefaultedCycleNumber",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "cycle the loan first defaulted, missing=" + fmt.Sprintf("%v", cycleMiss),
		Legal:       &chutils.LegalValues{LowLimit: cycleMin, HighLimit: cycleMax},
		Missing:     cycleMiss,
	}
	fds[60] = fd

	fd = &chutils.FieldDef{
		Name:        "LoanMonthsSinceOrigination",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "loan age in months, missing=" + fmt.Sprintf("%v", lnAgeMiss),
		Legal:       &chutils.LegalValues{LowLimit: lnAgeMin, HighLimit: lnAgeMax},
		Missing:     lnAgeMiss,
	}
	fds[61] = fd

	fd = &chutils.FieldDef{
		Name:        "LoanNumber",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "loan number, missing=" + fmt.Sprintf("%v", lnNumMiss),
		Legal:       &chutils.LegalValues{LowLimit: lnNumMin, HighLimit: lnNumMax},
		Missing:     lnNumMiss,
	}
	fds[62] = fd

	fd = &chutils.FieldDef{
		Name:        "LoanOriginalAmount",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "original loan amount, 1000-35000, missing=" + fmt.Sprintf("%v", amtMiss),
		Legal:       &chutils.LegalValues{LowLimit: amtMin, HighLimit: amtMax},
		Missing:     amtMiss,
	}
	fds[63] = fd

	fd = &chutils.FieldDef{
		Name:        "LoanOriginationDate",
		ChSpec:      chutils.ChField{Base: chutils.ChDate, Format: dtFmt},
		Description: "loan origination date, missing=" + missDt.Format("2006/1/2"),
		Legal:       &chutils.LegalValues{LowLimit: orgDt, HighLimit: nowDt},
		Missing:     missDt,
	}
	fds[64] = fd

	// format validated downstream: clean.Quarter fails the run on anything
	// that is not "Q<n> <year>"
	fd = &chutils.FieldDef{
		Name:        "LoanOriginationQuarter",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "origination quarter as Q<n> <year>",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[65] = fd

	fd = &chutils.FieldDef{
		Name:        "MemberKey",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "unique key for the borrower",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[66] = fd

	fd = &chutils.FieldDef{
		Name:        "MonthlyLoanPayment",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "scheduled monthly payment, missing=" + fmt.Sprintf("%v", payMiss),
		Legal:       &chutils.LegalValues{LowLimit: payMin, HighLimit: payMax},
		Missing:     payMiss,
	}
	fds[67] = fd

	fd = &chutils.FieldDef{
		Name:        "LP_CustomerPayments",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "cumulative payments made by borrower, missing=" + fmt.Sprintf("%v", lpMiss),
		Legal:       &chutils.LegalValues{LowLimit: lpMin, HighLimit: lpMax},
		Missing:     lpMiss,
	}
	fds[68] = fd

	fd = &chutils.FieldDef{
		Name:        "LP_CustomerPrincipalPayments",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "cumulative principal paid by borrower, missing=" + fmt.Sprintf("%v", lpMiss),
		Legal:       &chutils.LegalValues{LowLimit: lpMin, HighLimit: lpMax},
		Missing:     lpMiss,
	}
	fds[69] = fd

	fd = &chutils.FieldDef{
		Name:        "LP_InterestandFees",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "cumulative interest and fees paid, missing=" + fmt.Sprintf("%v", lpMiss),
		Legal:       &chutils.LegalValues{LowLimit: lpMin, HighLimit: lpMax},
		Missing:     lpMiss,
	}
	fds[70] = fd

	// negative: paid to servicer
	fd = &chutils.FieldDef{
		Name:        "LP_ServiceFees",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "cumulative service fees, missing=" + fmt.Sprintf("%v", lpMiss),
		Legal:       &chutils.LegalValues{LowLimit: lpMin, HighLimit: lpMax},
		Missing:     lpMiss,
	}
	fds[71] = fd

	fd = &chutils.FieldDef{
		Name:        "LP_CollectionFees",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "cumulative collection fees, missing=" + fmt.Sprintf("%v", lpMiss),
		Legal:       &chutils.LegalValues{LowLimit: lpMin, HighLimit: lpMax},
		Missing:     lpMiss,
	}
	fds[72] = fd

	fd = &chutils.FieldDef{
		Name:        "LP_GrossPrincipalLoss",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "gross charged-off principal, missing=" + fmt.Sprintf("%v", lpMiss),
		Legal:       &chutils.LegalValues{LowLimit: lpMin, HighLimit: lpMax},
		Missing:     lpMiss,
	}
	fds[73] = fd

	fd = &chutils.FieldDef{
		Name:        "LP_NetPrincipalLoss",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "principal loss net of recoveries, missing=" + fmt.Sprintf("%v", lpMiss),
		Legal:       &chutils.LegalValues{LowLimit: lpMin, HighLimit: lpMax},
		Missing:     lpMiss,
	}
	fds[74] = fd

	fd = &chutils.FieldDef{
		Name:        "LP_NonPrincipalRecoverypayments",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "non-principal recovery payments, missing=" + fmt.Sprintf("%v", lpMiss),
		Legal:       &chutils.LegalValues{LowLimit: lpMin, HighLimit: lpMax},
		Missing:     lpMiss,
	}
	fds[75] = fd

	fd = &chutils.FieldDef{
		Name:        "PercentFunded",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "share of the listing funded, 0-1, missing=" + fmt.Sprintf("%v", fundedMiss),
		Legal:       &chutils.LegalValues{LowLimit: fundedMin, HighLimit: fundedMax},
		Missing:     fundedMiss,
	}
	fds[76] = fd

	fd = &chutils.FieldDef{
		Name:        "Recommendations",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "recommendations at listing time, missing=" + fmt.Sprintf("%v", recMiss),
		Legal:       &chutils.LegalValues{LowLimit: recMin, HighLimit: recMax},
		Missing:     recMiss,
	}
	fds[77] = fd

	fd = &chutils.FieldDef{
		Name:        "InvestmentFromFriendsCount",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "friend investments in the listing, missing=" + fmt.Sprintf("%v", recMiss),
		Legal:       &chutils.LegalValues{LowLimit: recMin, HighLimit: recMax},
		Missing:     recMiss,
	}
	fds[78] = fd

	fd = &chutils.FieldDef{
		Name:        "InvestmentFromFriendsAmount",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 64},
		Description: "dollars invested by friends, missing=" + fmt.Sprintf("%v", frAmtMiss),
		Legal:       &chutils.LegalValues{LowLimit: frAmtMin, HighLimit: frAmtMax},
		Missing:     frAmtMiss,
	}
	fds[79] = fd

	fd = &chutils.FieldDef{
		Name:        "Investors",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "investors that funded the loan, missing=" + fmt.Sprintf("%v", invMiss),
		Legal:       &chutils.LegalValues{LowLimit: invMin, HighLimit: invMax},
		Missing:     invMiss,
	}
	fds[80] = fd

	return chutils.NewTableDef("ListingKey", chutils.MergeTree, fds)
}
