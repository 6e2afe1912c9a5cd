package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/invertedv/prosper/clean"
	"github.com/invertedv/prosper/model"
	"github.com/invertedv/prosper/raw"
	"github.com/invertedv/prosper/summary"
)

func main() {
	dataFile := flag.String("data", "", "string")
	level := flag.Float64("level", model.DefaultLevel, "float64")
	strict := flag.String("strict", "N", "string")
	predict := flag.Int("predict", -1, "int")

	flag.Parse()

	if *dataFile == "" {
		log.Fatalln("no -data file given")
	}

	s := time.Now()
	tbl, err := raw.Load(*dataFile)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Printf("read %d listings from %s, time: %v\n", tbl.NRows(), *dataFile, time.Since(s))

	opt := clean.Options{Strict: *strict == "Y" || *strict == "y"}
	s = time.Now()
	loans, err := clean.Records(tbl, opt)
	if err != nil {
		log.Fatalln(err)
	}
	unmapped := 0
	for _, ln := range loans {
		if !ln.StatusMapped {
			unmapped++
		}
	}
	fmt.Printf("cleaned %d records, time: %v, statuses defaulted to Past Due: %d\n",
		len(loans), time.Since(s), unmapped)

	fmt.Println("\nborrower rate by rating:")
	for _, r := range summary.ByRating(loans) {
		fmt.Printf("  %-3s n=%7d  mean=%7.4f  median=%7.4f\n", r.Rating, r.Count, r.MeanRate, r.MedianRate)
	}

	fmt.Println("\noriginations by quarter:")
	for _, q := range summary.ByQuarter(loans) {
		fmt.Printf("  %-8s n=%7d  $%s\n", q.Quarter, q.Count, q.Originated.StringFixed(2))
	}

	fmt.Println("\nlistings by category:")
	for _, c := range summary.ByCategory(loans) {
		fmt.Printf("  %-20s %7d\n", c.Category, c.Count)
	}

	fmt.Println("\nlistings by status:")
	for _, st := range summary.ByStatus(loans) {
		fmt.Printf("  %-24s %7d\n", st.Status, st.Count)
	}

	s = time.Now()
	models, err := model.FitSequence(loans)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Printf("\nfit %d nested models, time: %v\n", len(models), time.Since(s))
	for i, m := range models {
		fmt.Printf("  M%d: %s\n      n=%d excluded=%d R2=%0.4f\n", i+1, m.Formula(), m.N, m.Excluded, m.R2)
	}

	if *predict >= 0 {
		if *predict >= len(loans) {
			log.Fatalln(fmt.Errorf("-predict row %d out of range, table has %d rows", *predict, len(loans)))
		}
		ln := loans[*predict]
		p, e := models[len(models)-1].Predict(ln, *level)
		if e != nil {
			log.Fatalln(e)
		}
		fmt.Printf("\nrow %d (listing %d): rate=%0.4f predicted=%0.4f [%0.4f, %0.4f] at %0.0f%%\n",
			*predict, ln.ListingNumber, ln.BorrowerRate, p.Estimate, p.Lower, p.Upper, *level*100)
	}
}
