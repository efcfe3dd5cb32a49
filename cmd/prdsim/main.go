package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	"github.com/xtding233/prd-engine/internal/prd"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] <percentage>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	trials := flag.Int("trials", 1_000_000, "number of trials to simulate")
	seed := flag.Uint64("seed", 0, "fixed RNG seed; 0 uses the crypto source")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	p, err := strconv.ParseFloat(flag.Arg(0), 64)
	if err != nil {
		log.Fatalf("invalid percentage %q", flag.Arg(0))
	}

	start := time.Now()
	stats, err := prd.RunMonteCarlo(prd.SimParams{Percentage: p, Trials: *trials, Seed: *seed})
	if err != nil {
		log.Fatal(err)
	}
	elapsed := time.Since(start)

	color.Cyan("nominal      %.4f%%", stats.NominalRate)
	color.Cyan("coefficient  %.4f%%", stats.Coefficient)
	color.Green("observed     %.4f%%  (%d procs / %d trials)", stats.ObservedRate, stats.Hits, stats.Trials)
	fmt.Printf("gap mean=%.3f stddev=%.3f p50=%.0f p90=%.0f p99=%.0f max=%d\n",
		stats.GapMean, stats.GapStdDev, stats.GapP50, stats.GapP90, stats.GapP99, stats.MaxGap)
	fmt.Printf("elapsed %s (%.1f ns/trial)\n", elapsed,
		float64(elapsed.Nanoseconds())/float64(stats.Trials))
}
