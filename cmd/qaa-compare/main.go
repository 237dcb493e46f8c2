// Command qaa-compare runs the inversion over a fixed reference
// spectrum and prints the result in the OCSSW comparison format, so the
// output can be diffed field by field against the C reference harness.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/boreas-ocean/boreas/pkg/qaa"
)

// The reference spectrum the C harness carries.
var defaultSpectrum = []float64{0.001974, 0.002570, 0.002974, 0.001670, 0.000324}

func main() {
	rrsArg := flag.String("rrs", "", "Comma-separated Rrs spectrum (default: the reference spectrum)")
	table := flag.String("constants", "nasa", "Coefficient table: nasa or laboratory")
	flag.Parse()

	spectrum := defaultSpectrum
	if *rrsArg != "" {
		parsed, err := parseSpectrum(*rrsArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad -rrs: %v\n", err)
			os.Exit(1)
		}
		spectrum = parsed
	}

	ws := qaa.DefaultWavelengths()
	if len(spectrum) != ws.Len() {
		fmt.Fprintf(os.Stderr, "need %d Rrs values, got %d\n", ws.Len(), len(spectrum))
		os.Exit(1)
	}

	var consts *qaa.OpticalConstants
	switch *table {
	case "nasa":
		consts = qaa.NASAConstants()
	case "laboratory":
		var err error
		consts, err = qaa.LaboratoryConstants(ws)
		if err != nil {
			fmt.Fprintf(os.Stderr, "laboratory constants: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown constants table %q\n", *table)
		os.Exit(1)
	}

	engine, err := qaa.NewEngine(ws, consts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building engine: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Input Rrs values:\n")
	for i := 0; i < ws.Len(); i++ {
		fmt.Printf("%.0fnm: %.6f\n", ws.Center(i), spectrum[i])
	}
	fmt.Printf("\n")

	result, err := engine.Retrieve(spectrum)
	if err != nil {
		fmt.Fprintf(os.Stderr, "retrieve: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("NASA QAA v6 Results:\n")
	if err := result.WriteDiagnostic(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "writing result: %v\n", err)
		os.Exit(1)
	}
}

func parseSpectrum(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
