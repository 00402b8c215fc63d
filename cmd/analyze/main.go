package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/algo-verite/engine/internal/engine"
	"github.com/algo-verite/engine/internal/reference"
)

// #region main

func main() {
	pathology := flag.String("pathology", "", "pathology code (e.g. FLU, COVID)")
	symptoms := flag.String("symptoms", "", "comma-separated symptom codes")
	age := flag.Int("age", 40, "patient age")
	comorbidities := flag.Int("comorbidities", 0, "number of comorbidities")
	immunity := flag.Float64("immunity", 0.7, "immunity level in [0,1]")
	patientID := flag.String("id", "", "patient identifier (derived when empty)")
	tablesPath := flag.String("tables", "", "optional reference tables YAML")
	asJSON := flag.Bool("json", false, "emit the full analysis as JSON")
	flag.Parse()

	if *pathology == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze --pathology FLU --symptoms FEVER,COUGH [--age N] [--json]")
		os.Exit(2)
	}

	os.Exit(run(*pathology, *symptoms, *age, *comorbidities, *immunity, *patientID, *tablesPath, *asJSON))
}

// #endregion main

// #region run

func run(pathology, symptoms string, age, comorbidities int, immunity float64, patientID, tablesPath string, asJSON bool) int {
	tables := reference.Defaults()
	if tablesPath != "" {
		loaded, err := reference.LoadFile(tablesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load tables: %v\n", err)
			return 1
		}
		tables = loaded
	}

	input := engine.PatientInput{
		ID:        patientID,
		Pathology: pathology,
		Symptoms:  splitSymptoms(symptoms),
		Profile: engine.Profile{
			Age:           age,
			Comorbidities: comorbidities,
			ImmunityLevel: immunity,
		},
	}

	analysis, err := engine.New(tables, nil).Analyze(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		return 1
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Print(engine.Report(analysis))
	return 0
}

func splitSymptoms(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// #endregion run
