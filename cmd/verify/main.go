package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/algo-verite/engine/internal/integrity"
	"github.com/algo-verite/engine/internal/store"
)

// Exit codes: 0 intact, 1 corrupted, 2 usage or runtime error, 3 not found.

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the analysis database")
	patientID := flag.String("patient", "", "patient identifier to verify")
	flag.Parse()

	if *dbPath == "" || *patientID == "" {
		fmt.Fprintln(os.Stderr, "usage: verify --db path/to/verite.db --patient PAT_xxxxxxxx")
		os.Exit(2)
	}

	os.Exit(run(*dbPath, *patientID))
}

// #endregion main

// #region run

func run(dbPath, patientID string) int {
	st, err := store.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		return 2
	}
	defer st.Close()

	result, err := integrity.Verify(st, patientID, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v\n", err)
		return 2
	}

	switch result.Status {
	case integrity.StatusIntact:
		fmt.Printf("INTACT %s signature=%s\n", result.Name, result.OriginalSignature)
		return 0
	case integrity.StatusCorrupted:
		fmt.Printf("CORRUPTED %s stored=%s recomputed=%s\n",
			result.Name, result.OriginalSignature, result.RecomputedSignature)
		return 1
	default:
		fmt.Printf("NOT_FOUND %s\n", result.Name)
		return 3
	}
}

// #endregion run
