package reference

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region load

// LoadFile reads reference tables from a YAML file. Sections absent from the
// file are filled from the compiled-in defaults, so a partial override file
// only has to name the tables it changes.
func LoadFile(path string) (Tables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read tables file: %w", err)
	}

	var t Tables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Tables{}, fmt.Errorf("parse tables file %s: %w", path, err)
	}

	return fillMissing(t), nil
}

// fillMissing substitutes default sections for any table left empty.
func fillMissing(t Tables) Tables {
	d := Defaults()
	if len(t.Pathologies) == 0 {
		t.Pathologies = d.Pathologies
	}
	if len(t.Treatments) == 0 {
		t.Treatments = d.Treatments
	}
	if len(t.Profiles) == 0 {
		t.Profiles = d.Profiles
	}
	if len(t.Protocols) == 0 {
		t.Protocols = d.Protocols
	}
	if len(t.SymptomSeverity) == 0 {
		t.SymptomSeverity = d.SymptomSeverity
	}
	if len(t.TreatmentTargets) == 0 {
		t.TreatmentTargets = d.TreatmentTargets
	}
	if len(t.TreatmentIndications) == 0 {
		t.TreatmentIndications = d.TreatmentIndications
	}
	if len(t.Posologies) == 0 {
		t.Posologies = d.Posologies
	}
	return t
}

// #endregion load
