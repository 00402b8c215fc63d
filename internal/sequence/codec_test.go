package sequence

import (
	"reflect"
	"testing"

	"github.com/algo-verite/engine/internal/reference"
)

func TestAgeGroup(t *testing.T) {
	cases := []struct {
		age  int
		want string
	}{
		{0, "YOUNG"}, {25, "YOUNG"}, {26, "ADULT"}, {60, "ADULT"}, {61, "SENIOR"}, {95, "SENIOR"},
	}
	for _, tc := range cases {
		if got := AgeGroup(tc.age); got != tc.want {
			t.Fatalf("AgeGroup(%d) = %s, want %s", tc.age, got, tc.want)
		}
	}
}

func TestEncodeSymptoms(t *testing.T) {
	c := NewCodec(reference.Defaults())

	got := c.EncodeSymptoms([]string{"FEVER", "COUGH", "DYSPNEA"})
	if want := []int{50, 30, 70}; !reflect.DeepEqual(got, want) {
		t.Fatalf("encoded = %v, want %v", got, want)
	}

	// Unknown symptoms take the default weight instead of failing.
	got = c.EncodeSymptoms([]string{"UNKNOWN_SYMPTOM"})
	if want := []int{30}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unknown symptom encoded = %v, want %v", got, want)
	}

	// Lookups are case-insensitive.
	got = c.EncodeSymptoms([]string{"fever"})
	if want := []int{50}; !reflect.DeepEqual(got, want) {
		t.Fatalf("lowercase encoded = %v, want %v", got, want)
	}

	// An empty list still contributes one base element.
	got = c.EncodeSymptoms(nil)
	if want := []int{0}; !reflect.DeepEqual(got, want) {
		t.Fatalf("empty encoded = %v, want %v", got, want)
	}
}

func TestEncodePathology(t *testing.T) {
	c := NewCodec(reference.Defaults())

	got, defaulted := c.EncodePathology("FLU")
	if want := []int{40, 7, 80}; !reflect.DeepEqual(got, want) {
		t.Fatalf("FLU encoded = %v, want %v", got, want)
	}
	if defaulted {
		t.Fatal("FLU should not use the fallback record")
	}

	got, defaulted = c.EncodePathology("NOPE")
	if want := []int{50, 10, 50}; !reflect.DeepEqual(got, want) {
		t.Fatalf("fallback encoded = %v, want %v", got, want)
	}
	if !defaulted {
		t.Fatal("unknown pathology should report the fallback")
	}
}

func TestEncodeProfile(t *testing.T) {
	c := NewCodec(reference.Defaults())

	got, _ := c.EncodeProfile(35, 1, 0.8)
	if want := []int{70, 70, 80, 20}; !reflect.DeepEqual(got, want) {
		t.Fatalf("adult profile = %v, want %v", got, want)
	}

	// Comorbidity element is capped at 100.
	got, _ = c.EncodeProfile(70, 9, 0.5)
	if want := []int{50, 60, 50, 100}; !reflect.DeepEqual(got, want) {
		t.Fatalf("senior profile = %v, want %v", got, want)
	}
}

func TestBuildBase_FixedOrder(t *testing.T) {
	c := NewCodec(reference.Defaults())

	got := c.BuildBase([]string{"FEVER", "COUGH"}, "FLU", 35, 0, 0.8)
	want := []int{50, 30, 40, 7, 80, 70, 70, 80, 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("base = %v, want %v", got, want)
	}
}
