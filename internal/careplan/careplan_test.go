package careplan

import (
	"reflect"
	"strings"
	"testing"

	"github.com/algo-verite/engine/internal/predict"
	"github.com/algo-verite/engine/internal/reference"
	"github.com/algo-verite/engine/internal/treatment"
)

func testPrediction(days int) predict.Prediction {
	return predict.Prediction{
		DurationDays:       days,
		SuccessProbability: 0.75,
		Confidence:         0.7,
		Trajectory:         predict.Trajectory(0.5, 0.7, days),
	}
}

func testCandidates() []treatment.Candidate {
	return []treatment.Candidate{
		{Name: "ANTIVIRAL", Protocol: "PROTOCOL_STANDARD_FLU", GlobalScore: 0.7},
		{Name: "ANTIINFLAMMATORY", Protocol: "PROTOCOL_STANDARD_FLU", GlobalScore: 0.6},
	}
}

func TestBuild_FullPlan(t *testing.T) {
	b := NewBuilder(reference.Defaults())

	plan := b.Build("FLU", testPrediction(5), testCandidates(), 35, 0)

	if plan.MainTreatment != "ANTIVIRAL" {
		t.Fatalf("main treatment = %s, want ANTIVIRAL", plan.MainTreatment)
	}
	if plan.Protocol != "PROTOCOL_STANDARD_FLU" {
		t.Fatalf("protocol = %s", plan.Protocol)
	}
	if plan.DurationDays != 5 {
		t.Fatalf("duration = %d, want 5", plan.DurationDays)
	}
	if plan.Posology != "1 tablet twice daily for 5 days" {
		t.Fatalf("posology = %q", plan.Posology)
	}
	if plan.Contingency.Alternative != "ANTIINFLAMMATORY" {
		t.Fatalf("contingency alternative = %s", plan.Contingency.Alternative)
	}
}

func TestBuild_DefaultWhenNoCandidates(t *testing.T) {
	b := NewBuilder(reference.Defaults())

	plan := b.Build("FLU", testPrediction(5), nil, 35, 0)
	if plan.MainTreatment != "Symptomatic care" || plan.Protocol != "PROTOCOL_STANDARD" {
		t.Fatalf("default plan = %+v", plan)
	}
	if plan.DurationDays != 7 {
		t.Fatalf("default duration = %d, want 7", plan.DurationDays)
	}
}

func TestPosology_SeniorAdjustment(t *testing.T) {
	b := NewBuilder(reference.Defaults())

	// Only antibiotics and anti-inflammatories get the senior note.
	got := b.Posology("ANTIBIOTIC", 70)
	if !strings.HasSuffix(got, "(dose adjusted for senior)") {
		t.Fatalf("senior antibiotic posology = %q", got)
	}
	if got := b.Posology("ANTIVIRAL", 70); strings.Contains(got, "senior") {
		t.Fatalf("antiviral should not be senior-adjusted: %q", got)
	}
	if got := b.Posology("ANTIBIOTIC", 40); strings.Contains(got, "senior") {
		t.Fatalf("adult antibiotic should not be senior-adjusted: %q", got)
	}

	// Unmapped treatments get the generic text.
	if got := b.Posology("UNMAPPED", 40); got != "As medically prescribed" {
		t.Fatalf("unmapped posology = %q", got)
	}
}

func TestCheckpointDays(t *testing.T) {
	cases := []struct {
		duration int
		want     []int
	}{
		{2, []int{1, 2}},
		{3, []int{1, 2, 3}},
		{5, []int{1, 3, 5}},
		{7, []int{1, 3, 7}},
		{14, []int{1, 3, 7, 7, 14}},
		{20, []int{1, 3, 7, 10, 20}},
	}
	for _, tc := range cases {
		if got := checkpointDays(tc.duration); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("checkpointDays(%d) = %v, want %v", tc.duration, got, tc.want)
		}
	}
}

func TestSchedule_UsesTrajectory(t *testing.T) {
	traj := predict.Trajectory(0.5, 0.7, 5)
	schedule := Schedule(5, traj)

	if len(schedule) != 3 {
		t.Fatalf("schedule length = %d, want 3 checkpoints for a 5-day plan", len(schedule))
	}
	if schedule[0].Day != 1 || schedule[2].Day != 5 {
		t.Fatalf("checkpoint days = %d..%d, want 1..5", schedule[0].Day, schedule[2].Day)
	}
	if !strings.HasPrefix(schedule[0].Objective, "D1:") {
		t.Fatalf("day-1 objective = %q", schedule[0].Objective)
	}
	if len(schedule[0].Actions) == 0 {
		t.Fatal("checkpoint carries no actions from the trajectory")
	}

	// Criteria grow with the day number.
	if len(schedule[0].Criteria) != 3 {
		t.Fatalf("day-1 criteria = %v", schedule[0].Criteria)
	}
	if len(schedule[1].Criteria) != 5 {
		t.Fatalf("day-3 criteria = %v", schedule[1].Criteria)
	}
}

func TestImprovementCriteria_PathologySpecific(t *testing.T) {
	covid := ImprovementCriteria("COVID")
	if !containsString(covid, "Return of smell/taste") {
		t.Fatalf("covid criteria = %v", covid)
	}

	// Unknown pathologies keep the general criteria only.
	if got := ImprovementCriteria("OTHER"); len(got) != 4 {
		t.Fatalf("generic criteria = %v", got)
	}
}

func TestImmediateActions_ProbabilityTiers(t *testing.T) {
	high := ImmediateActions("FLU", 0.9)
	low := ImmediateActions("FLU", 0.4)

	if len(high) != 3 {
		t.Fatalf("high-probability actions = %v", high)
	}
	// Below 0.5 both extra tiers fire.
	if len(low) != 7 {
		t.Fatalf("low-probability actions = %v", low)
	}
	if !containsString(low, "Hospital evaluation to be considered") {
		t.Fatalf("low-probability actions missing hospital tier: %v", low)
	}

	if got := ImmediateActions("PNEUMONIA", 0.9); !containsString(got, "Pulse oximetry monitoring") {
		t.Fatalf("pneumonia actions = %v", got)
	}
	if got := ImmediateActions("MIGRAINE", 0.9); !containsString(got, "Quiet and dark environment") {
		t.Fatalf("migraine actions = %v", got)
	}
}

func TestPlanContingency(t *testing.T) {
	with := PlanContingency(testCandidates(), 10)
	if with.Alternative != "ANTIINFLAMMATORY" {
		t.Fatalf("alternative = %s", with.Alternative)
	}
	// Trigger delay is capped at 3 days.
	if !strings.Contains(with.Trigger, "after 3 days") {
		t.Fatalf("trigger = %q", with.Trigger)
	}

	short := PlanContingency(testCandidates(), 4)
	if !strings.Contains(short.Trigger, "after 2 days") {
		t.Fatalf("short trigger = %q", short.Trigger)
	}

	single := PlanContingency(testCandidates()[:1], 10)
	if single.Alternative != "Standard supportive care" {
		t.Fatalf("single-candidate alternative = %s", single.Alternative)
	}
}

func TestFollowUpRecommendations(t *testing.T) {
	pred := testPrediction(5)

	base := FollowUpRecommendations(pred, 0)
	if len(base) != 4 {
		t.Fatalf("base recommendations = %v", base)
	}

	pred.SuccessProbability = 0.45
	extended := FollowUpRecommendations(pred, 1)
	// Both probability tiers plus the comorbidity line.
	if len(extended) != 9 {
		t.Fatalf("extended recommendations = %v", extended)
	}
	if !containsString(extended, "Particular monitoring of comorbidities") {
		t.Fatalf("missing comorbidity line: %v", extended)
	}
}

func TestComplementaryAdvice(t *testing.T) {
	if got := ComplementaryAdvice("FLU", 40); !containsString(got, "Isolation to prevent transmission") {
		t.Fatalf("flu advice = %v", got)
	}
	senior := ComplementaryAdvice("MIGRAINE", 70)
	if !containsString(senior, "Environment adaptation") {
		t.Fatalf("senior advice = %v", senior)
	}
}

func containsString(items []string, want string) bool {
	for _, it := range items {
		if it == want {
			return true
		}
	}
	return false
}
