package engine

import (
	"fmt"
	"strings"
)

// Report renders an analysis as a plain-text medical report.
func Report(a *Analysis) string {
	var b strings.Builder

	b.WriteString(`
╔═══════════════════════════════════════╗
║       ALGO VERITE MEDICAL REPORT      ║
║     Predictive Health Assessment      ║
╚═══════════════════════════════════════╝

`)
	fmt.Fprintf(&b, "PATIENT: %s\n", a.PatientID)
	fmt.Fprintf(&b, "ANALYSIS DATE: %s\n", a.AnalyzedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "GLOBAL CONFIDENCE: %.1f%%\n", a.GlobalConfidence*100)

	section(&b, "CURRENT CONDITION")
	fmt.Fprintf(&b, "• Health state: %s\n", a.Assessment.HealthState.Meta().Label)
	fmt.Fprintf(&b, "• Severity score: %.3f\n", a.Assessment.Severity)
	fmt.Fprintf(&b, "• Recovery potential: %.1f%%\n", a.Assessment.RecoveryPotential*100)
	fmt.Fprintf(&b, "• Patient resilience: %.3f\n", a.Assessment.Resilience)
	fmt.Fprintf(&b, "• Biological harmony: %.3f\n", a.Assessment.BiologicalHarmony)

	section(&b, "RECOMMENDED TREATMENTS")
	for i, t := range a.Treatments {
		fmt.Fprintf(&b, "%d. %s (Score: %.3f)\n", i+1, t.Name, t.GlobalScore)
		fmt.Fprintf(&b, "   • Protocol: %s\n", t.Protocol)
		fmt.Fprintf(&b, "   • Efficacy: %.1f%%\n", t.BaseEfficacy*100)
		fmt.Fprintf(&b, "   • Compatibility: %.1f%%\n", t.Compatibility*100)
	}

	section(&b, "RECOVERY PREDICTION")
	fmt.Fprintf(&b, "• Predicted illness duration: %d days\n", a.Prediction.DurationDays)
	fmt.Fprintf(&b, "• Recovery date: %s\n", a.Prediction.PredictedDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "• Success probability: %.1f%%\n", a.Prediction.SuccessProbability*100)
	fmt.Fprintf(&b, "• Confidence level: %.1f%%\n", a.Prediction.Confidence*100)

	section(&b, "FAVORABLE FACTORS")
	bullets(&b, a.Prediction.FavorableFactors)

	section(&b, "IDENTIFIED RISKS")
	bullets(&b, a.Prediction.Risks)

	section(&b, "CARE PLAN")
	fmt.Fprintf(&b, "• Main treatment: %s\n", a.CarePlan.MainTreatment)
	fmt.Fprintf(&b, "• Protocol: %s\n", a.CarePlan.Protocol)
	fmt.Fprintf(&b, "• Duration: %d days\n", a.CarePlan.DurationDays)
	fmt.Fprintf(&b, "• Posology: %s\n", a.CarePlan.Posology)

	section(&b, "IMMEDIATE ACTIONS")
	bullets(&b, a.CarePlan.ImmediateActions)

	if len(a.Warnings) > 0 {
		section(&b, "WARNINGS")
		bullets(&b, a.Warnings)
	}

	b.WriteString(`
════════════════════════════════════════
         END OF MEDICAL REPORT
════════════════════════════════════════
`)
	return b.String()
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n%s\n%s\n", title, strings.Repeat("─", len([]rune(title))))
}

func bullets(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "• %s\n", item)
	}
}
