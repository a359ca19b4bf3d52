package services

import (
	"time"

	"github.com/quality-audit/backend/internal/models"
)

// ScoreSummary aggregates one audit's answers. NOT_APPLICABLE answers are
// excluded from the adherence denominator.
type ScoreSummary struct {
	TotalQuestions      int     `json:"total_questions"`
	CompliantCount      int     `json:"compliant_count"`
	NonCompliantCount   int     `json:"non_compliant_count"`
	NotApplicableCount  int     `json:"not_applicable_count"`
	EvaluatedCount      int     `json:"evaluated_count"`
	AdherencePercentage float64 `json:"adherence_percentage"`
}

func adherence(compliant, evaluated int) float64 {
	if evaluated == 0 {
		return 0
	}
	return float64(compliant) / float64(evaluated) * 100
}

// ScoreAnswers partitions answer values and computes the adherence percentage.
func ScoreAnswers(answers []string) ScoreSummary {
	var s ScoreSummary
	for _, a := range answers {
		s.TotalQuestions++
		switch a {
		case models.AnswerCompliant:
			s.CompliantCount++
		case models.AnswerNonCompliant:
			s.NonCompliantCount++
		default:
			s.NotApplicableCount++
		}
	}
	s.EvaluatedCount = s.CompliantCount + s.NonCompliantCount
	s.AdherencePercentage = adherence(s.CompliantCount, s.EvaluatedCount)
	return s
}

// CategoryReport is one per-category rollup in the audit report.
type CategoryReport struct {
	Category            string  `json:"category"`
	TotalQuestions      int     `json:"total_questions"`
	CompliantCount      int     `json:"compliant_count"`
	NonCompliantCount   int     `json:"non_compliant_count"`
	NotApplicableCount  int     `json:"not_applicable_count"`
	AdherencePercentage float64 `json:"adherence_percentage"`
}

// CategoryRollup groups answers by checklist item category, preserving the
// insertion order of first occurrence. Each category's adherence is computed
// independently of the overall percentage.
func CategoryRollup(answers []models.AuditAnswerWithItem) []CategoryReport {
	index := make(map[string]int)
	var reports []CategoryReport

	for _, ans := range answers {
		category := ans.ChecklistItem.Category
		i, ok := index[category]
		if !ok {
			i = len(reports)
			index[category] = i
			reports = append(reports, CategoryReport{Category: category})
		}

		r := &reports[i]
		r.TotalQuestions++
		switch ans.Answer {
		case models.AnswerCompliant:
			r.CompliantCount++
		case models.AnswerNonCompliant:
			r.NonCompliantCount++
		default:
			r.NotApplicableCount++
		}
		r.AdherencePercentage = adherence(r.CompliantCount, r.CompliantCount+r.NonCompliantCount)
	}

	return reports
}

// ReportAuditInfo is the audit header block of a report.
type ReportAuditInfo struct {
	ID                     string         `json:"id"`
	PerformedAt            string         `json:"performed_at"`
	PerformedBy            models.UserRef `json:"performed_by"`
	MeasurementPlanVersion *string        `json:"measurement_plan_version,omitempty"`
	Notes                  *string        `json:"notes,omitempty"`
}

// ReportSummary reports overall counts. OverallAdherencePercentage is the
// value persisted at audit creation, not a recomputation.
type ReportSummary struct {
	TotalQuestions             int     `json:"total_questions"`
	CompliantCount             int     `json:"compliant_count"`
	NonCompliantCount          int     `json:"non_compliant_count"`
	NotApplicableCount         int     `json:"not_applicable_count"`
	EvaluatedCount             int     `json:"evaluated_count"`
	OverallAdherencePercentage float64 `json:"overall_adherence_percentage"`
	TotalNonConformities       int     `json:"total_non_conformities"`
}

type AuditReport struct {
	Audit            ReportAuditInfo                `json:"audit"`
	Summary          ReportSummary                  `json:"summary"`
	CategoriesReport []CategoryReport               `json:"categories_report"`
	Answers          []models.AuditAnswerWithItem   `json:"answers"`
	NonConformities  []models.NonConformityWithRefs `json:"non_conformities"`
}

// BuildReport projects a persisted audit into its report. Pure read side,
// no writes.
func BuildReport(audit models.Audit, performedBy models.UserRef, answers []models.AuditAnswerWithItem, ncs []models.NonConformityWithRefs) AuditReport {
	values := make([]string, len(answers))
	for i, a := range answers {
		values[i] = a.Answer
	}
	score := ScoreAnswers(values)

	return AuditReport{
		Audit: ReportAuditInfo{
			ID:                     audit.ID.String(),
			PerformedAt:            audit.PerformedAt.Format(time.RFC3339),
			PerformedBy:            performedBy,
			MeasurementPlanVersion: audit.MeasurementPlanVersion,
			Notes:                  audit.Notes,
		},
		Summary: ReportSummary{
			TotalQuestions:             score.TotalQuestions,
			CompliantCount:             score.CompliantCount,
			NonCompliantCount:          score.NonCompliantCount,
			NotApplicableCount:         score.NotApplicableCount,
			EvaluatedCount:             score.EvaluatedCount,
			OverallAdherencePercentage: audit.OverallAdherencePercentage,
			TotalNonConformities:       len(ncs),
		},
		CategoriesReport: CategoryRollup(answers),
		Answers:          answers,
		NonConformities:  ncs,
	}
}
