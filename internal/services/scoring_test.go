package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quality-audit/backend/internal/models"
)

func TestScoreAnswers(t *testing.T) {
	tests := []struct {
		name      string
		answers   []string
		compliant int
		evaluated int
		adherence float64
	}{
		{
			name:      "mixed answers",
			answers:   []string{models.AnswerCompliant, models.AnswerNonCompliant, models.AnswerNotApplicable},
			compliant: 1,
			evaluated: 2,
			adherence: 50.0,
		},
		{
			name:      "all compliant",
			answers:   []string{models.AnswerCompliant, models.AnswerCompliant},
			compliant: 2,
			evaluated: 2,
			adherence: 100.0,
		},
		{
			name:      "all non-compliant",
			answers:   []string{models.AnswerNonCompliant, models.AnswerNonCompliant, models.AnswerNonCompliant},
			compliant: 0,
			evaluated: 3,
			adherence: 0,
		},
		{
			name:      "all not applicable yields zero without dividing by zero",
			answers:   []string{models.AnswerNotApplicable, models.AnswerNotApplicable},
			compliant: 0,
			evaluated: 0,
			adherence: 0,
		},
		{
			name:      "empty set",
			answers:   nil,
			compliant: 0,
			evaluated: 0,
			adherence: 0,
		},
		{
			name: "two thirds",
			answers: []string{
				models.AnswerCompliant, models.AnswerCompliant, models.AnswerNonCompliant,
			},
			compliant: 2,
			evaluated: 3,
			adherence: 2.0 / 3.0 * 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScoreAnswers(tt.answers)
			if s.TotalQuestions != len(tt.answers) {
				t.Errorf("TotalQuestions = %d, want %d", s.TotalQuestions, len(tt.answers))
			}
			if s.CompliantCount != tt.compliant {
				t.Errorf("CompliantCount = %d, want %d", s.CompliantCount, tt.compliant)
			}
			if s.EvaluatedCount != tt.evaluated {
				t.Errorf("EvaluatedCount = %d, want %d", s.EvaluatedCount, tt.evaluated)
			}
			if s.AdherencePercentage != tt.adherence {
				t.Errorf("AdherencePercentage = %v, want %v", s.AdherencePercentage, tt.adherence)
			}
			if s.AdherencePercentage < 0 || s.AdherencePercentage > 100 {
				t.Errorf("AdherencePercentage %v out of [0,100]", s.AdherencePercentage)
			}
		})
	}
}

func answerWithItem(category, answer string) models.AuditAnswerWithItem {
	return models.AuditAnswerWithItem{
		AuditAnswer: models.AuditAnswer{
			ID:              uuid.New(),
			ChecklistItemID: uuid.New(),
			Answer:          answer,
		},
		ChecklistItem: models.ChecklistItem{
			ID:       uuid.New(),
			Category: category,
		},
	}
}

func TestCategoryRollupPreservesFirstOccurrenceOrder(t *testing.T) {
	answers := []models.AuditAnswerWithItem{
		answerWithItem("Block B", models.AnswerCompliant),
		answerWithItem("Block A", models.AnswerNonCompliant),
		answerWithItem("Block B", models.AnswerNotApplicable),
		answerWithItem("Block C", models.AnswerCompliant),
		answerWithItem("Block A", models.AnswerCompliant),
	}

	reports := CategoryRollup(answers)
	if len(reports) != 3 {
		t.Fatalf("got %d categories, want 3", len(reports))
	}

	wantOrder := []string{"Block B", "Block A", "Block C"}
	for i, want := range wantOrder {
		if reports[i].Category != want {
			t.Errorf("category[%d] = %q, want %q", i, reports[i].Category, want)
		}
	}
}

func TestCategoryRollupAdherencePerCategory(t *testing.T) {
	answers := []models.AuditAnswerWithItem{
		answerWithItem("X", models.AnswerCompliant),
		answerWithItem("X", models.AnswerNonCompliant),
		answerWithItem("Y", models.AnswerNotApplicable),
	}

	reports := CategoryRollup(answers)
	if len(reports) != 2 {
		t.Fatalf("got %d categories, want 2", len(reports))
	}

	x := reports[0]
	if x.AdherencePercentage != 50.0 {
		t.Errorf("X adherence = %v, want 50", x.AdherencePercentage)
	}

	y := reports[1]
	if y.AdherencePercentage != 0 {
		t.Errorf("Y adherence = %v, want 0 (all N/A)", y.AdherencePercentage)
	}
	if y.NotApplicableCount != 1 {
		t.Errorf("Y NotApplicableCount = %d, want 1", y.NotApplicableCount)
	}
}

func TestCategoryRollupSumsMatchAuditTotals(t *testing.T) {
	answers := []models.AuditAnswerWithItem{
		answerWithItem("A", models.AnswerCompliant),
		answerWithItem("A", models.AnswerCompliant),
		answerWithItem("B", models.AnswerNonCompliant),
		answerWithItem("B", models.AnswerNotApplicable),
		answerWithItem("C", models.AnswerCompliant),
		answerWithItem("C", models.AnswerNonCompliant),
		answerWithItem("C", models.AnswerNotApplicable),
	}

	values := make([]string, len(answers))
	for i, a := range answers {
		values[i] = a.Answer
	}
	overall := ScoreAnswers(values)

	var total, compliant, nonCompliant, notApplicable int
	for _, r := range CategoryRollup(answers) {
		total += r.TotalQuestions
		compliant += r.CompliantCount
		nonCompliant += r.NonCompliantCount
		notApplicable += r.NotApplicableCount
	}

	if total != overall.TotalQuestions {
		t.Errorf("sum of category totals = %d, want %d", total, overall.TotalQuestions)
	}
	if compliant != overall.CompliantCount {
		t.Errorf("sum of category compliant = %d, want %d", compliant, overall.CompliantCount)
	}
	if nonCompliant != overall.NonCompliantCount {
		t.Errorf("sum of category non-compliant = %d, want %d", nonCompliant, overall.NonCompliantCount)
	}
	if notApplicable != overall.NotApplicableCount {
		t.Errorf("sum of category not-applicable = %d, want %d", notApplicable, overall.NotApplicableCount)
	}
}

func TestBuildReportSummary(t *testing.T) {
	audit := models.Audit{
		ID:                         uuid.New(),
		PerformedAt:                time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		OverallAdherencePercentage: 50.0,
	}
	answers := []models.AuditAnswerWithItem{
		answerWithItem("A", models.AnswerCompliant),
		answerWithItem("A", models.AnswerNonCompliant),
		answerWithItem("B", models.AnswerNotApplicable),
	}
	ncs := []models.NonConformityWithRefs{
		{NonConformity: models.NonConformity{ID: uuid.New(), Status: models.NCStatusOpen}},
	}

	report := BuildReport(audit, models.UserRef{}, answers, ncs)

	if report.Summary.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3", report.Summary.TotalQuestions)
	}
	if report.Summary.EvaluatedCount != 2 {
		t.Errorf("EvaluatedCount = %d, want 2", report.Summary.EvaluatedCount)
	}
	if report.Summary.OverallAdherencePercentage != 50.0 {
		t.Errorf("OverallAdherencePercentage = %v, want 50 (stored value)", report.Summary.OverallAdherencePercentage)
	}
	if report.Summary.TotalNonConformities != 1 {
		t.Errorf("TotalNonConformities = %d, want 1", report.Summary.TotalNonConformities)
	}
	if len(report.CategoriesReport) != 2 {
		t.Errorf("got %d categories, want 2", len(report.CategoriesReport))
	}
	if len(report.Answers) != 3 || len(report.NonConformities) != 1 {
		t.Error("report should carry the full answer and NC lists")
	}
	if report.Audit.PerformedAt != "2026-03-14T09:30:00Z" {
		t.Errorf("PerformedAt = %q, want RFC3339", report.Audit.PerformedAt)
	}
}
