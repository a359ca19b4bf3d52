package models

import "testing"

func TestIsValidNCStatus(t *testing.T) {
	tests := []struct {
		status   string
		expected bool
	}{
		{NCStatusOpen, true},
		{NCStatusInProgress, true},
		{NCStatusResolved, true},
		{"CLOSED", false},
		{"open", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := IsValidNCStatus(tt.status); got != tt.expected {
				t.Errorf("IsValidNCStatus(%q) = %v, want %v", tt.status, got, tt.expected)
			}
		})
	}
}

func TestIsValidSeverity(t *testing.T) {
	tests := []struct {
		severity string
		expected bool
	}{
		{SeverityLow, true},
		{SeverityMedium, true},
		{SeverityHigh, true},
		{SeverityCritical, true},
		{"MEDIA", false},
		{"medium", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			if got := IsValidSeverity(tt.severity); got != tt.expected {
				t.Errorf("IsValidSeverity(%q) = %v, want %v", tt.severity, got, tt.expected)
			}
		})
	}
}

func TestSeverityDeadlinesCoverAllSeverities(t *testing.T) {
	for _, s := range []string{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical} {
		if _, ok := SeverityDeadlineDays[s]; !ok {
			t.Errorf("severity %q missing from SeverityDeadlineDays", s)
		}
	}
	if SeverityDeadlineDays[SeverityCritical] >= SeverityDeadlineDays[SeverityLow] {
		t.Errorf("critical deadline (%d) should be shorter than low (%d)",
			SeverityDeadlineDays[SeverityCritical], SeverityDeadlineDays[SeverityLow])
	}
}

func TestSeverityLabelFallsBackToMedium(t *testing.T) {
	if got := SeverityLabel("BOGUS"); got != "Medium" {
		t.Errorf("SeverityLabel(BOGUS) = %q, want Medium", got)
	}
	if got := SeverityLabel(SeverityCritical); got != "Critical" {
		t.Errorf("SeverityLabel(CRITICAL) = %q, want Critical", got)
	}
}

func TestIsValidAnswer(t *testing.T) {
	tests := []struct {
		answer   string
		expected bool
	}{
		{AnswerCompliant, true},
		{AnswerNonCompliant, true},
		{AnswerNotApplicable, true},
		{"YES", false},
		{"compliant", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			if got := IsValidAnswer(tt.answer); got != tt.expected {
				t.Errorf("IsValidAnswer(%q) = %v, want %v", tt.answer, got, tt.expected)
			}
		})
	}
}
