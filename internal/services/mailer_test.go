package services

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestRenderNCCreationEmail(t *testing.T) {
	html, err := renderNCCreationEmail(ncCreationEmailData{
		Responsible:   "Jane Roe",
		ItemCode:      "7",
		ItemTitle:     "Data Quality Checks",
		Description:   "No verification mechanism is in place for collected metrics.",
		SeverityLabel: "High",
		SeverityClass: "high",
		DeadlineDays:  3,
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if got := doc.Find(".header h2").Text(); got != "Non-Conformity Notification" {
		t.Errorf("header = %q", got)
	}

	badge := doc.Find(".severity-badge")
	if badge.Length() != 1 {
		t.Fatalf("got %d severity badges, want 1", badge.Length())
	}
	if got := badge.Text(); got != "High" {
		t.Errorf("severity badge = %q, want High", got)
	}
	if !badge.HasClass("severity-high") {
		t.Error("severity badge missing severity-high class")
	}

	values := doc.Find(".info-value").Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	})
	joined := strings.Join(values, "\n")
	for _, want := range []string{
		"7 - Data Quality Checks",
		"No verification mechanism is in place for collected metrics.",
		"3 business days",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("rendered email missing %q", want)
		}
	}

	if !strings.Contains(doc.Find("p").First().Text(), "Jane Roe") {
		t.Error("greeting should address the responsible person")
	}
}

func TestRenderNCCreationEmailEscapesHTML(t *testing.T) {
	html, err := renderNCCreationEmail(ncCreationEmailData{
		Responsible: "Responsible",
		Description: `<script>alert("x")</script>`,
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("description must be HTML-escaped")
	}
}

func TestRenderNCStatusChangeEmail(t *testing.T) {
	html, err := renderNCStatusChangeEmail(ncStatusChangeEmailData{
		Title:     "NC - 3: Strategic Alignment",
		OldStatus: "OPEN",
		NewStatus: "IN_PROGRESS",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if got := doc.Find("h2").Text(); got != "Non-Conformity Status Updated" {
		t.Errorf("heading = %q", got)
	}

	body := doc.Text()
	for _, want := range []string{"NC - 3: Strategic Alignment", "OPEN", "IN_PROGRESS"} {
		if !strings.Contains(body, want) {
			t.Errorf("rendered email missing %q", want)
		}
	}
}
