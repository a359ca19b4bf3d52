package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/quality-audit/backend/internal/config"
	"github.com/quality-audit/backend/internal/models"
	"go.uber.org/zap"
)

// Mailer renders and sends notification emails. Send failures never propagate
// into the business operation that triggered them; callers log and move on.
type Mailer struct {
	cfg *config.Config
	log *zap.Logger
}

func NewMailer(cfg *config.Config, log *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

type ncCreationEmailData struct {
	Responsible   string
	ItemCode      string
	ItemTitle     string
	Description   string
	SeverityLabel string
	SeverityClass string
	DeadlineDays  int
}

var ncCreationTmpl = template.Must(template.New("nc_creation").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background-color: #ef4444; color: white; padding: 15px; border-radius: 5px; }
  .content { background-color: #f9fafb; padding: 20px; margin-top: 20px; border-radius: 5px; }
  .info-item { margin-bottom: 15px; }
  .info-label { font-weight: bold; color: #1f2937; }
  .info-value { color: #4b5563; margin-top: 5px; }
  .footer { margin-top: 20px; padding-top: 20px; border-top: 1px solid #e5e7eb; font-size: 0.9em; color: #6b7280; }
  .severity-badge { display: inline-block; padding: 5px 10px; border-radius: 3px; font-weight: bold; }
  .severity-low { background-color: #dbeafe; color: #1e40af; }
  .severity-medium { background-color: #fef3c7; color: #92400e; }
  .severity-high { background-color: #fee2e2; color: #991b1b; }
  .severity-critical { background-color: #7f1d1d; color: white; }
</style>
</head>
<body>
<div class="container">
  <div class="header"><h2 style="margin: 0;">Non-Conformity Notification</h2></div>
  <div class="content">
    <p>Dear {{.Responsible}},</p>
    <p>During a quality audit, the following non-conformity (NC) was identified against the evaluation checklist.</p>
    <div class="info-item">
      <div class="info-label">Evaluated item:</div>
      <div class="info-value">{{.ItemCode}} - {{.ItemTitle}}</div>
    </div>
    <div class="info-item">
      <div class="info-label">Situation found:</div>
      <div class="info-value">{{.Description}}</div>
    </div>
    <div class="info-item">
      <div class="info-label">Criterion:</div>
      <div class="info-value">Measurement and Analysis Checklist - {{.ItemCode}}</div>
    </div>
    <div class="info-item">
      <div class="info-label">Severity:</div>
      <div class="info-value"><span class="severity-badge severity-{{.SeverityClass}}">{{.SeverityLabel}}</span></div>
    </div>
    <div class="info-item">
      <div class="info-label">Remediation deadline:</div>
      <div class="info-value">{{.DeadlineDays}} business days</div>
    </div>
    <div class="info-item">
      <div class="info-label">Recommendation:</div>
      <div class="info-value">Please analyze the identified non-conformity and implement the necessary corrective actions within the deadline.</div>
    </div>
  </div>
  <div class="footer">
    <p>This is an automatic notification from the Quality Audit System.</p>
    <p>For details, open the system and review the full NC record.</p>
  </div>
</div>
</body>
</html>`))

type ncStatusChangeEmailData struct {
	Title     string
	OldStatus string
	NewStatus string
}

var ncStatusChangeTmpl = template.Must(template.New("nc_status_change").Parse(`<h2>Non-Conformity Status Updated</h2>
<p><strong>Title:</strong> {{.Title}}</p>
<p><strong>Previous status:</strong> {{.OldStatus}}</p>
<p><strong>New status:</strong> {{.NewStatus}}</p>
<hr>
<p><em>This is an automatic notification from the Quality Audit System.</em></p>`))

func renderNCCreationEmail(d ncCreationEmailData) (string, error) {
	var buf bytes.Buffer
	if err := ncCreationTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderNCStatusChangeEmail(d ncStatusChangeEmailData) (string, error) {
	var buf bytes.Buffer
	if err := ncStatusChangeTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendNCCreation emails the NC-creation notification to the assigned user,
// falling back to the configured default quality inbox.
func (m *Mailer) SendNCCreation(nc models.NonConformityWithRefs) error {
	recipient := m.cfg.DefaultQualityEmail
	responsible := "Responsible"
	if nc.AssignedTo != nil && nc.AssignedTo.Email != "" {
		recipient = nc.AssignedTo.Email
	}
	if nc.Responsible != nil && *nc.Responsible != "" {
		responsible = *nc.Responsible
	}
	if recipient == "" {
		return fmt.Errorf("no recipient for NC %s", nc.ID)
	}

	deadline := models.SeverityDeadlineDays[nc.Severity]
	if deadline == 0 {
		deadline = models.SeverityDeadlineDays[models.SeverityMedium]
	}

	body, err := renderNCCreationEmail(ncCreationEmailData{
		Responsible:   responsible,
		ItemCode:      nc.ChecklistItem.Code,
		ItemTitle:     nc.ChecklistItem.Title,
		Description:   nc.Description,
		SeverityLabel: models.SeverityLabel(nc.Severity),
		SeverityClass: strings.ToLower(nc.Severity),
		DeadlineDays:  deadline,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Non-Conformity Notification - %s", nc.ChecklistItem.Code)
	return m.send(recipient, subject, body)
}

// SendNCStatusChange emails the status-change notification.
func (m *Mailer) SendNCStatusChange(title, oldStatus, newStatus, to string) error {
	if to == "" {
		return nil
	}

	body, err := renderNCStatusChangeEmail(ncStatusChangeEmailData{
		Title:     title,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("NC Status Changed: %s", title)
	return m.send(to, subject, body)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	fromHeader := fmt.Sprintf("%s <%s>", m.cfg.MailFromName, m.cfg.MailFrom)
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)

	conn, err := net.DialTimeout("tcp", addr, 8*time.Second)
	if err != nil {
		return err
	}
	// Deadline covers the whole SMTP conversation, not just the dial.
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, m.cfg.SMTPHost)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.SMTPHost}); err != nil {
			return err
		}
	}

	if m.cfg.SMTPUser != "" {
		auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(m.cfg.MailFrom); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	m.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
