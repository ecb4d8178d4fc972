// Package mailer sends transactional email. Delivery is behind the Mailer
// interface so handlers can be tested without an SMTP server.
package mailer

import (
	"fmt"
	"net/smtp"
)

// Mailer delivers outbound email.
type Mailer interface {
	// SendDeleteConfirmation emails the account-deletion confirmation
	// link embedding the given token.
	SendDeleteConfirmation(toEmail, token string) error
}

// SMTPMailer sends mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	Host        string
	Port        string
	Username    string
	Password    string
	FrontendURL string
}

func (m *SMTPMailer) SendDeleteConfirmation(toEmail, token string) error {
	deleteURL := fmt.Sprintf("%s/confirm-delete/%s", m.FrontendURL, token)

	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Confirm Account Deletion - FlashZen\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.Username, toEmail, deleteEmailHTML(deleteURL))

	addr := m.Host + ":" + m.Port
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	if err := smtp.SendMail(addr, auth, m.Username, []string{toEmail}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

func deleteEmailHTML(deleteURL string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2>Account Deletion Confirmation</h2>
  <p>We received a request to delete your FlashZen account. This action cannot be undone and will permanently remove:</p>
  <ul>
    <li>All your flashcard decks and cards</li>
    <li>Your revision statistics and progress</li>
    <li>Your profile information and settings</li>
    <li>All activity logs and achievements</li>
  </ul>
  <p style="color: #d32f2f; font-weight: bold;">This action is irreversible. Please confirm only if you're absolutely sure.</p>
  <p><a href="%s" style="background-color: #d32f2f; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Yes, Delete My Account</a></p>
  <p style="font-size: 14px;">If you didn't request this deletion, please ignore this email. The link can only be used once and will expire after 24 hours.</p>
</div>`, deleteURL)
}

// Recorder is a Mailer that records sends instead of delivering. Use in
// tests; set Err to simulate delivery failure.
type Recorder struct {
	Sent []SentMail
	Err  error
}

type SentMail struct {
	To    string
	Token string
}

func (r *Recorder) SendDeleteConfirmation(toEmail, token string) error {
	if r.Err != nil {
		return r.Err
	}
	r.Sent = append(r.Sent, SentMail{To: toEmail, Token: token})
	return nil
}
