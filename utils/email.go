package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer mengirim kode reset password ke pelanggan.
type Mailer interface {
	SendResetCode(to, code string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	if from == "" {
		from = username
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) SendResetCode(to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Kode Reset Password")

	body := fmt.Sprintf(`
		<h2>Reset Password</h2>
		<p>Gunakan kode berikut untuk mengganti password akun Anda:</p>
		<h1 style="letter-spacing: 5px;">%s</h1>
		<p>Kode berlaku selama 15 menit dan hanya dapat dipakai sekali.</p>
		<p>Abaikan email ini jika Anda tidak meminta reset password.</p>
	`, code)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogMailer dipakai ketika SMTP belum dikonfigurasi. Kode tidak pernah ditulis ke log.
type LogMailer struct{}

func (LogMailer) SendResetCode(to, _ string) error {
	InfoLogger.Printf("SMTP belum dikonfigurasi, kode reset untuk %s tidak dikirim", to)
	return nil
}
