package notifier

import (
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

const (
	smtpTimeout     = 15 * time.Second
	defaultSMTPPort = 587
)

// SMTPConfig holds the mail delivery settings.
type SMTPConfig struct {
	Server   string
	Port     int
	User     string
	Password string
	From     string
	To       string // comma-separated recipients
}

// Enabled reports whether enough settings are present to send mail.
func (s *SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Server) != "" &&
		strings.TrimSpace(s.From) != "" &&
		strings.TrimSpace(s.To) != ""
}

// Mailer sends HTML reports over SMTP.
type Mailer struct {
	cfg SMTPConfig
}

// NewMailer creates a Mailer. Sending is a no-op when config is incomplete.
func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers an HTML report to all configured recipients.
func (m *Mailer) Send(subject, htmlBody string) error {
	if !m.cfg.Enabled() {
		log.Println("[WARN] smtp not configured, skipping mail delivery")
		return nil
	}
	toList := strings.Split(m.cfg.To, ",")
	for i := range toList {
		toList[i] = strings.TrimSpace(toList[i])
	}
	if err := m.send(subject, htmlBody, toList); err != nil {
		return err
	}
	log.Printf("[INFO] report mailed to %s", m.cfg.To)
	return nil
}

func (m *Mailer) send(subject, htmlBody string, to []string) error {
	port := m.cfg.Port
	if port == 0 {
		port = defaultSMTPPort
	}
	addr := net.JoinHostPort(m.cfg.Server, strconv.Itoa(port))

	var conn net.Conn
	var err error
	if port == 465 {
		conn, err = tls.DialWithDialer(&net.Dialer{Timeout: smtpTimeout}, "tcp", addr, &tls.Config{ServerName: m.cfg.Server})
	} else {
		conn, err = net.DialTimeout("tcp", addr, smtpTimeout)
	}
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Server)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Server}); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if m.cfg.Password != "" {
		auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Server)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	for _, t := range to {
		if t == "" {
			continue
		}
		if err := client.Rcpt(t); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", t, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		m.cfg.From, strings.Join(to, ","), subject)
	if _, err := w.Write([]byte(headers + htmlBody)); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return client.Quit()
}
