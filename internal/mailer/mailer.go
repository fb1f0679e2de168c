package mailer

import (
	"fmt"
	"log"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
)

// Mailer envia os e-mails transacionais (confirmação de cadastro e
// reset de senha). Com MAIL_ENABLED=false só loga o link — útil em
// desenvolvimento local sem SMTP.
type Mailer struct {
	cfg *config.Config
	d   *gomail.Dialer
}

func New(cfg *config.Config) *Mailer {
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}

	return &Mailer{
		cfg: cfg,
		d:   gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUser, cfg.SMTPPass),
	}
}

func (m *Mailer) SendConfirmation(to, name, token string) error {
	link := fmt.Sprintf("%s/api/auth/confirm-email?token=%s", m.cfg.MailBaseURL, token)
	body := fmt.Sprintf(
		"Olá %s,\n\nConfirme seu cadastro na clínica acessando o link:\n%s\n",
		name, link,
	)
	return m.send(to, "Confirme seu cadastro", body)
}

func (m *Mailer) SendPasswordReset(to, name, token string) error {
	link := fmt.Sprintf("%s/api/auth/reset-password?token=%s", m.cfg.MailBaseURL, token)
	body := fmt.Sprintf(
		"Olá %s,\n\nPara redefinir sua senha acesse o link:\n%s\n\nSe você não pediu a redefinição, ignore este e-mail.\n",
		name, link,
	)
	return m.send(to, "Redefinição de senha", body)
}

func (m *Mailer) send(to, subject, body string) error {
	if !m.cfg.MailEnabled {
		log.Printf("mailer disabled, would send to %s: %s", to, subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.MailFrom)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.d.DialAndSend(msg)
}
