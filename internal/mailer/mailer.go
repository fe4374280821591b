package mailer

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	SendOTP(to, code string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	log    *logrus.Logger
}

func NewSMTPMailer(host string, port int, user, pass, from string, logger *logrus.Logger) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
		log:    logger,
	}
}

func (m *smtpMailer) SendOTP(to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your NeoMart verification code")
	msg.SetBody("text/plain", fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Errorf("Mailer: failed to send OTP to %s: %v", to, err)
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	m.log.Infof("Mailer: OTP email sent to %s", to)
	return nil
}
