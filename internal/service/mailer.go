package service

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Mailer sends out verification codes over the configured SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer() *Mailer {
	from := viper.GetString("mail.sender_address")

	return &Mailer{
		from: from,
		dialer: gomail.NewDialer(
			viper.GetString("mail.host"),
			viper.GetInt("mail.port"),
			from,
			viper.GetString("mail.password"),
		),
	}
}

// SendVerificationCode mails a code to sendTo. The code is only valid
// for a few minutes so the mail says so.
func (m *Mailer) SendVerificationCode(sendTo, code string) error {
	if sendTo == m.from {
		return errors.New("invalid email address")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", sendTo)
	msg.SetHeader("Subject", "Your verification code")
	msg.SetBody("text/html", fmt.Sprintf(
		"Your verification code is <b>%v</b>.<br><br>It expires in 3 minutes. If you didn't request this you can ignore this mail.",
		code,
	))

	return m.dialer.DialAndSend(msg)
}
