package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendBookingConfirmation(toEmail string, details BookingDetails) error
}

type BookingDetails struct {
	Name string
	Date string
	Time string
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendBookingConfirmation(toEmail string, details BookingDetails) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your interview is scheduled")
	m.SetBody("text/html", confirmationBody(details))

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send booking confirmation to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Booking confirmation sent to %s\n", toEmail)
	return nil
}

func confirmationBody(d BookingDetails) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hello %s,</h2>
			<p>Your interview is scheduled for:</p>
			<h1 style="color: #4CAF50;">%s at %s</h1>
			<p>If you did not request this interview, please ignore this email.</p>
		</div>
	`, html.EscapeString(d.Name), html.EscapeString(d.Date), html.EscapeString(d.Time))
}
