// utils/email.go
package utils

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

// SendEmail sends a transactional email through the configured SMTP relay.
// Either text or html may be empty; when both are present the html body is
// attached as the alternative part.
func SendEmail(to, subject, text, html string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	if smtpHost == "" || smtpUser == "" {
		return fmt.Errorf("SMTP is not configured. Please set SMTP_HOST, SMTP_USER and SMTP_PASS")
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = smtpUser
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)

	switch {
	case text != "" && html != "":
		m.SetBody("text/plain", text)
		m.AddAlternative("text/html", html)
	case html != "":
		m.SetBody("text/html", html)
	default:
		m.SetBody("text/plain", text)
	}

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}

// SendBookingConfirmationEmail sends the booking-received email to a pilgrim
func SendBookingConfirmationEmail(to, name, packageTitle, bookingID string) error {
	subject := "Your Booking Request Has Been Received"
	body := fmt.Sprintf("Dear %s,\n\nYour booking request for %s has been received.\nBooking reference: %s\n\nYou will be notified once your payment is confirmed.\n\nBest regards,\nAlHijra Team", name, packageTitle, bookingID)
	return SendEmail(to, subject, body, "")
}

// SendPaymentSuccessEmail sends the payment receipt email to a pilgrim
func SendPaymentSuccessEmail(to, name, bookingID, packageTitle string, amountNgn float64) error {
	subject := "Payment Successful"
	body := fmt.Sprintf("Dear %s,\n\nWe have received your payment of NGN %.2f for %s.\nBooking reference: %s\n\nYour booking is now confirmed. You can download your confirmation from your dashboard.\n\nBest regards,\nAlHijra Team", name, amountNgn, packageTitle, bookingID)
	return SendEmail(to, subject, body, "")
}

// SendOTPEmail sends the email verification code
func SendOTPEmail(to, otp string) error {
	subject := "Verify Your Email"
	body := fmt.Sprintf("Your verification code is: %s\n\nThis code expires in 10 minutes.", otp)
	return SendEmail(to, subject, body, "")
}
