package utils

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendMail delivers a raw mail message over SMTP. The message must already
// contain its headers (subject, MIME type). Returns an error so callers that
// depend on delivery (the payment reminder job) can react to failures.
func SendMail(email string, message []byte) error {
	host := os.Getenv("EMAIL_HOST")
	port := os.Getenv("EMAIL_PORT")
	user := os.Getenv("EMAIL_USER")
	password := os.Getenv("EMAIL_PASS")

	if host == "" || user == "" || password == "" {
		LogInfo(fmt.Sprintf("Email not configured, skipping mail to %s", email))
		return fmt.Errorf("email service not configured")
	}
	if port == "" {
		port = "587"
	}

	auth := smtp.PlainAuth("", user, password, host)

	err := smtp.SendMail(host+":"+port, auth, user, []string{email}, message)
	if err != nil {
		LogError(err, "Error sending email to "+email)
		return err
	}

	return nil
}
