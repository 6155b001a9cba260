package utils

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
)

// ======================
// SMTP Configuration
// ======================
var (
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	smtpUsername  = os.Getenv("SMTP_USERNAME")
	smtpPassword  = os.Getenv("SMTP_PASSWORD")
	smtpFromName  = os.Getenv("SMTP_FROM_NAME")
	smtpFromEmail = os.Getenv("SMTP_FROM_EMAIL")
	frontendURL   = os.Getenv("FRONTEND_URL")
)

// ======================
// Low-level sendEmail with STARTTLS
// ======================
func sendEmail(to, subject, body string) error {
	fmt.Println("📧 Sending Email:")
	fmt.Printf("To      : %s\nSubject : %s\n", to, subject)

	if smtpHost == "" || smtpUsername == "" || smtpPassword == "" {
		fmt.Println("⚠️ SMTP not configured. Email not sent.")
		return nil
	}

	if smtpFromEmail == "" {
		smtpFromEmail = smtpUsername
	}

	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         smtpHost,
	}

	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", smtpUsername, smtpPassword, smtpHost)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := client.Mail(smtpFromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	from := smtpFromName
	if from == "" {
		from = smtpFromEmail
	} else {
		from = fmt.Sprintf("%s <%s>", smtpFromName, smtpFromEmail)
	}

	msg := []byte(fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n%s", from, to, subject, body))

	if _, err = w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		fmt.Printf("⚠️ QUIT command error (non-critical): %v\n", err)
	}

	fmt.Println("✅ Email sent successfully!")
	return nil
}

// ======================
// Organization onboarding
// ======================
func SendVerificationEmail(toEmail, orgName, token string) error {
	baseURL := frontendURL
	if baseURL == "" {
		baseURL = "http://localhost:5173"
	}

	verifyURL := fmt.Sprintf("%s/auth/verify-email?token=%s", baseURL, token)
	subject := "Verify your ZawadiTap organization account"
	body := fmt.Sprintf("Hello,\n\nYour organization \"%s\" has been registered on ZawadiTap.\nClick here to verify your email: %s\n\nThis link expires in 24 hours.", orgName, verifyURL)

	return sendEmail(toEmail, subject, body)
}

// ======================
// Password Reset
// ======================
func SendResetLink(toEmail string, resetToken string) error {
	baseURL := frontendURL
	if baseURL == "" {
		baseURL = "http://localhost:5173"
	}

	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s", baseURL, resetToken)
	subject := "Reset your password"
	body := fmt.Sprintf("Click here to reset your password: %s\n\nIf you did not request this password reset, please ignore this email.", resetURL)

	return sendEmail(toEmail, subject, body)
}
