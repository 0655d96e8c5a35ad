package services

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendInvitationEmail tells a freshly created account holder that an
// administrator set them up. Callers treat failures as non-fatal.
func SendInvitationEmail(toEmail, inviterName string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY environment variable is not set")
	}

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	from := mail.NewEmail("Spotify Insight", senderAddress())
	subject := fmt.Sprintf("%s has created an account for you on Spotify Insight", inviterName)
	to := mail.NewEmail("New User", toEmail)

	htmlContent := fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; line-height: 1.6; color: #e0e0e0; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #121212; text-align: center;">
			<div style="background-color: #1e1e1e; border-radius: 8px; padding: 30px; display: inline-block; text-align: center;">
				<h1 style="color: #34D399; margin-bottom: 20px;">Your account is ready!</h1>
				<p>Hello,</p>
				<p><strong>%s</strong> has created a Spotify Insight account for you.</p>
				<p>Explore your listening history, save favourites and join the discussion.</p>
				<a href="%s/login" style="display: inline-block; background-color: #34D399; color: #121212; text-decoration: none; padding: 12px 24px; border-radius: 4px; font-weight: bold; margin-top: 20px;">Sign In</a>
				<p>If you were not expecting this email, you can safely ignore it.</p>
			</div>
			<div style="margin-top: 30px; text-align: center; font-size: 12px; color: #7f8c8d;">
				<p>Spotify Insight</p>
			</div>
		</div>
        `, inviterName, baseURL)

	plainTextContent := fmt.Sprintf("Hello, %s has created a Spotify Insight account for you. Sign in here: %s/login", inviterName, baseURL)

	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	client := sendgrid.NewSendClient(apiKey)
	_, err := client.Send(message)
	if err != nil {
		return err
	}
	return nil
}

func senderAddress() string {
	if sender := os.Getenv("SENDGRID_SENDER"); sender != "" {
		return sender
	}
	return "no-reply@spotify-insight.local"
}
