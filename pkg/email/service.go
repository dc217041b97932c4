package email

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Service handles email sending
type Service struct {
	fromEmail   string
	fromName    string
	sendGridKey string
	useSendGrid bool
}

// NewService creates a new email service
// If sendGridAPIKey is provided, emails will be sent via SendGrid
// Otherwise, emails will be logged to console (development mode)
func NewService(fromEmail, fromName, sendGridAPIKey string) *Service {
	useSendGrid := sendGridAPIKey != ""
	if useSendGrid {
		log.Printf("✅ Email service initialized with SendGrid")
	} else {
		log.Printf("⚠️  Email service in console-only mode (set SENDGRID_API_KEY for production)")
	}

	return &Service{
		fromEmail:   fromEmail,
		fromName:    fromName,
		sendGridKey: sendGridAPIKey,
		useSendGrid: useSendGrid,
	}
}

// SendVoucherCopy emails the buyer a copy of their voucher. Best-effort:
// the SMS is the primary delivery channel and the webhook response never
// depends on this send.
func (s *Service) SendVoucherCopy(toEmail, toName, serial, pin string) error {
	subject := "Your ChalePay voucher"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Payment received!</h2>
			<p>Hi %s,</p>
			<p>Thank you for your purchase. Here is your voucher:</p>
			<p><strong>Serial:</strong> %s<br>
			<strong>PIN:</strong> %s</p>
			<p>These details were also sent to your phone by SMS.</p>
			<p>Thanks,<br>The ChalePay Team</p>
		</body>
		</html>
	`, toName, serial, pin)

	plainText := fmt.Sprintf(`
Hi %s,

Thank you for your purchase. Here is your voucher:

Serial: %s
PIN: %s

These details were also sent to your phone by SMS.

Thanks,
The ChalePay Team
	`, toName, serial, pin)

	if s.useSendGrid {
		return s.sendViaSendGrid(toEmail, toName, subject, body, plainText)
	}

	return s.logEmailToConsole(toEmail, toName, subject)
}

// SendLowStockAlert warns the operations address that the voucher inventory
// is running out.
func (s *Service) SendLowStockAlert(toEmail string, remaining int) error {
	subject := fmt.Sprintf("Voucher stock low: %d left", remaining)
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Voucher inventory is running low</h2>
			<p>Only <strong>%d</strong> unused vouchers remain in the store.</p>
			<p>Seed more rows into the Vouchers sheet before the inventory is exhausted,
			or buyers will start receiving "no vouchers left".</p>
		</body>
		</html>
	`, remaining)

	plainText := fmt.Sprintf(`
Voucher inventory is running low: only %d unused vouchers remain.

Seed more rows into the Vouchers sheet before the inventory is exhausted.
	`, remaining)

	if s.useSendGrid {
		return s.sendViaSendGrid(toEmail, "Ops", subject, body, plainText)
	}

	return s.logEmailToConsole(toEmail, "Ops", subject)
}

// sendViaSendGrid sends email using SendGrid API
func (s *Service) sendViaSendGrid(toEmail, toName, subject, htmlBody, plainTextBody string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)

	message := mail.NewSingleEmail(from, subject, to, plainTextBody, htmlBody)

	client := sendgrid.NewSendClient(s.sendGridKey)
	response, err := client.Send(message)

	if err != nil {
		log.Printf("❌ SendGrid error: %v", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		log.Printf("❌ SendGrid returned error status %d: %s", response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid returned error status: %d", response.StatusCode)
	}

	log.Printf("✅ Email sent successfully to %s (SendGrid status: %d)", toEmail, response.StatusCode)
	return nil
}

// logEmailToConsole logs email details to console (development mode)
func (s *Service) logEmailToConsole(toEmail, toName, subject string) error {
	log.Printf("📧 [EMAIL] %s", subject)
	log.Printf("   To: %s <%s>", toName, toEmail)
	log.Printf("   From: %s <%s>", s.fromName, s.fromEmail)
	log.Printf("   ⚠️  Email NOT sent (development mode)")
	return nil
}
