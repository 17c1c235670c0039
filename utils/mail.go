package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
)

type orderConfirmationData struct {
	Name    string
	OrderID int
	Total   float64
}

const orderConfirmationTemplate = `<html>
<body>
<p>Hi {{.Name}},</p>
<p>Thanks for shopping at Wingtip Toys! Your order <strong>#{{.OrderID}}</strong> has been received.</p>
<p>Order total: <strong>${{printf "%.2f" .Total}}</strong></p>
<p>We will let you know as soon as it ships.</p>
</body>
</html>`

// SendOrderConfirmation mails a checkout receipt to the customer.
func SendOrderConfirmation(emailTo, name string, orderID int, total float64) error {
	tmpl, err := template.New("orderConfirmation").Parse(orderConfirmationTemplate)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, orderConfirmationData{Name: name, OrderID: orderID, Total: total}); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nSubject: Your Wingtip Toys order #%d\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		os.Getenv("FROM_EMAIL"),
		orderID,
		body.String(),
	)

	auth := smtp.PlainAuth(
		"",
		os.Getenv("FROM_EMAIL"),
		os.Getenv("FROM_EMAIL_PASSWORD"),
		os.Getenv("FROM_EMAIL_SMTP"),
	)

	if err := smtp.SendMail(os.Getenv("SMTP_ADDRESS"), auth, os.Getenv("FROM_EMAIL"), []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
