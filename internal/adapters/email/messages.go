package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// DisplayName is prefixed to bare from addresses.
const DisplayName = "Goodlife Fitness"

// Subjects for the fixed message kinds.
const (
	PaymentSubject        = "Payment Confirmation - Goodlife Fitness"
	DefaultMessageSubject = "Message from Goodlife Fitness"
	TestSubject           = "Test Email from Goodlife Fitness"
)

// NormalizeFrom gives a bare sender address the gym's display name.
// "noreply@x.com" becomes "Goodlife Fitness <noreply@x.com>"; addresses
// already in "Name <addr>" form are returned unchanged.
func NormalizeFrom(from string) string {
	from = strings.TrimSpace(from)
	if from == "" || strings.Contains(from, "<") {
		return from
	}
	return fmt.Sprintf("%s <%s>", DisplayName, from)
}

// WelcomeData fills the welcome email.
type WelcomeData struct {
	MemberName  string
	MemberEmail string
	Plan        string
	StartDate   string
	ExpiryDate  string
}

// PaymentData fills the payment confirmation email.
type PaymentData struct {
	MemberName    string
	MemberEmail   string
	Amount        float64
	Method        string
	Date          string
	TransactionID string
	ExpiryDate    string
}

// GeneralData fills a free-form message to one member.
type GeneralData struct {
	MemberName  string
	MemberEmail string
	Subject     string
	Message     string
}

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif; color: #1f2937; margin: 0; padding: 0;">
<div style="max-width: 600px; margin: 0 auto;">
<div style="background: #dc2626; color: #ffffff; padding: 24px; text-align: center;"><h1 style="margin: 0;">{{.Heading}}</h1></div>
<div style="padding: 24px; background: #ffffff;">{{.Body}}</div>
<div style="padding: 16px; text-align: center; font-size: 12px; color: #6b7280;">Goodlife Fitness &middot; Stay strong, live well.</div>
</div></body></html>`))

var welcomeBody = template.Must(template.New("welcome").Parse(`<p>Hi {{.MemberName}},</p>
<p>Welcome to the Goodlife Fitness family! Your membership is now active.</p>
<h3>Membership details</h3>
<ul>
<li><strong>Plan:</strong> {{.Plan}}</li>
<li><strong>Start date:</strong> {{.StartDate}}</li>
<li><strong>Expiry date:</strong> {{.ExpiryDate}}</li>
</ul>
<p>We look forward to seeing you at the gym.</p>`))

var paymentBody = template.Must(template.New("payment").Parse(`<p>Hi {{.MemberName}},</p>
<p>We have received your payment. Thank you!</p>
<ul>
<li><strong>Amount:</strong> &#8373;{{printf "%.2f" .Amount}}</li>
<li><strong>Method:</strong> {{.Method}}</li>
<li><strong>Date:</strong> {{.Date}}</li>
{{- if .TransactionID}}
<li><strong>Transaction ID:</strong> {{.TransactionID}}</li>
{{- end}}
{{- if .ExpiryDate}}
<li><strong>Membership valid until:</strong> {{.ExpiryDate}}</li>
{{- end}}
</ul>`))

var generalBody = template.Must(template.New("general").Parse(`<p>Hi {{.Name}},</p>
{{.Message}}`))

func render(heading string, body *template.Template, data any) (string, error) {
	var inner bytes.Buffer
	if err := body.Execute(&inner, data); err != nil {
		return "", fmt.Errorf("render %s: %w", body.Name(), err)
	}
	var out bytes.Buffer
	err := layout.Execute(&out, struct {
		Heading string
		Body    template.HTML
	}{heading, template.HTML(inner.String())})
	if err != nil {
		return "", fmt.Errorf("render layout: %w", err)
	}
	return out.String(), nil
}

// Welcome builds the welcome email sent after a direct registration.
func Welcome(d WelcomeData) (SendRequest, error) {
	html, err := render("Welcome to Goodlife Fitness!", welcomeBody, d)
	if err != nil {
		return SendRequest{}, err
	}
	return SendRequest{
		To:       []string{d.MemberEmail},
		Subject:  fmt.Sprintf("Welcome to Goodlife Fitness, %s!", d.MemberName),
		HTML:     html,
		Category: CategoryWelcome,
	}, nil
}

// PaymentConfirmation builds the receipt sent when a payment is recorded or confirmed.
func PaymentConfirmation(d PaymentData) (SendRequest, error) {
	html, err := render("Payment Received", paymentBody, d)
	if err != nil {
		return SendRequest{}, err
	}
	return SendRequest{
		To:       []string{d.MemberEmail},
		Subject:  PaymentSubject,
		HTML:     html,
		Category: CategoryPayment,
	}, nil
}

// markdown renders message text; line breaks are kept and raw HTML is omitted.
var markdown = goldmark.New(goldmark.WithRendererOptions(gmhtml.WithHardWraps()))

// General builds a staff-authored message from markdown text.
func General(d GeneralData) (SendRequest, error) {
	var md bytes.Buffer
	if err := markdown.Convert([]byte(d.Message), &md); err != nil {
		return SendRequest{}, fmt.Errorf("render message: %w", err)
	}
	subject := strings.TrimSpace(d.Subject)
	if subject == "" {
		subject = DefaultMessageSubject
	}
	html, err := render(subject, generalBody, struct {
		Name    string
		Message template.HTML
	}{d.MemberName, template.HTML(md.String())})
	if err != nil {
		return SendRequest{}, err
	}
	return SendRequest{
		To:       []string{d.MemberEmail},
		Subject:  subject,
		HTML:     html,
		Category: CategoryMessage,
	}, nil
}

// Test builds the configuration check email.
func Test(to string) SendRequest {
	return SendRequest{
		To:       []string{to},
		Subject:  TestSubject,
		HTML:     "<p>This is a test email.</p>",
		Category: CategoryTest,
	}
}
