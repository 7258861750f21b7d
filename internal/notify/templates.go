package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Templates renders the embedded transactional email bodies.
type Templates struct {
	templates *template.Template
	project   string
}

// NewTemplates parses all embedded email templates.
func NewTemplates(projectName string) (*Templates, error) {
	t, err := template.New("notify").ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Templates{templates: t, project: projectName}, nil
}

func (t *Templates) render(name string, data any) (string, error) {
	if t == nil || t.templates == nil {
		return "", fmt.Errorf("nil templates")
	}
	buf := bytes.NewBuffer(nil)
	if err := t.templates.ExecuteTemplate(buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// VerifyRegistration builds the registration OTP email.
func (t *Templates) VerifyRegistration(otp string, expiryMinutes int) (subject, html string, err error) {
	html, err = t.render("verify_registration.tmpl", map[string]any{
		"OTP":           otp,
		"ExpiryMinutes": expiryMinutes,
	})
	return "Email Verification", html, err
}

// ResetPassword builds the password-reset OTP email.
func (t *Templates) ResetPassword(otp string) (subject, html string, err error) {
	html, err = t.render("reset_password.tmpl", map[string]any{"OTP": otp})
	return "Password Reset Verification", html, err
}

// ChangeEmail builds the email-change OTP email.
func (t *Templates) ChangeEmail(otp string) (subject, html string, err error) {
	html, err = t.render("change_email.tmpl", map[string]any{"OTP": otp})
	return "Email Change Verification", html, err
}

// Welcome builds the post-verification welcome email.
func (t *Templates) Welcome(firstName string) (subject, html string, err error) {
	html, err = t.render("welcome.tmpl", map[string]any{
		"Project":   t.project,
		"FirstName": firstName,
	})
	return fmt.Sprintf("Welcome to %s!", t.project), html, err
}

// OrderConfirmationItem is one line of the order confirmation email.
type OrderConfirmationItem struct {
	ProductName string
	Quantity    int
	Price       string
}

// OrderConfirmation builds the order confirmation email.
func (t *Templates) OrderConfirmation(orderID, createdAt, total string, items []OrderConfirmationItem) (subject, html string, err error) {
	html, err = t.render("order_confirmation.tmpl", map[string]any{
		"Project":   t.project,
		"OrderID":   orderID,
		"CreatedAt": createdAt,
		"Total":     total,
		"Items":     items,
	})
	return fmt.Sprintf("Order Confirmation #%s", orderID), html, err
}
