package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTemplates(t *testing.T) *Templates {
	t.Helper()
	templates, err := NewTemplates("shopd")
	require.NoError(t, err)
	return templates
}

func TestVerifyRegistration(t *testing.T) {
	templates := newTemplates(t)

	subject, html, err := templates.VerifyRegistration("042311", 6)
	require.NoError(t, err)
	assert.Equal(t, "Email Verification", subject)
	assert.Contains(t, html, "042311")
	assert.Contains(t, html, "6")
}

func TestResetPassword(t *testing.T) {
	templates := newTemplates(t)

	subject, html, err := templates.ResetPassword("771200")
	require.NoError(t, err)
	assert.Equal(t, "Password Reset Verification", subject)
	assert.Contains(t, html, "771200")
}

func TestChangeEmail(t *testing.T) {
	templates := newTemplates(t)

	subject, html, err := templates.ChangeEmail("500149")
	require.NoError(t, err)
	assert.Equal(t, "Email Change Verification", subject)
	assert.Contains(t, html, "500149")
}

func TestWelcome(t *testing.T) {
	templates := newTemplates(t)

	subject, html, err := templates.Welcome("Asha")
	require.NoError(t, err)
	assert.Equal(t, "Welcome to shopd!", subject)
	assert.Contains(t, html, "Asha")
}

func TestOrderConfirmation(t *testing.T) {
	templates := newTemplates(t)

	subject, html, err := templates.OrderConfirmation(
		"3f2e1d0c",
		"29 Aug 2026 10:30",
		"1247.50",
		[]OrderConfirmationItem{
			{ProductName: "Face Serum", Quantity: 2, Price: "499.00"},
			{ProductName: "Hair Oil", Quantity: 1, Price: "249.50"},
		},
	)
	require.NoError(t, err)
	assert.Contains(t, subject, "3f2e1d0c")
	assert.Contains(t, html, "Face Serum")
	assert.Contains(t, html, "Hair Oil")
	assert.Contains(t, html, "1247.50")
	assert.Contains(t, html, "499.00")
}

func TestTemplateOutputEscapesHTML(t *testing.T) {
	templates := newTemplates(t)

	_, html, err := templates.OrderConfirmation(
		"id", "now", "1.00",
		[]OrderConfirmationItem{{ProductName: "<script>alert(1)</script>", Quantity: 1, Price: "1.00"}},
	)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}
