package email

import "strings"

// testDomain is Resend's shared sandbox domain; it only delivers to the account owner.
const testDomain = "resend.dev"

// Diagnostics describes the mail configuration for the settings page.
type Diagnostics struct {
	Configured   bool   `json:"configured"`
	FromEmail    string `json:"fromEmail"`
	APIKeySet    bool   `json:"apiKeySet"`
	Domain       string `json:"domain"`
	IsTestDomain bool   `json:"isTestDomain"`
	Suggestion   string `json:"suggestion,omitempty"`
}

// Diagnose inspects the sender address and key presence.
func Diagnose(from string, apiKeySet bool) Diagnostics {
	from = NormalizeFrom(from)
	d := Diagnostics{
		Configured: apiKeySet && from != "",
		FromEmail:  from,
		APIKeySet:  apiKeySet,
		Domain:     domainOf(from),
	}
	d.IsTestDomain = d.Domain == testDomain
	switch {
	case !apiKeySet:
		d.Suggestion = "Set GOODLIFE_RESEND_KEY to enable email delivery."
	case d.IsTestDomain:
		d.Suggestion = "The resend.dev test domain only delivers to your own account address. Verify a domain in Resend and set GOODLIFE_EMAIL_FROM to send to members."
	}
	return d
}

func domainOf(from string) string {
	addr := from
	if i := strings.LastIndex(addr, "<"); i >= 0 {
		addr = strings.TrimSuffix(addr[i+1:], ">")
	}
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(addr[at+1:]))
}
