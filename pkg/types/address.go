package types

import "strings"

// Address is a shipping or billing destination. Every field is subject
// to the locale rules in internal/validation before a step commits.
type Address struct {
	RecipientName string  `json:"recipient_name"`
	Line1         string  `json:"line1"`
	Line2         *string `json:"line2,omitempty"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	PostalCode    string  `json:"postal_code"`
	Country       string  `json:"country"`
	Phone         string  `json:"phone"`
}

// Normalize trims whitespace and defaults the country.
func (a Address) Normalize() Address {
	out := Address{
		RecipientName: strings.TrimSpace(a.RecipientName),
		Line1:         strings.TrimSpace(a.Line1),
		City:          strings.TrimSpace(a.City),
		State:         strings.TrimSpace(a.State),
		PostalCode:    strings.TrimSpace(a.PostalCode),
		Country:       strings.ToUpper(strings.TrimSpace(a.Country)),
		Phone:         strings.TrimSpace(a.Phone),
	}
	if out.Country == "" {
		out.Country = "IN"
	}
	if a.Line2 != nil {
		line2 := strings.TrimSpace(*a.Line2)
		if line2 != "" {
			out.Line2 = &line2
		}
	}
	return out
}
