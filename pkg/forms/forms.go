// Package forms carries the canonical built-in definitions: the contact form
// and the three-step payment form. Both use the legacy field identifiers, so
// their rule sets come straight from schema.Infer.
package forms

import "github.com/goliatone/go-formflow/pkg/schema"

// Contact returns the single-step contact form.
func Contact() schema.Form {
	return schema.Infer(schema.Form{
		ID:    "contact",
		Title: "Get in touch",
		Fields: []schema.Field{
			{Name: "firstName", Kind: schema.KindText, Required: true, Label: "First name"},
			{Name: "lastName", Kind: schema.KindText, Required: true, Label: "Last name"},
			{Name: "email", Kind: schema.KindEmail, Required: true, Label: "Email"},
			{Name: "phone", Kind: schema.KindTel, Label: "Phone"},
			{Name: "message", Kind: schema.KindText, Required: true, Label: "How can we help?"},
		},
	})
}

// Payment returns the three-step payment form: service and contact details,
// payment details, review.
func Payment() schema.Form {
	return schema.Infer(schema.Form{
		ID:    "payment",
		Title: "Make a payment",
		Steps: 3,
		Fields: []schema.Field{
			{Name: "serviceType", Kind: schema.KindSelect, Required: true, Label: "Service", Step: 1,
				Options: []string{"Tax preparation", "Tax planning", "Bookkeeping", "Consultation", "Other"}},
			{Name: "clientEmail", Kind: schema.KindEmail, Required: true, Label: "Email", Step: 1},
			{Name: "customAmount", Kind: schema.KindNumber, Required: true, Label: "Amount (USD)", Step: 1,
				Description: "Between 50 and 10000"},
			{Name: "paymentTerms", Kind: schema.KindCheckbox, Required: true, Label: "I accept the payment terms", Step: 1},

			{Name: "cardholderName", Kind: schema.KindText, Required: true, Label: "Cardholder name", Step: 2},
			{Name: "cardNumber", Kind: schema.KindText, Required: true, Label: "Card number", Step: 2},
			{Name: "expiryDate", Kind: schema.KindText, Required: true, Label: "Expiry (MM/YY)", Step: 2},
			{Name: "cvv", Kind: schema.KindText, Required: true, Label: "Security code", Step: 2},
			{Name: "billingAddress", Kind: schema.KindText, Required: true, Label: "Billing address", Step: 2},
			{Name: "billingCity", Kind: schema.KindText, Required: true, Label: "City", Step: 2},
			{Name: "billingZip", Kind: schema.KindText, Required: true, Label: "ZIP", Step: 2},
		},
	})
}
