package steps

import (
	"strings"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/validate"
)

// ReviewItem is one read-only line in the review projection.
type ReviewItem struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Review is the projection shown on the final step. It is computed from the
// live values at call time; callers must not cache it across edits.
type Review struct {
	FormID string       `json:"formId"`
	Items  []ReviewItem `json:"items"`
}

const billingPrefix = "billing"

// Review builds the projection for the current values: card numbers are
// masked to their last four digits, billing sub-fields collapse into a single
// address line, and secrets (password kinds, CVV) never appear.
func (c *Controller) Review() Review {
	form := c.session.Form()
	values := c.session.Values()

	review := Review{FormID: form.ID}
	var billing []string
	billingLabelled := false

	for _, field := range form.Fields {
		value := strings.TrimSpace(values[field.Name])
		if value == "" {
			continue
		}
		if field.Kind == schema.KindPassword || field.Rules.Has(schema.RuleCVV) {
			continue
		}

		if strings.HasPrefix(field.Name, billingPrefix) {
			billing = append(billing, value)
			if !billingLabelled {
				review.Items = append(review.Items, ReviewItem{Name: billingPrefix, Label: "Billing address"})
				billingLabelled = true
			}
			continue
		}

		if field.Rules.Has(schema.RuleCreditCard) {
			value = validate.MaskCardNumber(value)
		}

		review.Items = append(review.Items, ReviewItem{
			Name:  field.Name,
			Label: field.DisplayLabel(),
			Value: value,
		})
	}

	if billingLabelled {
		joined := strings.Join(billing, ", ")
		for i := range review.Items {
			if review.Items[i].Name == billingPrefix {
				review.Items[i].Value = joined
				break
			}
		}
	}

	return review
}
