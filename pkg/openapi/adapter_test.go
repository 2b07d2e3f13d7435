package openapi

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/schema"
)

const paymentDoc = `
openapi: 3.0.3
info:
  title: Payments
  version: 1.0.0
paths:
  /payments:
    post:
      operationId: createPayment
      summary: Make a payment
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [email, amount, terms]
              properties:
                email:
                  type: string
                  format: email
                  title: Email
                amount:
                  type: number
                  minimum: 50
                  maximum: 10000
                terms:
                  type: boolean
                notes:
                  type: string
                  maxLength: 1000
                plan:
                  type: string
                  enum: [basic, full]
                secret:
                  type: string
                  format: password
                  minLength: 8
                metadata:
                  type: object
                tags:
                  type: array
                  items:
                    type: string
      responses:
        "202":
          description: accepted
`

func TestFormFromData(t *testing.T) {
	form, err := FormFromData(context.Background(), []byte(paymentDoc), "createPayment")
	if err != nil {
		t.Fatalf("FormFromData: %v", err)
	}

	want := schema.Form{
		ID:    "createPayment",
		Title: "Make a payment",
		Fields: []schema.Field{
			{Name: "amount", Kind: schema.KindNumber, Required: true, Rules: schema.RuleSet{
				{Kind: schema.RuleRequired},
				{Kind: schema.RuleMin, Params: map[string]string{"value": "50"}},
				{Kind: schema.RuleMax, Params: map[string]string{"value": "10000"}},
			}},
			{Name: "email", Kind: schema.KindEmail, Required: true, Label: "Email", Rules: schema.RuleSet{
				{Kind: schema.RuleRequired},
				{Kind: schema.RuleEmail},
			}},
			{Name: "notes", Kind: schema.KindText, Rules: schema.RuleSet{
				{Kind: schema.RuleMaxLength, Params: map[string]string{"value": "1000"}},
			}},
			{Name: "plan", Kind: schema.KindSelect, Options: []string{"basic", "full"}},
			{Name: "secret", Kind: schema.KindPassword, Rules: schema.RuleSet{
				{Kind: schema.RuleMinLength, Params: map[string]string{"value": "8"}},
			}},
			{Name: "terms", Kind: schema.KindCheckbox, Required: true, Rules: schema.RuleSet{
				{Kind: schema.RuleRequired},
			}},
		},
	}
	if diff := cmp.Diff(want, form); diff != "" {
		t.Errorf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestFormFromDataSkipsComposites(t *testing.T) {
	form, err := FormFromData(context.Background(), []byte(paymentDoc), "createPayment")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"metadata", "tags"} {
		if _, ok := form.Field(name); ok {
			t.Errorf("composite property %q mapped to a field", name)
		}
	}
}

func TestFormFromDataOperationNotFound(t *testing.T) {
	_, err := FormFromData(context.Background(), []byte(paymentDoc), "deletePayment")
	if err == nil || !errors.Is(err, errOperationNotFound) {
		t.Fatalf("err = %v, want operation-not-found", err)
	}
}

func TestFormFromDataEmptyPayload(t *testing.T) {
	if _, err := FormFromData(context.Background(), nil, "x"); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestFormFromSpecNil(t *testing.T) {
	if _, err := FormFromSpec(nil, "x"); err == nil {
		t.Fatal("expected error for nil spec")
	}
}

func TestFormFromDataNoRequestBody(t *testing.T) {
	const bare = `
openapi: 3.0.3
info:
  title: Payments
  version: 1.0.0
paths:
  /ping:
    get:
      operationId: ping
      responses:
        "200":
          description: ok
`
	if _, err := FormFromData(context.Background(), []byte(bare), "ping"); err == nil {
		t.Fatal("expected error for operation without request body")
	}
}
