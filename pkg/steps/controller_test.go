package steps

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/forms"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/validate"
)

func paymentSession(t *testing.T, options ...session.Option) *session.Session {
	t.Helper()
	eval := validate.New(validate.WithClock(func() time.Time {
		return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	}))
	options = append([]session.Option{session.WithEvaluator(eval)}, options...)
	sess, err := session.New(forms.Payment(), options...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(sess.Close)
	return sess
}

func fillStepOne(t *testing.T, sess *session.Session) {
	t.Helper()
	for name, value := range map[string]string{
		"serviceType":  "Consultation",
		"clientEmail":  "ada@example.com",
		"customAmount": "150",
		"paymentTerms": "true",
	} {
		if err := sess.Input(name, value); err != nil {
			t.Fatalf("Input(%s): %v", name, err)
		}
	}
}

func fillStepTwo(t *testing.T, sess *session.Session) {
	t.Helper()
	for name, value := range map[string]string{
		"cardholderName": "Ada Lovelace",
		"cardNumber":     "4539 1488 0343 6467",
		"expiryDate":     "12/25",
		"cvv":            "123",
		"billingAddress": "1 Analytical Way",
		"billingCity":    "London",
		"billingZip":     "12345",
	} {
		if err := sess.Input(name, value); err != nil {
			t.Fatalf("Input(%s): %v", name, err)
		}
	}
}

func TestForwardGate(t *testing.T) {
	sess := paymentSession(t)
	c, err := New(sess)
	if err != nil {
		t.Fatal(err)
	}
	if c.Steps() != 3 || c.Current() != 1 {
		t.Fatalf("steps=%d current=%d", c.Steps(), c.Current())
	}

	if c.Next() {
		t.Fatal("empty step advanced")
	}
	if c.Current() != 1 {
		t.Errorf("failed gate moved the controller to %d", c.Current())
	}
	// The gate surfaces per-field errors on the way.
	if state, _ := sess.State("clientEmail"); state.Valid {
		t.Error("gate did not mark step fields invalid")
	}

	fillStepOne(t, sess)
	if !c.Next() {
		t.Fatal("valid step refused to advance")
	}
	if c.Current() != 2 {
		t.Errorf("Current = %d, want 2", c.Current())
	}
}

func TestBackwardUnconditional(t *testing.T) {
	sess := paymentSession(t)
	c, _ := New(sess)

	fillStepOne(t, sess)
	if !c.Next() {
		t.Fatal("advance failed")
	}

	// Step 2 is untouched and invalid, but going back never validates.
	if !c.Back() {
		t.Fatal("backward move refused")
	}
	if c.Current() != 1 {
		t.Errorf("Current = %d, want 1", c.Current())
	}
}

func TestGoToSkipsValidatesIntermediateSteps(t *testing.T) {
	sess := paymentSession(t)
	c, _ := New(sess)

	fillStepOne(t, sess)
	if c.GoTo(3) {
		t.Fatal("jump past an invalid step succeeded")
	}
	// The controller stops at the step that failed its gate.
	if c.Current() != 2 {
		t.Errorf("Current = %d, want 2", c.Current())
	}

	fillStepTwo(t, sess)
	if !c.GoTo(3) {
		t.Fatal("jump to review failed with all steps valid")
	}
	if !c.AtFinalStep() {
		t.Error("AtFinalStep = false at the last step")
	}
}

func TestGoToRejectsOutOfRange(t *testing.T) {
	sess := paymentSession(t)
	c, _ := New(sess)

	if c.GoTo(0) || c.GoTo(4) || c.GoTo(1) {
		t.Error("out-of-range or no-op targets must be rejected")
	}
}

func TestSubmitRequiresFinalStep(t *testing.T) {
	sess := paymentSession(t)
	c, _ := New(sess)

	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrNotAtFinalStep) {
		t.Fatalf("err = %v, want ErrNotAtFinalStep", err)
	}
}

func TestSubmitSuccessResetsToStepOne(t *testing.T) {
	sess := paymentSession(t, session.WithSubmitter(
		session.SubmitterFunc(func(ctx context.Context, values map[string]string) (session.SubmissionResult, error) {
			return session.SubmissionResult{Success: true, Message: "ok", TransactionID: "TXN-9"}, nil
		})))
	c, _ := New(sess)

	fillStepOne(t, sess)
	fillStepTwo(t, sess)
	if !c.GoTo(3) {
		t.Fatal("could not reach review")
	}

	result, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !result.Success {
		t.Errorf("result = %+v", result)
	}
	if c.Current() != 1 {
		t.Errorf("Current after success = %d, want 1", c.Current())
	}
}

func TestSubmitRejectionStaysAtReview(t *testing.T) {
	sess := paymentSession(t, session.WithSubmitter(
		session.SubmitterFunc(func(ctx context.Context, values map[string]string) (session.SubmissionResult, error) {
			return session.SubmissionResult{Message: "declined"}, session.ErrDeclined
		})))
	c, _ := New(sess)

	fillStepOne(t, sess)
	fillStepTwo(t, sess)
	if !c.GoTo(3) {
		t.Fatal("could not reach review")
	}

	if _, err := c.Submit(context.Background()); !errors.Is(err, session.ErrDeclined) {
		t.Fatalf("err = %v", err)
	}
	if !c.AtFinalStep() {
		t.Error("rejection moved the controller off the review step")
	}
}

func TestReviewProjection(t *testing.T) {
	sess := paymentSession(t)
	c, _ := New(sess)

	fillStepOne(t, sess)
	fillStepTwo(t, sess)

	got := c.Review()
	want := Review{
		FormID: "payment",
		Items: []ReviewItem{
			{Name: "serviceType", Label: "Service", Value: "Consultation"},
			{Name: "clientEmail", Label: "Email", Value: "ada@example.com"},
			{Name: "customAmount", Label: "Amount (USD)", Value: "150"},
			{Name: "paymentTerms", Label: "I accept the payment terms", Value: "true"},
			{Name: "cardholderName", Label: "Cardholder name", Value: "Ada Lovelace"},
			{Name: "cardNumber", Label: "Card number", Value: "•••• •••• •••• 6467"},
			{Name: "expiryDate", Label: "Expiry (MM/YY)", Value: "12/25"},
			{Name: "billing", Label: "Billing address", Value: "1 Analytical Way, London, 12345"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Review mismatch (-want +got):\n%s", diff)
	}
}

func TestReviewRecomputedPerEntry(t *testing.T) {
	sess := paymentSession(t)
	c, _ := New(sess)

	fillStepOne(t, sess)
	first := c.Review()

	_ = sess.Input("clientEmail", "countess@example.com")
	second := c.Review()

	if first.Items[1].Value == second.Items[1].Value {
		t.Error("review projection was not recomputed after an edit")
	}
	if second.Items[1].Value != "countess@example.com" {
		t.Errorf("updated value = %q", second.Items[1].Value)
	}
}

func TestReviewSkipsEmptyAndSecret(t *testing.T) {
	sess := paymentSession(t)
	c, _ := New(sess)

	fillStepTwo(t, sess)
	review := c.Review()
	for _, item := range review.Items {
		if item.Name == "cvv" {
			t.Error("CVV leaked into the review projection")
		}
		if item.Name == "serviceType" {
			t.Error("empty field appeared in the review projection")
		}
	}
}
