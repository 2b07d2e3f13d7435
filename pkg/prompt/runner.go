// Package prompt walks a multi-step form session in a terminal: each step's
// fields are prompted and validated in place, the review projection is shown
// before submission, and a declined submission can be retried by the user.
package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/steps"
)

// RunnerOption customises a Runner.
type RunnerOption func(*Runner)

// WithDriver replaces the interactive survey driver, mainly for tests.
func WithDriver(driver Driver) RunnerOption {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// Runner drives a steps.Controller through its whole flow.
type Runner struct {
	controller *steps.Controller
	driver     Driver
}

// NewRunner wraps a controller with the default survey driver.
func NewRunner(controller *steps.Controller, options ...RunnerOption) (*Runner, error) {
	if controller == nil {
		return nil, errors.New("prompt: controller is required")
	}
	r := &Runner{
		controller: controller,
		driver:     NewSurveyDriver(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

// Run prompts through every step and submits at the review step. It returns
// the submission result, or ErrAborted when the user backs out.
func (r *Runner) Run(ctx context.Context) (session.SubmissionResult, error) {
	sess := r.controller.Session()
	form := sess.Form()

	for !r.controller.AtFinalStep() {
		step := r.controller.Current()
		for _, field := range form.StepFields(step) {
			if err := r.promptField(ctx, sess, field); err != nil {
				return session.SubmissionResult{}, err
			}
		}
		if !r.controller.Next() {
			// A field regressed since its prompt; re-run the step so the
			// user sees the error.
			if name, ok := sess.FirstInvalid(); ok {
				state, _ := sess.State(name)
				_ = r.driver.Info(ctx, fmt.Sprintf("%s: %s", name, state.LastError))
			}
		}
	}

	// Review-step fields (if any) still need collecting before projection.
	for _, field := range form.StepFields(r.controller.Current()) {
		if err := r.promptField(ctx, sess, field); err != nil {
			return session.SubmissionResult{}, err
		}
	}

	for {
		if err := r.showReview(ctx); err != nil {
			return session.SubmissionResult{}, err
		}

		confirmed, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit?", Default: true})
		if err != nil {
			return session.SubmissionResult{}, err
		}
		if !confirmed {
			return session.SubmissionResult{}, ErrAborted
		}

		result, err := r.controller.Submit(ctx)
		if err == nil {
			if result.Message != "" {
				_ = r.driver.Info(ctx, result.Message)
			}
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return result, err
		}

		_ = r.driver.Info(ctx, sess.FormMessage())
		retry, confirmErr := r.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
		if confirmErr != nil {
			return session.SubmissionResult{}, confirmErr
		}
		if !retry {
			return result, err
		}
	}
}

func (r *Runner) promptField(ctx context.Context, sess *session.Session, field schema.Field) error {
	label := field.DisplayLabel()
	if field.Required {
		label += " *"
	}

	for {
		value, err := r.askValue(ctx, sess, field, label)
		if err != nil {
			return err
		}

		if err := sess.Input(field.Name, value); err != nil {
			return err
		}
		if sess.Blur(field.Name) {
			return nil
		}

		state, _ := sess.State(field.Name)
		if err := r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", field.Name, state.LastError)); err != nil {
			return err
		}
	}
}

func (r *Runner) askValue(ctx context.Context, sess *session.Session, field schema.Field, label string) (string, error) {
	current := sess.Value(field.Name)

	switch field.Kind {
	case schema.KindSelect:
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      field.Options,
			DefaultIndex: indexOf(field.Options, current),
			Help:         field.Description,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx], nil

	case schema.KindCheckbox:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: current == "true",
			Help:    field.Description,
		})
		if err != nil {
			return "", err
		}
		if checked {
			return "true", nil
		}
		return "false", nil

	case schema.KindPassword:
		return r.driver.Password(ctx, InputConfig{Message: label, Help: field.Description})

	default:
		if field.Rules.Has(schema.RuleCVV) {
			return r.driver.Password(ctx, InputConfig{Message: label, Help: field.Description})
		}
		return r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: current,
			Help:    field.Description,
		})
	}
}

func (r *Runner) showReview(ctx context.Context) error {
	projection := r.controller.Review()
	if err := r.driver.Info(ctx, "Review your details:"); err != nil {
		return err
	}
	for _, item := range projection.Items {
		if err := r.driver.Info(ctx, fmt.Sprintf("  %s: %s", item.Label, item.Value)); err != nil {
			return err
		}
	}
	return nil
}
