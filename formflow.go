// Package formflow binds rule-driven form definitions to live sessions:
// per-field validation, draft caching, multi-step gating with a review
// projection, and pluggable submission. Subpackages provide the pieces;
// this root package re-exports the common entry points.
package formflow

import (
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/steps"
)

// Form is the top-level definition a session binds to.
type Form = schema.Form

// Field models an individual input inside a form definition.
type Field = schema.Field

// Rule represents a single validation constraint.
type Rule = schema.Rule

// RuleSet is the constraint collection bound to one field.
type RuleSet = schema.RuleSet

// SubmissionResult is produced once per submit attempt.
type SubmissionResult = session.SubmissionResult

// NewSession validates the form and binds a session to it.
func NewSession(form Form, options ...session.Option) (*session.Session, error) {
	return session.New(form, options...)
}

// NewController wraps a session with multi-step gating.
func NewController(sess *session.Session) (*steps.Controller, error) {
	return steps.New(sess)
}

// LoadForm reads a form definition from a JSON or YAML file.
func LoadForm(path string) (Form, error) {
	return schema.LoadFile(path)
}
