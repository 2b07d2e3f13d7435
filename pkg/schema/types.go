package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FieldKind is the simplified enum for form-friendly input kinds.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindTel      FieldKind = "tel"
	KindSelect   FieldKind = "select"
	KindCheckbox FieldKind = "checkbox"
	KindPassword FieldKind = "password"
	KindNumber   FieldKind = "number"
)

// Canonical rule kinds. Parameterised rules encode their threshold in
// Params["value"]; currency bounds use Params["min"]/Params["max"].
const (
	RuleRequired    = "required"
	RuleEmail       = "email"
	RulePhone       = "phone"
	RuleNamePattern = "namePattern"
	RuleCreditCard  = "creditCard"
	RuleExpiryDate  = "expiryDate"
	RuleCVV         = "cvv"
	RuleZipCode     = "zipCode"
	RuleCurrency    = "currency"
	RulePattern     = "pattern"
	RuleMinLength   = "minLength"
	RuleMaxLength   = "maxLength"
	RuleMin         = "min"
	RuleMax         = "max"
)

// Rule represents a single validation constraint applied to a field.
type Rule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// RuleSet is the ordered collection of constraints bound to one field. It is
// derived once at bind time and never mutated afterwards.
type RuleSet []Rule

// Has reports whether the set contains a rule of the given kind.
func (rs RuleSet) Has(kind string) bool {
	for _, rule := range rs {
		if rule.Kind == kind {
			return true
		}
	}
	return false
}

// Find returns the first rule of the given kind.
func (rs RuleSet) Find(kind string) (Rule, bool) {
	for _, rule := range rs {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return Rule{}, false
}

// Field models an individual input inside a form definition.
type Field struct {
	Name        string    `json:"name" yaml:"name"`
	Kind        FieldKind `json:"kind" yaml:"kind"`
	Required    bool      `json:"required" yaml:"required"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Options     []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Step        int       `json:"step,omitempty" yaml:"step,omitempty"`
	Rules       RuleSet   `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Form is the top-level definition a session binds to. Steps defaults to 1;
// fields without an explicit step belong to step 1.
type Form struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Steps       int     `json:"steps,omitempty" yaml:"steps,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

var (
	errFormIDMissing = errors.New("schema: form id is required")
	errNoFields      = errors.New("schema: form declares no fields")
)

var knownKinds = map[FieldKind]struct{}{
	KindText:     {},
	KindEmail:    {},
	KindTel:      {},
	KindSelect:   {},
	KindCheckbox: {},
	KindPassword: {},
	KindNumber:   {},
}

var knownRules = map[string]struct{}{
	RuleRequired:    {},
	RuleEmail:       {},
	RulePhone:       {},
	RuleNamePattern: {},
	RuleCreditCard:  {},
	RuleExpiryDate:  {},
	RuleCVV:         {},
	RuleZipCode:     {},
	RuleCurrency:    {},
	RulePattern:     {},
	RuleMinLength:   {},
	RuleMaxLength:   {},
	RuleMin:         {},
	RuleMax:         {},
}

// Validate checks structural invariants: unique field names, known kinds and
// rule kinds, step membership within [1, Steps].
func (f Form) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return errFormIDMissing
	}
	if len(f.Fields) == 0 {
		return errNoFields
	}

	// Declared step counts are authoritative; without one, fields define the
	// range themselves.
	steps := f.Steps
	if steps < 1 {
		steps = f.StepCount()
	}
	seen := make(map[string]struct{}, len(f.Fields))
	for _, field := range f.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("schema: form %q has a field without a name", f.ID)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("schema: form %q declares field %q twice", f.ID, name)
		}
		seen[name] = struct{}{}

		if _, ok := knownKinds[field.Kind]; !ok {
			return fmt.Errorf("schema: field %q has unknown kind %q", name, field.Kind)
		}
		if field.Kind == KindSelect && len(field.Options) == 0 {
			return fmt.Errorf("schema: select field %q declares no options", name)
		}
		if step := field.StepOrDefault(); step < 1 || step > steps {
			return fmt.Errorf("schema: field %q belongs to step %d outside [1,%d]", name, step, steps)
		}
		for _, rule := range field.Rules {
			if _, ok := knownRules[rule.Kind]; !ok {
				return fmt.Errorf("schema: field %q uses unknown rule %q", name, rule.Kind)
			}
		}
	}
	return nil
}

// StepOrDefault resolves the field's step membership, defaulting to 1.
func (f Field) StepOrDefault() int {
	if f.Step < 1 {
		return 1
	}
	return f.Step
}

// DisplayLabel returns the label, falling back to the field name.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// StepCount resolves the declared step count, defaulting to the highest step
// any field claims (minimum 1).
func (f Form) StepCount() int {
	steps := f.Steps
	for _, field := range f.Fields {
		if s := field.StepOrDefault(); s > steps {
			steps = s
		}
	}
	if steps < 1 {
		return 1
	}
	return steps
}

// Field returns the descriptor for name.
func (f Form) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// StepFields returns the fields belonging to step, in declaration order.
func (f Form) StepFields(step int) []Field {
	var out []Field
	for _, field := range f.Fields {
		if field.StepOrDefault() == step {
			out = append(out, field)
		}
	}
	return out
}

// FieldNames returns every field name in declaration order.
func (f Form) FieldNames() []string {
	out := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		out = append(out, field.Name)
	}
	return out
}

// RuleKinds lists the known rule kinds, sorted, for diagnostics.
func RuleKinds() []string {
	out := make([]string, 0, len(knownRules))
	for kind := range knownRules {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}
