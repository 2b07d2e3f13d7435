// Package validate evaluates rule sets against candidate values. Evaluation
// is deterministic: rules run in a fixed precedence (required, format checks,
// length bounds, numeric bounds) and the first failure wins, so a single
// message is surfaced per pass.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Result is the outcome of evaluating one value against one rule set.
type Result struct {
	Valid   bool
	Message string
}

// Clock supplies the current time for expiry checks. Injectable so tests can
// pin "now".
type Clock func() time.Time

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock overrides the clock used by expiry-date rules.
func WithClock(clock Clock) Option {
	return func(e *Evaluator) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithMessage overrides the default failure message for a rule kind. The
// message is a fmt format string; parameterised rules pass their thresholds
// as arguments in declaration order.
func WithMessage(kind, message string) Option {
	return func(e *Evaluator) {
		if kind == "" || message == "" {
			return
		}
		if e.messages == nil {
			e.messages = make(map[string]string)
		}
		e.messages[kind] = message
	}
}

// Evaluator evaluates rule sets. The zero value is not usable; construct with
// New.
type Evaluator struct {
	clock    Clock
	messages map[string]string
	patterns map[string]*regexp.Regexp
}

// New constructs an Evaluator with the supplied options.
func New(options ...Option) *Evaluator {
	e := &Evaluator{
		clock:    time.Now,
		patterns: make(map[string]*regexp.Regexp),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Format-stage rule kinds, in precedence order.
var formatOrder = []string{
	schema.RuleEmail,
	schema.RulePhone,
	schema.RuleNamePattern,
	schema.RuleCreditCard,
	schema.RuleExpiryDate,
	schema.RuleCVV,
	schema.RuleZipCode,
	schema.RuleCurrency,
	schema.RulePattern,
}

// Evaluate runs rules against value. An empty value on a field without a
// required rule is always valid; format and bound checks only apply to
// non-empty input.
func (e *Evaluator) Evaluate(value string, rules schema.RuleSet) Result {
	trimmed := strings.TrimSpace(value)

	if rules.Has(schema.RuleRequired) && trimmed == "" {
		return e.fail(schema.RuleRequired)
	}
	if trimmed == "" {
		return Result{Valid: true}
	}

	for _, kind := range formatOrder {
		rule, ok := rules.Find(kind)
		if !ok {
			continue
		}
		if res := e.checkFormat(trimmed, rule); !res.Valid {
			return res
		}
	}

	if rule, ok := rules.Find(schema.RuleMinLength); ok {
		if bound, ok := intParam(rule, "value"); ok && len(trimmed) < bound {
			return e.fail(schema.RuleMinLength, bound)
		}
	}
	if rule, ok := rules.Find(schema.RuleMaxLength); ok {
		if bound, ok := intParam(rule, "value"); ok && len(trimmed) > bound {
			return e.fail(schema.RuleMaxLength, bound)
		}
	}

	if res := e.checkNumericBounds(trimmed, rules); !res.Valid {
		return res
	}

	return Result{Valid: true}
}

func (e *Evaluator) checkFormat(value string, rule schema.Rule) Result {
	switch rule.Kind {
	case schema.RuleEmail:
		if !IsEmail(value) {
			return e.fail(rule.Kind)
		}
	case schema.RulePhone:
		if !IsPhone(value) {
			return e.fail(rule.Kind)
		}
	case schema.RuleNamePattern:
		if !IsName(value) {
			return e.fail(rule.Kind)
		}
	case schema.RuleCreditCard:
		if !IsCreditCard(value) {
			return e.fail(rule.Kind)
		}
	case schema.RuleExpiryDate:
		if !IsExpiry(value, e.clock()) {
			return e.fail(rule.Kind)
		}
	case schema.RuleCVV:
		if !IsCVV(value) {
			return e.fail(rule.Kind)
		}
	case schema.RuleZipCode:
		if !IsZip(value) {
			return e.fail(rule.Kind)
		}
	case schema.RuleCurrency:
		if !IsCurrency(value) {
			return e.fail(rule.Kind)
		}
	case schema.RulePattern:
		expr := rule.Params["pattern"]
		if expr == "" {
			return Result{Valid: true}
		}
		re, err := e.compile(expr)
		if err != nil {
			return Result{Valid: false, Message: fmt.Sprintf("invalid pattern %q", expr)}
		}
		if !re.MatchString(value) {
			return e.fail(rule.Kind)
		}
	}
	return Result{Valid: true}
}

// checkNumericBounds applies min/max rules plus the range parameters a
// currency rule may carry. Non-numeric input with a bound present fails the
// bound check rather than panicking.
func (e *Evaluator) checkNumericBounds(value string, rules schema.RuleSet) Result {
	type bound struct {
		kind   string
		limit  float64
		exceed func(v, limit float64) bool
	}
	var bounds []bound

	if rule, ok := rules.Find(schema.RuleMin); ok {
		if limit, ok := floatParam(rule, "value"); ok {
			bounds = append(bounds, bound{schema.RuleMin, limit, func(v, l float64) bool { return v < l }})
		}
	}
	if rule, ok := rules.Find(schema.RuleMax); ok {
		if limit, ok := floatParam(rule, "value"); ok {
			bounds = append(bounds, bound{schema.RuleMax, limit, func(v, l float64) bool { return v > l }})
		}
	}
	if rule, ok := rules.Find(schema.RuleCurrency); ok {
		if limit, ok := floatParam(rule, "min"); ok {
			bounds = append(bounds, bound{schema.RuleMin, limit, func(v, l float64) bool { return v < l }})
		}
		if limit, ok := floatParam(rule, "max"); ok {
			bounds = append(bounds, bound{schema.RuleMax, limit, func(v, l float64) bool { return v > l }})
		}
	}

	if len(bounds) == 0 {
		return Result{Valid: true}
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Result{Valid: false, Message: "must be a number"}
	}
	for _, b := range bounds {
		if b.exceed(parsed, b.limit) {
			return e.fail(b.kind, trimFloat(b.limit))
		}
	}
	return Result{Valid: true}
}

func (e *Evaluator) compile(expr string) (*regexp.Regexp, error) {
	if re, ok := e.patterns[expr]; ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	e.patterns[expr] = re
	return re, nil
}

var defaultMessages = map[string]string{
	schema.RuleRequired:    "this field is required",
	schema.RuleEmail:       "enter a valid email address",
	schema.RulePhone:       "enter a valid phone number",
	schema.RuleNamePattern: "use letters, spaces, hyphens and apostrophes only",
	schema.RuleCreditCard:  "enter a valid card number",
	schema.RuleExpiryDate:  "enter a valid expiry date (MM/YY)",
	schema.RuleCVV:         "enter a valid security code",
	schema.RuleZipCode:     "enter a valid ZIP code",
	schema.RuleCurrency:    "enter a valid amount",
	schema.RulePattern:     "does not match the expected format",
	schema.RuleMinLength:   "must be at least %v characters",
	schema.RuleMaxLength:   "must be at most %v characters",
	schema.RuleMin:         "must be at least %v",
	schema.RuleMax:         "must be at most %v",
}

func (e *Evaluator) fail(kind string, args ...any) Result {
	msg, ok := e.messages[kind]
	if !ok {
		msg = defaultMessages[kind]
	}
	if msg == "" {
		msg = "invalid value"
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return Result{Valid: false, Message: msg}
}

func intParam(rule schema.Rule, key string) (int, bool) {
	raw := rule.Params[key]
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	return val, err == nil
}

func floatParam(rule schema.Rule, key string) (float64, bool) {
	raw := rule.Params[key]
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	return val, err == nil
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
