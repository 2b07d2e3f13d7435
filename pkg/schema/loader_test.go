package schema

import (
	"strings"
	"testing"
	"testing/fstest"
)

const yamlForm = `
id: contact
title: Get in touch
fields:
  - name: email
    kind: email
    required: true
    rules:
      - kind: required
      - kind: email
  - name: message
    kind: text
    rules:
      - kind: maxLength
        params:
          value: "1000"
`

const jsonForm = `{
  "id": "payment",
  "steps": 2,
  "fields": [
    {"name": "cardNumber", "kind": "text", "required": true,
     "rules": [{"kind": "required"}, {"kind": "creditCard"}]},
    {"name": "cvv", "kind": "text", "step": 2,
     "rules": [{"kind": "cvv"}]}
  ]
}`

func TestParseYAML(t *testing.T) {
	form, err := Parse([]byte(yamlForm), "contact.yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if form.ID != "contact" || len(form.Fields) != 2 {
		t.Fatalf("unexpected form: %+v", form)
	}
	if !form.Fields[0].Rules.Has(RuleEmail) {
		t.Error("email rule not decoded")
	}
	rule, ok := form.Fields[1].Rules.Find(RuleMaxLength)
	if !ok || rule.Params["value"] != "1000" {
		t.Errorf("maxLength rule = %+v, %v", rule, ok)
	}
}

func TestParseJSON(t *testing.T) {
	// No file extension hint; content sniffing picks JSON.
	form, err := Parse([]byte(jsonForm), "payment")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if form.StepCount() != 2 {
		t.Errorf("StepCount = %d, want 2", form.StepCount())
	}
	if form.Fields[1].StepOrDefault() != 2 {
		t.Error("step not decoded")
	}
}

func TestParseRejectsInvalidDefinition(t *testing.T) {
	_, err := Parse([]byte(`{"id": "x", "fields": [{"name": "a", "kind": "nope"}]}`), "x.json")
	if err == nil || !strings.Contains(err.Error(), "unknown kind") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/contact.yaml": {Data: []byte(yamlForm)},
		"forms/payment.json": {Data: []byte(jsonForm)},
		"README.md":          {Data: []byte("not a form")},
	}

	forms, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("loaded %d forms, want 2", len(forms))
	}
	if _, ok := forms["contact"]; !ok {
		t.Error("contact form missing")
	}
	if _, ok := forms["payment"]; !ok {
		t.Error("payment form missing")
	}
}

func TestLoadFSRejectsDuplicateIDs(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte(yamlForm)},
		"b.yaml": {Data: []byte(yamlForm)},
	}
	if _, err := LoadFS(fsys); err == nil || !strings.Contains(err.Error(), "duplicate form id") {
		t.Fatalf("err = %v", err)
	}
}
