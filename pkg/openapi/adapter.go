// Package openapi derives form definitions from OpenAPI operations. Only the
// request body's first-level properties map into the flat field model this
// library validates; nested objects and arrays are skipped, since the session
// has no composite field semantics.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formflow/pkg/schema"
)

var errOperationNotFound = errors.New("openapi: operation not found")

// FormFromData loads an OpenAPI document from raw JSON/YAML bytes and derives
// the form for operationID.
func FormFromData(ctx context.Context, data []byte, operationID string) (schema.Form, error) {
	if len(data) == 0 {
		return schema.Form{}, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return schema.Form{}, fmt.Errorf("openapi: load document: %w", err)
	}
	return FormFromSpec(spec, operationID)
}

// FormFromSpec derives the form for operationID from a parsed document.
func FormFromSpec(spec *openapi3.T, operationID string) (schema.Form, error) {
	if spec == nil {
		return schema.Form{}, errors.New("openapi: spec is nil")
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return schema.Form{}, fmt.Errorf("%w: %q", errOperationNotFound, operationID)
	}

	body := requestSchema(operation.RequestBody)
	if body == nil {
		return schema.Form{}, fmt.Errorf("openapi: operation %q has no usable request body", operationID)
	}

	form := schema.Form{
		ID:          operationID,
		Title:       operation.Summary,
		Description: operation.Description,
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[name]
		field, ok := fieldFromProperty(name, ref.Value, isRequired)
		if !ok {
			continue
		}
		form.Fields = append(form.Fields, field)
	}

	if err := form.Validate(); err != nil {
		return schema.Form{}, err
	}
	return form, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Patch,
		} {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func fieldFromProperty(name string, prop *openapi3.Schema, required bool) (schema.Field, bool) {
	field := schema.Field{
		Name:        name,
		Required:    required,
		Label:       prop.Title,
		Description: prop.Description,
	}
	if required {
		field.Rules = append(field.Rules, schema.Rule{Kind: schema.RuleRequired})
	}

	switch firstType(prop.Type) {
	case "string":
		applyStringProperty(&field, prop)
	case "integer", "number":
		field.Kind = schema.KindNumber
		applyNumericBounds(&field, prop)
	case "boolean":
		field.Kind = schema.KindCheckbox
	default:
		return schema.Field{}, false
	}

	return field, true
}

func applyStringProperty(field *schema.Field, prop *openapi3.Schema) {
	if len(prop.Enum) > 0 {
		field.Kind = schema.KindSelect
		for _, option := range prop.Enum {
			field.Options = append(field.Options, fmt.Sprint(option))
		}
		return
	}

	switch strings.ToLower(prop.Format) {
	case "email":
		field.Kind = schema.KindEmail
		field.Rules = append(field.Rules, schema.Rule{Kind: schema.RuleEmail})
	case "password":
		field.Kind = schema.KindPassword
	case "tel", "phone":
		field.Kind = schema.KindTel
		field.Rules = append(field.Rules, schema.Rule{Kind: schema.RulePhone})
	default:
		field.Kind = schema.KindText
	}

	if prop.MinLength != 0 {
		field.Rules = append(field.Rules, schema.Rule{
			Kind:   schema.RuleMinLength,
			Params: map[string]string{"value": strconv.FormatUint(prop.MinLength, 10)},
		})
	}
	if prop.MaxLength != nil {
		field.Rules = append(field.Rules, schema.Rule{
			Kind:   schema.RuleMaxLength,
			Params: map[string]string{"value": strconv.FormatUint(*prop.MaxLength, 10)},
		})
	}
	if prop.Pattern != "" {
		field.Rules = append(field.Rules, schema.Rule{
			Kind:   schema.RulePattern,
			Params: map[string]string{"pattern": prop.Pattern},
		})
	}
}

func applyNumericBounds(field *schema.Field, prop *openapi3.Schema) {
	if prop.Min != nil {
		field.Rules = append(field.Rules, schema.Rule{
			Kind:   schema.RuleMin,
			Params: map[string]string{"value": strconv.FormatFloat(*prop.Min, 'f', -1, 64)},
		})
	}
	if prop.Max != nil {
		field.Rules = append(field.Rules, schema.Rule{
			Kind:   schema.RuleMax,
			Params: map[string]string{"value": strconv.FormatFloat(*prop.Max, 'f', -1, 64)},
		})
	}
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
