package schema

import "strings"

// InferRules reproduces the legacy name-driven rule derivation: the rule set
// is chosen from the field's kind, required flag, and exact name matches
// against the identifiers the original forms used. Prefer declaring rules
// explicitly on the Field; this helper exists for callers migrating form
// definitions that still rely on the naming contract.
func InferRules(field Field) RuleSet {
	var rules RuleSet

	if field.Required {
		rules = append(rules, Rule{Kind: RuleRequired})
	}

	switch field.Kind {
	case KindEmail:
		rules = append(rules, Rule{Kind: RuleEmail})
	case KindTel:
		rules = append(rules, Rule{Kind: RulePhone})
	}

	switch field.Name {
	case "firstName", "lastName", "cardholderName":
		rules = append(rules,
			Rule{Kind: RuleNamePattern},
			Rule{Kind: RuleMinLength, Params: map[string]string{"value": "2"}},
			Rule{Kind: RuleMaxLength, Params: map[string]string{"value": "50"}},
		)
	case "message":
		rules = append(rules,
			Rule{Kind: RuleMinLength, Params: map[string]string{"value": "10"}},
			Rule{Kind: RuleMaxLength, Params: map[string]string{"value": "1000"}},
		)
	case "cardNumber":
		rules = append(rules, Rule{Kind: RuleCreditCard})
	case "expiryDate":
		rules = append(rules, Rule{Kind: RuleExpiryDate})
	case "cvv":
		rules = append(rules, Rule{Kind: RuleCVV})
	case "customAmount":
		rules = append(rules, Rule{Kind: RuleCurrency, Params: map[string]string{"min": "50", "max": "10000"}})
	case "clientEmail":
		if !rules.Has(RuleEmail) {
			rules = append(rules, Rule{Kind: RuleEmail})
		}
	}

	if strings.HasPrefix(field.Name, "billing") {
		if strings.HasSuffix(field.Name, "Zip") || strings.HasSuffix(field.Name, "ZipCode") {
			rules = append(rules, Rule{Kind: RuleZipCode})
		}
	}

	return rules
}

// Infer returns a copy of form where every field lacking declared rules gets
// the legacy inferred set. Fields that carry rules are left untouched.
func Infer(form Form) Form {
	out := form
	out.Fields = make([]Field, len(form.Fields))
	copy(out.Fields, form.Fields)
	for i, field := range out.Fields {
		if len(field.Rules) == 0 {
			out.Fields[i].Rules = InferRules(field)
		}
	}
	return out
}
