/**
 * Field Detector - heuristic classification of text regions into form fields
 *
 * Each merged region's lower-cased text is tested against an ordered ladder
 * of keyword rules; the first matching rule wins. The rule list is data, not
 * control flow, so the precedence contract stays visible and testable.
 */

package ocr

import (
	"strings"
)

// fieldRule pairs a field name with the keywords that indicate it. Rules are
// evaluated top-to-bottom; keyword sets are not mutually exclusive, so order
// IS the precedence ("account number" resolves before the bare "number"
// keyword is ever reached, but text containing both "email" and "account"
// resolves to email).
type fieldRule struct {
	name     string
	keywords []string
}

// fieldRules is the detection ladder. Do not reorder: precedence is part of
// the output contract.
var fieldRules = []fieldRule{
	{"name", []string{"name", "first name", "last name", "surname"}},
	{"email", []string{"email", "e-mail", "mail"}},
	{"phone", []string{"phone", "tel", "mobile", "cell"}},
	{"date", []string{"date", "dob", "birth"}},
	{"address", []string{"address", "street", "city", "state", "zip", "postal"}},
	{"account_number", []string{"account", "iban", "number"}},
}

// DetectFields classifies merged text regions into named form-field
// candidates. A region matching no rule produces no candidate; a matching
// region produces exactly one, carrying the region's bbox and confidence
// with an empty value (value extraction is a separate, unimplemented stage).
func DetectFields(regions []TextRegion) []Field {
	fields := make([]Field, 0)

	for _, region := range regions {
		text := strings.ToLower(strings.TrimSpace(region.Text))

		for _, rule := range fieldRules {
			if !matchesAny(text, rule.keywords) {
				continue
			}

			fields = append(fields, Field{
				Name:       rule.name,
				BBox:       region.BBox,
				FieldType:  FieldTypeText,
				Value:      "",
				Confidence: region.Confidence,
			})
			break
		}
	}

	return fields
}

// matchesAny reports whether text contains any of the keywords as a
// substring.
func matchesAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
