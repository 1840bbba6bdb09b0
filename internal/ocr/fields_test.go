package ocr

import (
	"testing"
)

func region(text string, conf float64) TextRegion {
	return TextRegion{
		Text:       text,
		BBox:       BoundingBox{X: 10, Y: 20, Width: 120, Height: 18},
		Confidence: conf,
		Engine:     EngineTesseract,
	}
}

func TestDetectFields(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected string // empty means no field
	}{
		{"bare name label", "Name", "name"},
		{"first name label", "First Name:", "name"},
		{"email label", "E-mail address", "email"},
		{"phone label", "Mobile", "phone"},
		{"date label", "Date of Birth", "date"},
		{"address label", "Street", "address"},
		{"account label", "IBAN", "account_number"},
		{"bare number falls to account ladder", "Number", "account_number"},
		{"case insensitive", "EMAIL", "email"},
		{"surrounding whitespace", "  phone  ", "phone"},
		{"no match", "Lorem ipsum", ""},
		{"empty text", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fields := DetectFields([]TextRegion{region(tc.text, 0.8)})

			if tc.expected == "" {
				if len(fields) != 0 {
					t.Fatalf("expected no field for %q, got %+v", tc.text, fields)
				}
				return
			}

			if len(fields) != 1 {
				t.Fatalf("expected 1 field for %q, got %d", tc.text, len(fields))
			}

			if fields[0].Name != tc.expected {
				t.Errorf("expected field %q, got %q", tc.expected, fields[0].Name)
			}
		})
	}
}

func TestDetectFieldsPrecedence(t *testing.T) {
	// "account email number" matches both the email and account_number
	// rules; the ladder resolves it to email because email sits higher.
	fields := DetectFields([]TextRegion{region("account email number", 0.9)})

	if len(fields) != 1 {
		t.Fatalf("expected exactly 1 field, got %d", len(fields))
	}

	if fields[0].Name != "email" {
		t.Errorf("ladder precedence broken: expected email, got %q", fields[0].Name)
	}
}

func TestDetectFieldsCopiesRegionAttributes(t *testing.T) {
	src := region("Name", 0.77)
	fields := DetectFields([]TextRegion{src})

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	field := fields[0]
	if field.BBox != src.BBox {
		t.Errorf("field bbox %+v does not match region bbox %+v", field.BBox, src.BBox)
	}
	if field.Confidence != src.Confidence {
		t.Errorf("field confidence %v does not match region confidence %v", field.Confidence, src.Confidence)
	}
	if field.FieldType != FieldTypeText {
		t.Errorf("expected field type %q, got %q", FieldTypeText, field.FieldType)
	}
	if field.Value != "" {
		t.Errorf("value extraction is not implemented, expected empty value, got %q", field.Value)
	}
}

func TestDetectFieldsMultipleRegions(t *testing.T) {
	regions := []TextRegion{
		region("Name", 0.9),
		region("some prose with no labels", 0.5),
		region("Phone", 0.8),
	}

	fields := DetectFields(regions)

	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Name != "name" || fields[1].Name != "phone" {
		t.Errorf("fields out of order: %+v", fields)
	}
}

func TestDetectFieldsEmptyInput(t *testing.T) {
	fields := DetectFields(nil)

	if fields == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(fields) != 0 {
		t.Errorf("expected no fields, got %d", len(fields))
	}
}
