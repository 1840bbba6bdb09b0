package templates

import (
	"context"
	"errors"
	"testing"

	"github.com/rashidrupani/PDF-to-PDF-Form/internal/ocr"
)

func TestStoreCRUD(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, err := store.Create(ctx, &Template{
		Name: "invoice",
		Fields: []TemplateField{
			{Name: "date", FieldType: ocr.FieldTypeText, BBox: ocr.BoundingBox{X: 10, Y: 10, Width: 80, Height: 15}},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("template must be assigned an ID")
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "invoice" || len(got.Fields) != 1 {
		t.Errorf("unexpected template: %+v", got)
	}

	updated, err := store.Update(ctx, created.ID, &Template{
		Name: "invoice-v2",
		Fields: []TemplateField{
			{Name: "date"},
			{Name: "account_number"},
		},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "invoice-v2" || len(updated.Fields) != 2 {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Get(ctx, created.ID); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound after delete, got %v", err)
	}
}

func TestStoreCreateRequiresName(t *testing.T) {
	store := NewStore()

	if _, err := store.Create(context.Background(), &Template{}); err == nil {
		t.Error("expected error for template without a name")
	}
}

func TestStoreList(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if _, err := store.Create(ctx, &Template{Name: name}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(list))
	}

	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.After(list[i-1].CreatedAt) {
			t.Error("templates not ordered newest first")
		}
	}
}

func TestLearnFromResult(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	result := ocr.ExtractionResult{
		Fields: []ocr.Field{
			{Name: "name", FieldType: ocr.FieldTypeText, BBox: ocr.BoundingBox{X: 10, Y: 10, Width: 100, Height: 20}, Confidence: 0.9},
			{Name: "email", FieldType: ocr.FieldTypeText, BBox: ocr.BoundingBox{X: 10, Y: 50, Width: 100, Height: 20}, Confidence: 0.7},
		},
	}

	tpl, err := store.LearnFromResult(ctx, "intake-form", result)
	if err != nil {
		t.Fatalf("LearnFromResult failed: %v", err)
	}

	if len(tpl.Fields) != 2 {
		t.Fatalf("expected 2 learned fields, got %d", len(tpl.Fields))
	}

	first := tpl.Fields[0]
	if first.Name != "name" || first.BBox != result.Fields[0].BBox {
		t.Errorf("field position not learned: %+v", first)
	}
	if first.MinConfidence != 0.9 {
		t.Errorf("detected confidence must become the threshold, got %v", first.MinConfidence)
	}

	// The template is persisted, not just returned.
	if _, err := store.Get(ctx, tpl.ID); err != nil {
		t.Errorf("learned template not stored: %v", err)
	}
}

func TestLearnFromResultRequiresFields(t *testing.T) {
	store := NewStore()

	if _, err := store.LearnFromResult(context.Background(), "empty", ocr.ExtractionResult{}); err == nil {
		t.Error("expected error for result without fields")
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, err := store.Create(ctx, &Template{
		Name:   "original",
		Fields: []TemplateField{{Name: "date"}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Mutating the returned value must not leak into the store.
	created.Name = "mutated"
	created.Fields[0].Name = "mutated"

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "original" || got.Fields[0].Name != "date" {
		t.Errorf("store state leaked through returned copy: %+v", got)
	}
}
