/**
 * Form templates for the extraction worker
 *
 * A template records where named fields sit on a known form layout so
 * later documents of the same layout can be extracted without running
 * field detection from scratch. Templates can be authored directly or
 * learned from a completed extraction.
 */

package templates

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rashidrupani/PDF-to-PDF-Form/internal/ocr"
)

// TemplateField is one expected field on a form layout
type TemplateField struct {
	Name          string          `json:"name"`
	FieldType     ocr.FieldType   `json:"field_type"`
	BBox          ocr.BoundingBox `json:"bbox"`
	MinConfidence float64         `json:"min_confidence"`
}

// Template describes one known form layout
type Template struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Fields      []TemplateField `json:"fields"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ErrTemplateNotFound is returned when a template ID has no record
var ErrTemplateNotFound = fmt.Errorf("template not found")

// Store holds templates in memory, keyed by ID
type Store struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewStore creates an empty template store
func NewStore() *Store {
	return &Store{
		templates: make(map[string]*Template),
	}
}

// Create stores a new template and assigns it an ID
func (s *Store) Create(_ context.Context, tpl *Template) (*Template, error) {
	if tpl.Name == "" {
		return nil, fmt.Errorf("template name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	stored := *tpl
	stored.ID = uuid.NewString()
	stored.Fields = append([]TemplateField(nil), tpl.Fields...)
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.templates[stored.ID] = &stored

	copied := stored
	return &copied, nil
}

// Get returns a copy of the template or ErrTemplateNotFound
func (s *Store) Get(_ context.Context, id string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tpl, exists := s.templates[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}

	copied := *tpl
	copied.Fields = append([]TemplateField(nil), tpl.Fields...)
	return &copied, nil
}

// List returns all templates ordered by creation time, newest first
func (s *Store) List(_ context.Context) ([]*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Template, 0, len(s.templates))
	for _, tpl := range s.templates {
		copied := *tpl
		copied.Fields = append([]TemplateField(nil), tpl.Fields...)
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// Update replaces the name, description, and fields of a template
func (s *Store) Update(_ context.Context, id string, tpl *Template) (*Template, error) {
	if tpl.Name == "" {
		return nil, fmt.Errorf("template name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.templates[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}

	existing.Name = tpl.Name
	existing.Description = tpl.Description
	existing.Fields = append([]TemplateField(nil), tpl.Fields...)
	existing.UpdatedAt = time.Now()

	copied := *existing
	copied.Fields = append([]TemplateField(nil), existing.Fields...)
	return &copied, nil
}

// Delete removes a template
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.templates[id]; !exists {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}

	delete(s.templates, id)
	return nil
}

// LearnFromResult builds a template from the fields of a completed
// extraction. Each detected field's confidence becomes the minimum
// confidence the template expects at that position.
func (s *Store) LearnFromResult(ctx context.Context, name string, result ocr.ExtractionResult) (*Template, error) {
	if name == "" {
		return nil, fmt.Errorf("template name is required")
	}

	if len(result.Fields) == 0 {
		return nil, fmt.Errorf("extraction result has no detected fields to learn from")
	}

	fields := make([]TemplateField, 0, len(result.Fields))
	for _, f := range result.Fields {
		fields = append(fields, TemplateField{
			Name:          f.Name,
			FieldType:     f.FieldType,
			BBox:          f.BBox,
			MinConfidence: f.Confidence,
		})
	}

	return s.Create(ctx, &Template{
		Name:   name,
		Fields: fields,
	})
}
