// Package taxonomy holds the category tree and per-category attribute
// schemas for the marketplace, and validates listing attributes against
// them. The tables are static configuration: the post-listing flow renders
// its forms from them and the feed sends attribute filters keyed by them.
package taxonomy

import (
	"strconv"
	"strings"

	avida "github.com/kelvinofficial/avida-sub002"
)

// FieldKind is the data type of an attribute field.
type FieldKind string

const (
	// KindText is free-form text.
	KindText FieldKind = "text"
	// KindInt is a whole number.
	KindInt FieldKind = "int"
	// KindDecimal is a decimal number.
	KindDecimal FieldKind = "decimal"
	// KindBool is a yes/no toggle.
	KindBool FieldKind = "bool"
	// KindSelect is a single choice from Options.
	KindSelect FieldKind = "select"
)

// AttributeField describes one attribute in a category's schema.
type AttributeField struct {
	Key      string
	Label    string
	Kind     FieldKind
	Required bool
	Options  []string // KindSelect only
	Unit     string   // display unit, e.g. "m²", "km"
}

// Subcategory is a leaf of the category tree.
type Subcategory struct {
	ID   string
	Name string
}

// Category is a top-level marketplace category.
type Category struct {
	ID            string
	Name          string
	Subcategories []Subcategory
}

// Categories returns the top-level category tree in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// FindCategory looks up a category by id.
func FindCategory(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// HasSubcategory reports whether the category contains the subcategory.
func HasSubcategory(categoryID, subcategoryID string) bool {
	c, ok := FindCategory(categoryID)
	if !ok {
		return false
	}
	for _, s := range c.Subcategories {
		if s.ID == subcategoryID {
			return true
		}
	}
	return false
}

// SchemaFor returns the attribute schema for a category, with subcategory
// overrides applied when one exists. Returns false for an unknown category.
func SchemaFor(categoryID, subcategoryID string) ([]AttributeField, bool) {
	if subcategoryID != "" {
		if schema, ok := schemas[categoryID+"/"+subcategoryID]; ok {
			return schema, true
		}
	}
	schema, ok := schemas[categoryID]
	return schema, ok
}

// Validate checks listing attributes against the category's schema:
// required fields must be present, values must parse for their kind,
// select values must be in the allowed set, and unknown keys are rejected.
func Validate(categoryID, subcategoryID string, attrs map[string]string) error {
	schema, ok := SchemaFor(categoryID, subcategoryID)
	if !ok {
		return &avida.ValidationError{Field: "category", Reason: "unknown category " + strconv.Quote(categoryID)}
	}

	byKey := make(map[string]AttributeField, len(schema))
	for _, field := range schema {
		byKey[field.Key] = field
	}

	for key, value := range attrs {
		field, known := byKey[key]
		if !known {
			return &avida.ValidationError{Field: key, Reason: "not in category schema"}
		}
		if err := validateValue(field, value); err != nil {
			return err
		}
	}

	for _, field := range schema {
		if !field.Required {
			continue
		}
		if strings.TrimSpace(attrs[field.Key]) == "" {
			return &avida.ValidationError{Field: field.Key, Reason: "required"}
		}
	}

	return nil
}

func validateValue(field AttributeField, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		// Emptiness is handled by the required check.
		return nil
	}

	switch field.Kind {
	case KindInt:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return &avida.ValidationError{Field: field.Key, Reason: "must be a whole number"}
		}
	case KindDecimal:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return &avida.ValidationError{Field: field.Key, Reason: "must be a number"}
		}
	case KindBool:
		if _, err := strconv.ParseBool(value); err != nil {
			return &avida.ValidationError{Field: field.Key, Reason: "must be true or false"}
		}
	case KindSelect:
		for _, opt := range field.Options {
			if value == opt {
				return nil
			}
		}
		return &avida.ValidationError{Field: field.Key, Reason: "not an allowed option"}
	}

	return nil
}
