package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// WidgetID identifies a configured visualization widget.
	WidgetID ID
	// RenderID identifies one render attempt of a widget.
	RenderID ID
	// ColumnID identifies a column of a tabular result. Column identity is
	// carried by this value, never by position within a row.
	ColumnID ID
)

// NewRenderID issues an identifier for one render attempt.
func NewRenderID() RenderID {
	return RenderID(NewID())
}

func (id WidgetID) String() string { return ID(id).String() }
func (id RenderID) String() string { return ID(id).String() }
func (id ColumnID) String() string { return ID(id).String() }

// ParseWidgetID parses a string into WidgetID
func ParseWidgetID(s string) (WidgetID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("widget ID cannot be empty")
	}
	return WidgetID(s), nil
}

// ParseColumnID parses a string into ColumnID
func ParseColumnID(s string) (ColumnID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("column ID cannot be empty")
	}
	return ColumnID(s), nil
}
