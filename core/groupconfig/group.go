package groupconfig

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studio/core"
)

var errGroupNameRequired = errors.New("Group name is required")

// Group is a single partition of a Configuration.
// Order is client-local: it is never sent over the wire.
type Group struct {
	ID      *int   `json:"id"`
	Name    string `json:"name" validate:"notblank"`
	Version *int   `json:"version"`
	Order   *int   `json:"-"`
}

// GroupWire is the server representation of a Group.
type GroupWire struct {
	ID      *int   `json:"id"`
	Name    string `json:"name"`
	Version *int   `json:"version"`
}

// NewGroup returns a Group with default attributes and the given name.
func NewGroup(name string) Group {
	return Group{Name: name}
}

// IsEmpty reports whether the group has no name.
func (g Group) IsEmpty() bool {
	return g.Name == ""
}

// ToJSON returns the wire representation of the group.
func (g Group) ToJSON() GroupWire {
	return GroupWire{ID: copyInt(g.ID), Name: g.Name, Version: copyInt(g.Version)}
}

func (g Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.ToJSON())
}

// Validate fails when the trimmed name is empty.
func (g Group) Validate(validate *validator.Validate) error {
	if err := validate.Struct(g); err != nil {
		var vErrs validator.ValidationErrors
		if !errors.As(err, &vErrs) {
			return err
		}
		return core.NewValidationError(
			errGroupNameRequired,
			core.FieldError{Field: "name", Error: errGroupNameRequired.Error()},
		)
	}
	return nil
}

func (g Group) clone() Group {
	return Group{
		ID:      copyInt(g.ID),
		Name:    g.Name,
		Version: copyInt(g.Version),
		Order:   copyInt(g.Order),
	}
}

func copyInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func intPtr(i int) *int { return &i }
