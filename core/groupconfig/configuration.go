package groupconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/studio/core"
)

var (
	errNameRequired    = errors.New("Group Configuration name is required")
	errGroupsRequired  = errors.New("There must be at least one group.")
	errAllGroupsNamed  = errors.New("All groups must have a name.")
	errNoOriginalState = errors.New("no original attributes to reset to")
)

// Configuration is a named set of Groups used to partition a course's content experiments.
// It owns its Groups and remembers the state it was loaded with, so edits can be
// detected (IsDirty) and discarded (Reset).
type Configuration struct {
	ID          *int    `json:"id"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Groups      []Group `json:"groups" validate:"min=1"`
	ShowGroups  bool    `json:"-"` // display only

	original []byte
}

// Wire is the server representation of a Configuration.
type Wire struct {
	ID             *int    `json:"id"`
	TabTitle       string  `json:"tab_title"`
	TabDescription string  `json:"tab_description"`
	Groups         []Group `json:"groups"`
}

// response accepts both the wire keys and the internal ones.
type response struct {
	ID             *int            `json:"id"`
	Name           *string         `json:"name"`
	Description    *string         `json:"description"`
	TabTitle       *string         `json:"tab_title"`
	TabDescription *string         `json:"tab_description"`
	Groups         []groupResponse `json:"groups"`
}

type groupResponse struct {
	ID      *int   `json:"id"`
	Name    string `json:"name"`
	Version *int   `json:"version"`
	Order   *int   `json:"order"`
}

// NewConfiguration returns a Configuration with the given attributes, its original state already recorded.
func NewConfiguration(name, description string, groups ...Group) *Configuration {
	cfg := &Configuration{
		Name:        name,
		Description: description,
		Groups:      make([]Group, 0, len(groups)),
	}
	for _, g := range groups {
		cfg.Groups = append(cfg.Groups, g.clone())
	}
	cfg.assignOrder()
	cfg.SetOriginalAttributes()
	return cfg
}

// Parse decodes a server response into a new Configuration and records it as the original state.
func Parse(data []byte) (*Configuration, error) {
	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	cfg := resp.parse()
	cfg.SetOriginalAttributes()
	return cfg, nil
}

// FromWire builds a new Configuration from its wire representation and records it as the original state.
func FromWire(w Wire) *Configuration {
	cfg := parseWire(w)
	cfg.SetOriginalAttributes()
	return cfg
}

func (resp response) parse() *Configuration {
	cfg := &Configuration{ID: copyInt(resp.ID), Groups: make([]Group, 0, len(resp.Groups))}
	switch {
	case resp.Name != nil:
		cfg.Name = *resp.Name
	case resp.TabTitle != nil:
		cfg.Name = *resp.TabTitle
	}
	switch {
	case resp.Description != nil:
		cfg.Description = *resp.Description
	case resp.TabDescription != nil:
		cfg.Description = *resp.TabDescription
	}
	for _, g := range resp.Groups {
		cfg.Groups = append(cfg.Groups, Group{
			ID:      copyInt(g.ID),
			Name:    g.Name,
			Version: copyInt(g.Version),
			Order:   copyInt(g.Order),
		})
	}
	cfg.assignOrder()
	return cfg
}

func parseWire(w Wire) *Configuration {
	cfg := &Configuration{
		ID:          copyInt(w.ID),
		Name:        w.TabTitle,
		Description: w.TabDescription,
		Groups:      make([]Group, 0, len(w.Groups)),
	}
	for _, g := range w.Groups {
		cfg.Groups = append(cfg.Groups, g.clone())
	}
	cfg.assignOrder()
	return cfg
}

// assignOrder gives a 1-based position to every group lacking one.
func (c *Configuration) assignOrder() {
	for i := range c.Groups {
		if c.Groups[i].Order == nil {
			c.Groups[i].Order = intPtr(i + 1)
		}
	}
}

// ToJSON returns the wire representation of the configuration.
func (c *Configuration) ToJSON() Wire {
	w := Wire{
		ID:             copyInt(c.ID),
		TabTitle:       c.Name,
		TabDescription: c.Description,
		Groups:         make([]Group, 0, len(c.Groups)),
	}
	for _, g := range c.Groups {
		w.Groups = append(w.Groups, g.clone())
	}
	return w
}

func (c Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToJSON())
}

func (c *Configuration) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

// SetOriginalAttributes records the current state as the baseline for IsDirty and Reset.
func (c *Configuration) SetOriginalAttributes() {
	c.original = c.serialize()
}

// Reset restores the attributes recorded by the last SetOriginalAttributes.
// ShowGroups is left untouched.
func (c *Configuration) Reset() error {
	if c.original == nil {
		return errNoOriginalState
	}
	var w Wire
	if err := json.Unmarshal(c.original, &w); err != nil {
		return err
	}
	restored := parseWire(w)
	c.ID = restored.ID
	c.Name = restored.Name
	c.Description = restored.Description
	c.Groups = restored.Groups
	return nil
}

// IsDirty reports whether the configuration differs from its original state.
func (c *Configuration) IsDirty() bool {
	return !bytes.Equal(c.original, c.serialize())
}

// Changes returns a unified diff between the original and the current state; empty when clean.
func (c *Configuration) Changes() (string, error) {
	if !c.IsDirty() {
		return "", nil
	}
	var orig, curr bytes.Buffer
	if len(c.original) > 0 {
		if err := json.Indent(&orig, c.original, "", "  "); err != nil {
			return "", err
		}
	}
	if err := json.Indent(&curr, c.serialize(), "", "  "); err != nil {
		return "", err
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(orig.String()),
		B:        difflib.SplitLines(curr.String()),
		FromFile: "original",
		ToFile:   "current",
		Context:  3,
	})
}

// serialize renders the parsed wire form, so that client-local state (order, ShowGroups) never counts as a change.
func (c *Configuration) serialize() []byte {
	data, _ := json.Marshal(parseWire(c.ToJSON()).ToJSON())
	return data
}

// IsEmpty reports whether the configuration has neither a name nor groups.
func (c *Configuration) IsEmpty() bool {
	return c.Name == "" && len(c.Groups) == 0
}

// AddGroup appends a group with the given name at the next position.
func (c *Configuration) AddGroup(name string) {
	g := NewGroup(name)
	g.Order = intPtr(len(c.Groups) + 1)
	c.Groups = append(c.Groups, g)
}

// Clone returns a deep copy, original state included.
func (c *Configuration) Clone() *Configuration {
	clone := &Configuration{
		ID:          copyInt(c.ID),
		Name:        c.Name,
		Description: c.Description,
		Groups:      make([]Group, 0, len(c.Groups)),
		ShowGroups:  c.ShowGroups,
	}
	for _, g := range c.Groups {
		clone.Groups = append(clone.Groups, g.clone())
	}
	if c.original != nil {
		clone.original = append([]byte(nil), c.original...)
	}
	return clone
}

// Clean trims the names and the description.
func (c *Configuration) Clean() {
	c.Name = core.CleanString(c.Name)
	c.Description = core.CleanString(c.Description)
	for i := range c.Groups {
		c.Groups[i].Name = core.CleanString(c.Groups[i].Name)
	}
}

// Validate checks, in order, that the configuration has a name, at least one group and only valid groups.
// Every invalid group is reported as a "groups[i]" field.
func (c *Configuration) Validate(validate *validator.Validate) error {
	if err := validate.Struct(c); err != nil {
		var vErrs validator.ValidationErrors
		if !errors.As(err, &vErrs) {
			return err
		}
		failed := make(map[string]bool, len(vErrs))
		for _, vErr := range vErrs {
			failed[vErr.Field()] = true
		}
		if failed["name"] {
			return core.NewValidationError(errNameRequired, core.FieldError{Field: "name", Error: errNameRequired.Error()})
		}
		if failed["groups"] {
			return core.NewValidationError(errGroupsRequired, core.FieldError{Field: "groups", Error: errGroupsRequired.Error()})
		}
	}

	var invalid []core.FieldError
	for i, g := range c.Groups {
		if err := g.Validate(validate); err != nil {
			if _, ok := core.AsValidationError(err); !ok {
				return err
			}
			invalid = append(invalid, core.FieldError{Field: fmt.Sprintf("groups[%d]", i), Error: err.Error()})
		}
	}
	if len(invalid) > 0 {
		return core.NewValidationError(errAllGroupsNamed, invalid...)
	}
	return nil
}
