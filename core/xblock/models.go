package xblock

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Publish directives
const (
	PublishMakePublic     = "make_public"
	PublishDiscardChanges = "discard_changes"
)

// Info is the publish and edit state of a content unit (XBlock), as the studio views see it.
type Info struct {
	ID                 string     `json:"id"`
	DisplayName        string     `json:"display_name"`
	Category           string     `json:"category"`
	HasChanges         bool       `json:"has_changes"`
	Published          bool       `json:"published"`
	EditedOn           *time.Time `json:"edited_on"`
	EditedBy           *string    `json:"edited_by"`
	PublishedOn        *time.Time `json:"published_on"`
	PublishedBy        *string    `json:"published_by"`
	ReleasedToStudents bool       `json:"released_to_students"`
	ReleaseDate        *time.Time `json:"release_date"`
	ReleaseDateFrom    *string    `json:"release_date_from"`
	VisibleToStaffOnly bool       `json:"visible_to_staff_only"`
}

// Metadata holds the metadata fields a partial update may change.
// Nil fields are left untouched. Fields named in Unset revert to their default;
// over the wire they are the keys sent as null.
type Metadata struct {
	DisplayName        *string
	VisibleToStaffOnly *bool
	Unset              []string
}

// metadataFields are the settable metadata keys, in wire order.
var metadataFields = []string{AttrDisplayName, AttrVisibleToStaffOnly}

// Unsets reports whether the named field reverts to its default.
func (m Metadata) Unsets(name string) bool {
	for _, n := range m.Unset {
		if n == name {
			return true
		}
	}
	return false
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	fields := make(map[string]interface{}, len(metadataFields))
	for _, name := range m.Unset {
		fields[name] = nil
	}
	if m.DisplayName != nil {
		fields[AttrDisplayName] = *m.DisplayName
	}
	if m.VisibleToStaffOnly != nil {
		fields[AttrVisibleToStaffOnly] = *m.VisibleToStaffOnly
	}
	return json.Marshal(fields)
}

// UnmarshalJSON keeps track of the keys sent as null. Unknown keys are ignored.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var decoded Metadata
	for _, name := range metadataFields {
		val, ok := raw[name]
		if !ok {
			continue
		}
		if string(bytes.TrimSpace(val)) == "null" {
			decoded.Unset = append(decoded.Unset, name)
			continue
		}
		var err error
		switch name {
		case AttrDisplayName:
			decoded.DisplayName = new(string)
			err = json.Unmarshal(val, decoded.DisplayName)
		case AttrVisibleToStaffOnly:
			decoded.VisibleToStaffOnly = new(bool)
			err = json.Unmarshal(val, decoded.VisibleToStaffOnly)
		}
		if err != nil {
			return errors.Wrapf(err, "metadata %s", name)
		}
	}
	*m = decoded
	return nil
}

// UpdateRequest is a partial update of an XBlock.
type UpdateRequest struct {
	Publish  string    `json:"publish,omitempty" validate:"omitempty,oneof=make_public discard_changes"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// CreateRequest contains information needed to create a new XBlock.
// With a DuplicateSourceLocator, the source block and its descendants are copied instead
// and Category is ignored.
type CreateRequest struct {
	ParentLocator          string     `json:"parent_locator"`
	Category               string     `json:"category" validate:"required,alphanum"`
	DisplayName            string     `json:"display_name"`
	Start                  *time.Time `json:"start"`
	DuplicateSourceLocator string     `json:"duplicate_source_locator,omitempty"`
}

// Fields are the versioned content settings of a block.
type Fields struct {
	DisplayName        string
	VisibleToStaffOnly bool
}

// Block is a stored XBlock: its draft and, once published, its live version.
type Block struct {
	Locator     string
	Category    string
	Parent      string
	Start       time.Time // zero: release date not set
	Draft       Fields
	Live        *Fields
	EditedOn    time.Time
	EditedBy    string
	PublishedOn time.Time
	PublishedBy string
}

func (b Block) HasChanges() bool {
	return b.Live == nil || *b.Live != b.Draft
}

// Info builds the block's Info as of now.
// releaseFrom is the block the release date is inherited from (b itself when its start is set); may be nil.
func (b Block) Info(now time.Time, releaseFrom *Block) Info {
	info := Info{
		ID:                 b.Locator,
		DisplayName:        b.Draft.DisplayName,
		Category:           b.Category,
		HasChanges:         b.HasChanges(),
		Published:          b.Live != nil,
		EditedOn:           timePtr(b.EditedOn),
		EditedBy:           strPtr(b.EditedBy),
		PublishedOn:        timePtr(b.PublishedOn),
		PublishedBy:        strPtr(b.PublishedBy),
		VisibleToStaffOnly: b.Draft.VisibleToStaffOnly,
	}
	if info.DisplayName == "" {
		info.DisplayName = b.Category
	}
	if releaseFrom != nil && !releaseFrom.Start.IsZero() {
		info.ReleasedToStudents = now.After(releaseFrom.Start)
		info.ReleaseDate = timePtr(releaseFrom.Start)
		from := fmt.Sprintf("%s %q", releaseFrom.Category, releaseFrom.Draft.DisplayName)
		info.ReleaseDateFrom = &from
	}
	return info
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
