package xblock

import "time"

// Attribute names, as serialized.
const (
	AttrID                 = "id"
	AttrDisplayName        = "display_name"
	AttrCategory           = "category"
	AttrHasChanges         = "has_changes"
	AttrPublished          = "published"
	AttrEditedOn           = "edited_on"
	AttrEditedBy           = "edited_by"
	AttrPublishedOn        = "published_on"
	AttrPublishedBy        = "published_by"
	AttrReleasedToStudents = "released_to_students"
	AttrReleaseDate        = "release_date"
	AttrReleaseDateFrom    = "release_date_from"
	AttrVisibleToStaffOnly = "visible_to_staff_only"
)

// Attr returns the value of the named attribute. Pointer attributes are dereferenced; unset ones are nil.
func (info Info) Attr(name string) (interface{}, bool) {
	switch name {
	case AttrID:
		return info.ID, true
	case AttrDisplayName:
		return info.DisplayName, true
	case AttrCategory:
		return info.Category, true
	case AttrHasChanges:
		return info.HasChanges, true
	case AttrPublished:
		return info.Published, true
	case AttrEditedOn:
		return derefTime(info.EditedOn), true
	case AttrEditedBy:
		return derefString(info.EditedBy), true
	case AttrPublishedOn:
		return derefTime(info.PublishedOn), true
	case AttrPublishedBy:
		return derefString(info.PublishedBy), true
	case AttrReleasedToStudents:
		return info.ReleasedToStudents, true
	case AttrReleaseDate:
		return derefTime(info.ReleaseDate), true
	case AttrReleaseDateFrom:
		return derefString(info.ReleaseDateFrom), true
	case AttrVisibleToStaffOnly:
		return info.VisibleToStaffOnly, true
	}
	return nil, false
}

// ChangedAttributes returns the watched attributes whose value differs between prev and curr, in watched order.
// Unknown attribute names never count as changed.
func ChangedAttributes(prev, curr Info, watched []string) []string {
	var changed []string
	for _, name := range watched {
		a, ok := prev.Attr(name)
		if !ok {
			continue
		}
		b, _ := curr.Attr(name)
		if !equalValues(a, b) {
			changed = append(changed, name)
		}
	}
	return changed
}

func equalValues(a, b interface{}) bool {
	ta, aIsTime := a.(time.Time)
	tb, bIsTime := b.(time.Time)
	if aIsTime && bIsTime {
		return ta.Equal(tb)
	}
	return a == b
}

func derefTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func derefString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
