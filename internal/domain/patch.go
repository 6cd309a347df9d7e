package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Nullable is a patch slot that separates "leave unchanged" (Set=false) from
// "set to a value" and "clear" (Set=true with a nil Value).
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Some returns a slot that sets v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a slot that clears the field.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// Patch is a partial task update. Unset fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	Priority    *Priority
	Group       *string
	Status      *Status
	DueDate     Nullable[Date]
	CompletedAt Nullable[time.Time]
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.Group == nil &&
		p.Status == nil && !p.DueDate.Set && !p.CompletedAt.Set
}

// Normalize trims the text fields and replaces a blank group with
// DefaultGroup, the same way ApplyDefaults treats a new task.
func (p Patch) Normalize() Patch {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		p.Title = &title
	}
	if p.Description != nil {
		description := strings.TrimSpace(*p.Description)
		p.Description = &description
	}
	if p.Group != nil {
		group := strings.TrimSpace(*p.Group)
		if group == "" {
			group = DefaultGroup
		}
		p.Group = &group
	}
	return p
}

// Apply merges the normalized patch into a copy of t.
func (p Patch) Apply(t Task) Task {
	p = p.Normalize()
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Group != nil {
		out.Group = *p.Group
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.DueDate.Set {
		out.DueDate = nil
		if p.DueDate.Value != nil && !p.DueDate.Value.IsZero() {
			d := *p.DueDate.Value
			out.DueDate = &d
		}
	}
	if p.CompletedAt.Set {
		out.CompletedAt = nil
		if p.CompletedAt.Value != nil {
			ts := *p.CompletedAt.Value
			out.CompletedAt = &ts
		}
	}
	return out
}

// MarshalJSON emits only the fields the patch sets; cleared fields become null.
func (p Patch) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{})
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.Priority != nil {
		m["priority"] = *p.Priority
	}
	if p.Group != nil {
		m["group"] = *p.Group
	}
	if p.Status != nil {
		m["status"] = *p.Status
	}
	if p.DueDate.Set {
		if p.DueDate.Value == nil || p.DueDate.Value.IsZero() {
			m["dueDate"] = nil
		} else {
			m["dueDate"] = p.DueDate.Value.String()
		}
	}
	if p.CompletedAt.Set {
		if p.CompletedAt.Value == nil {
			m["completedAt"] = nil
		} else {
			m["completedAt"] = p.CompletedAt.Value.UTC().Format(time.RFC3339Nano)
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads a partial task body. A null title, description,
// priority, group or status leaves the field unchanged; a null or empty
// dueDate and a null completedAt clear the field. Unknown keys are ignored.
func (p *Patch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("patch must be a JSON object: %w", err)
	}
	*p = Patch{}

	var err error
	if p.Title, err = optionalString(raw, "title"); err != nil {
		return err
	}
	if p.Description, err = optionalString(raw, "description"); err != nil {
		return err
	}
	if p.Group, err = optionalString(raw, "group"); err != nil {
		return err
	}
	if s, err := optionalString(raw, "priority"); err != nil {
		return err
	} else if s != nil {
		pr := Priority(*s)
		p.Priority = &pr
	}
	if s, err := optionalString(raw, "status"); err != nil {
		return err
	} else if s != nil {
		st := Status(*s)
		p.Status = &st
	}

	if v, ok := raw["dueDate"]; ok {
		var d Date
		if err := d.UnmarshalJSON(v); err != nil {
			return fmt.Errorf("dueDate: %w", err)
		}
		if d.IsZero() {
			p.DueDate = Null[Date]()
		} else {
			p.DueDate = Some(d)
		}
	}

	if v, ok := raw["completedAt"]; ok {
		if isNull(v) {
			p.CompletedAt = Null[time.Time]()
		} else {
			var ts time.Time
			if err := json.Unmarshal(v, &ts); err != nil {
				return fmt.Errorf("completedAt: %w", err)
			}
			p.CompletedAt = Some(NormalizeTime(ts))
		}
	}
	return nil
}

func optionalString(raw map[string]json.RawMessage, key string) (*string, error) {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, fmt.Errorf("%s must be a string", key)
	}
	return &s, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
