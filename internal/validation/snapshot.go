package validation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todo-manager/internal/domain"
)

//go:embed schema/snapshot.schema.json
var snapshotSchemaJSON []byte

const snapshotSchemaURL = "snapshot.schema.json"

var (
	snapshotSchemaOnce sync.Once
	snapshotSchema     *jsonschema.Schema
	snapshotSchemaErr  error
)

func compiledSnapshotSchema() (*jsonschema.Schema, error) {
	snapshotSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(snapshotSchemaURL, bytes.NewReader(snapshotSchemaJSON)); err != nil {
			snapshotSchemaErr = fmt.Errorf("load snapshot schema: %w", err)
			return
		}
		snapshotSchema, snapshotSchemaErr = compiler.Compile(snapshotSchemaURL)
	})
	return snapshotSchema, snapshotSchemaErr
}

// SnapshotValidator checks import payloads: a JSON array of task records.
type SnapshotValidator struct {
	tasks *TaskValidator
}

// NewSnapshotValidator creates a snapshot validator.
func NewSnapshotValidator() *SnapshotValidator {
	return &SnapshotValidator{tasks: NewTaskValidator()}
}

// Parse validates data and decodes it into tasks. Blank optional fields get
// their defaults and a missing createdAt becomes now. Any failure is returned
// as a *ValidationError and no tasks are returned.
func (sv *SnapshotValidator) Parse(data []byte, now time.Time) ([]domain.Task, error) {
	schema, err := compiledSnapshotSchema()
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		ve := NewValidationError()
		ve.AddSchemaError("", fmt.Sprintf("not valid JSON: %v", err))
		return nil, ve
	}

	if err := schema.Validate(doc); err != nil {
		ve := NewValidationError()
		appendSchemaErrors(ve, err)
		return nil, ve
	}

	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		ve := NewValidationError()
		ve.AddSchemaError("", err.Error())
		return nil, ve
	}

	ve := NewValidationError()
	seen := make(map[string]int, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		t.ApplyDefaults(now)
		t.CreatedAt = domain.NormalizeTime(t.CreatedAt)
		if t.CompletedAt != nil {
			ts := domain.NormalizeTime(*t.CompletedAt)
			t.CompletedAt = &ts
		}
		if err := sv.tasks.ValidateTask(*t); err != nil {
			ve.Merge(err)
		}
		if _, dup := seen[t.ID]; dup {
			ve.AddDuplicateError(fmt.Sprintf("[%d].id", i), t.ID)
		}
		seen[t.ID] = i
	}
	if ve.HasErrors() {
		return nil, ve
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// ParseSnapshot validates and decodes an import payload with a default validator.
func ParseSnapshot(data []byte, now time.Time) ([]domain.Task, error) {
	return NewSnapshotValidator().Parse(data, now)
}

func appendSchemaErrors(ve *ValidationError, err error) {
	se, ok := err.(*jsonschema.ValidationError)
	if !ok {
		ve.AddSchemaError("", err.Error())
		return
	}
	collectSchemaErrors(ve, se)
}

func collectSchemaErrors(ve *ValidationError, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		ve.AddSchemaError(jsonPointerToPath(err.InstanceLocation), err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(ve, cause)
	}
}

// jsonPointerToPath renders "/3/priority" as "[3].priority".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		if part != "" && strings.Trim(part, "0123456789") == "" {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
