package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/nibzard/todolist-go/tasks.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the bundled slot schema.
func Schema() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

func slotSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add slot schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid  bool
	Errors []error
}

// ValidateDocument checks raw slot bytes against the slot schema.
func ValidateDocument(data []byte) *ValidationResult {
	result := &ValidationResult{
		Valid:  true,
		Errors: make([]error, 0),
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("parse slot: %w", err)})
		return result
	}

	schema, err := slotSchema()
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err)
		return result
	}

	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
	return result
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath turns "/0/priority" into "[0].priority".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

// HydrateResult is the outcome of reading a slot.
type HydrateResult struct {
	Tasks []Task
	// Recovered is set when slot bytes existed but were not a JSON array,
	// so the whole slot was discarded.
	Recovered bool
	// Reason describes why the slot was discarded.
	Reason string
	// Issues lists problems found in individual records, as "[i].field: msg".
	Issues []string
	// Repaired and Dropped count the records behind Issues.
	Repaired int
	Dropped  int
}

// Damaged reports whether any stored data was discarded or changed.
func (r HydrateResult) Damaged() bool {
	return r.Recovered || len(r.Issues) > 0
}

// Summary describes the damage in one line, or "" if there was none.
func (r HydrateResult) Summary() string {
	switch {
	case r.Recovered:
		return "unreadable slot reset to empty: " + r.Reason
	case len(r.Issues) > 0:
		return fmt.Sprintf("%d record(s) repaired, %d dropped: %s",
			r.Repaired, r.Dropped, strings.Join(r.Issues, "; "))
	default:
		return ""
	}
}

// Fields that can be cleared and refilled with a default when invalid.
// A record whose title or description is invalid is dropped.
var repairableFields = map[string]bool{
	"id":       true,
	"dueDate":  true,
	"priority": true,
	"category": true,
}

// Hydrate decodes the active list from slot bytes. An absent or empty slot
// yields an empty list, and so does one that is not a JSON array. Records
// that fail the slot schema or task validation are repaired when the bad
// field has a default, and dropped otherwise; the remaining records load.
func Hydrate(data []byte, present bool) HydrateResult {
	data = bytes.TrimSpace(data)
	if !present || len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return HydrateResult{Tasks: []Task{}}
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return HydrateResult{
			Tasks:     []Task{},
			Recovered: true,
			Reason:    fmt.Sprintf("parse slot: %v", err),
		}
	}

	byRecord := make(map[int][]*ValidationError)
	for _, err := range ValidateDocument(data).Errors {
		ve, ok := err.(*ValidationError)
		if !ok {
			continue
		}
		if i, _, ok := splitRecordPath(ve.Path); ok {
			byRecord[i] = append(byRecord[i], ve)
		}
	}

	result := HydrateResult{Tasks: make([]Task, 0, len(records))}
	seen := make(map[string]bool, len(records))
	for i, raw := range records {
		task, issues, ok := hydrateRecord(i, raw, byRecord[i])
		result.Issues = append(result.Issues, issues...)
		if !ok {
			result.Dropped++
			continue
		}
		if len(issues) > 0 {
			result.Repaired++
		}
		if task.ID == "" || seen[task.ID] {
			task.ID = NewID()
		}
		seen[task.ID] = true
		result.Tasks = append(result.Tasks, task)
	}
	return result
}

// hydrateRecord decodes record i. Schema errors are passed in; task
// validation runs afterwards so hydrated tasks can be resubmitted unchanged.
func hydrateRecord(i int, raw json.RawMessage, schemaErrs []*ValidationError) (Task, []string, bool) {
	var issues []string
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Task{}, []string{fmt.Sprintf("[%d]: not an object, dropped", i)}, false
	}

	for _, ve := range schemaErrs {
		issues = append(issues, ve.Error())
		_, field, _ := splitRecordPath(ve.Path)
		if !repairableFields[field] {
			return Task{}, append(issues, fmt.Sprintf("[%d]: dropped", i)), false
		}
		delete(fields, field)
	}

	cleaned, err := json.Marshal(fields)
	if err != nil {
		return Task{}, append(issues, fmt.Sprintf("[%d]: %v, dropped", i, err)), false
	}
	var task Task
	if err := json.Unmarshal(cleaned, &task); err != nil {
		return Task{}, append(issues, fmt.Sprintf("[%d]: %v, dropped", i, err)), false
	}
	if task.Priority == "" {
		task.Priority = DefaultPriority
	}
	if task.Category == "" {
		task.Category = DefaultCategory
	}

	for _, fe := range task.FieldErrors() {
		issues = append(issues, fmt.Sprintf("[%d].%s", i, fe.Error()))
		switch fe.Path {
		case "dueDate":
			task.DueDate = ""
		case "priority":
			task.Priority = DefaultPriority
		case "category":
			task.Category = DefaultCategory
		default:
			return Task{}, append(issues, fmt.Sprintf("[%d]: dropped", i)), false
		}
	}
	return task, issues, true
}

// splitRecordPath splits "[3].dueDate" into 3 and "dueDate".
// The field is "" when the path names the record itself.
func splitRecordPath(path string) (int, string, bool) {
	if !strings.HasPrefix(path, "[") {
		return 0, "", false
	}
	end := strings.IndexByte(path, ']')
	if end < 0 {
		return 0, "", false
	}
	i, err := strconv.Atoi(path[1:end])
	if err != nil {
		return 0, "", false
	}
	field := strings.TrimPrefix(path[end+1:], ".")
	if cut := strings.IndexAny(field, ".["); cut >= 0 {
		field = field[:cut]
	}
	return i, field, true
}

// Encode serializes tasks as a slot document with 2-space indentation.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')
	return data, nil
}
