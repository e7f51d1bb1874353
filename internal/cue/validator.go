package cue

import (
	"embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	yamlv3 "gopkg.in/yaml.v3"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Schema names, derived from the embedded file names.
const (
	SchemaPeriod     = "period"
	SchemaParameters = "parameters"
)

// ValidationError is a single schema violation.
type ValidationError struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// ValidationErrors lists every violation found in one document.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validator checks documents against the embedded CUE schemas.
// A cue.Context is not safe for concurrent use, so calls are serialised.
type Validator struct {
	mu      sync.Mutex
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// LoadSchemas compiles every embedded schema file.
func (v *Validator) LoadSchemas() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("could not read embedded schemas: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading schema %s: %w", entry.Name(), err)
		}

		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if err := inst.Err(); err != nil {
			return fmt.Errorf("compiling schema %s: %w", entry.Name(), err)
		}

		// period.cue -> period
		name := strings.TrimSuffix(entry.Name(), ".cue")
		v.schemas[name] = inst.Value()
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas loaded")
	}
	return nil
}

// MustLoad returns a Validator with all schemas compiled. The schemas are
// embedded, so a failure is a build defect.
func MustLoad() *Validator {
	v := NewValidator()
	if err := v.LoadSchemas(); err != nil {
		panic(err)
	}
	return v
}

var shared = sync.OnceValue(MustLoad)

// Shared returns a process-wide Validator.
func Shared() *Validator {
	return shared()
}

// ValidatePeriod validates a decoded period document. It returns nil or a
// ValidationErrors.
func (v *Validator) ValidatePeriod(data map[string]any) error {
	return v.validateAgainstSchema(SchemaPeriod, data)
}

// ValidateParameters validates a parameter document with the layout of
// scoring.Parameters.
func (v *Validator) ValidateParameters(data map[string]any) error {
	return v.validateAgainstSchema(SchemaParameters, data)
}

// ValidateValue converts any JSON-serialisable value to a document and
// validates it against the named schema.
func (v *Validator) ValidateValue(schemaName string, value any) error {
	doc, err := ToDocument(value)
	if err != nil {
		return err
	}
	return v.validateAgainstSchema(schemaName, doc)
}

func (v *Validator) validateAgainstSchema(schemaName string, data map[string]any) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	schema, ok := v.schemas[schemaName]
	if !ok {
		return fmt.Errorf("schema %q not loaded", schemaName)
	}

	// parameters -> #Parameters
	defPath := cue.ParsePath("#" + strings.ToUpper(schemaName[:1]) + schemaName[1:])
	def := schema.LookupPath(defPath)
	if !def.Exists() {
		return fmt.Errorf("schema %q has no %s definition", schemaName, defPath)
	}

	dataValue := v.ctx.Encode(data)
	if err := dataValue.Err(); err != nil {
		return fmt.Errorf("error encoding data: %w", err)
	}

	unified := def.Unify(dataValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return extractErrors(err)
	}
	return nil
}

// extractErrors flattens a CUE error tree into sorted, de-duplicated
// violations.
func extractErrors(err error) ValidationErrors {
	var out ValidationErrors
	seen := make(map[string]bool)
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		ve := ValidationError{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		}
		if key := ve.Error(); !seen[key] {
			seen[key] = true
			out = append(out, ve)
		}
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Message: err.Error()})
	}
	slices.SortStableFunc(out, func(a, b ValidationError) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out
}

// ToDocument turns a JSON-serialisable value into a generic document.
// Decoding goes through YAML so whole numbers stay integers, which the
// schemas rely on for counts.
func ToDocument(value any) (map[string]any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("error encoding value: %w", err)
	}
	var doc map[string]any
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error decoding value: %w", err)
	}
	return doc, nil
}
