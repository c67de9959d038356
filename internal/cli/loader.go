package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/stitchkit/skein/internal/engine"
	"github.com/stitchkit/skein/internal/pattern"
)

// ProjectInput is the fully resolved engine input loaded from disk.
type ProjectInput struct {
	PatternText string
	Glossary    []pattern.GlossaryEntry
	CastOn      int
}

// LoadError represents an error that occurred during input loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadInput resolves the pattern, glossary, and cast-on count from CLI
// arguments. The input path may be a CUE project file (".cue") carrying all
// three, or a plain text pattern file. A glossary flag (CUE or YAML) and a
// cast-on flag override whatever the project file supplied; a zero cast-on
// falls back to the engine default.
func LoadInput(path, glossaryPath string, castOn int) (*ProjectInput, error) {
	var input *ProjectInput
	var err error

	if strings.EqualFold(filepath.Ext(path), ".cue") {
		input, err = LoadCUEProject(path)
	} else {
		input, err = loadTextPattern(path)
	}
	if err != nil {
		return nil, err
	}

	if glossaryPath != "" {
		glossary, gerr := LoadGlossary(glossaryPath)
		if gerr != nil {
			return nil, gerr
		}
		input.Glossary = glossary
	}

	if castOn > 0 {
		input.CastOn = castOn
	}
	if input.CastOn <= 0 {
		input.CastOn = engine.DefaultStartingStitches
	}

	if strings.TrimSpace(input.PatternText) == "" {
		return nil, &LoadError{Code: ErrCodeEmptyInput, Message: fmt.Sprintf("no pattern text in %s", path)}
	}
	return input, nil
}

func loadTextPattern(path string) (*ProjectInput, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("pattern file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("error reading pattern file: %v", err)}
	}
	return &ProjectInput{PatternText: string(data)}, nil
}

// LoadCUEProject loads a project file of the form:
//
//	pattern: {
//		text:    """ ... """
//		cast_on: 8
//	}
//	glossary: [
//		{code: "k", title: "Knit", detail: "Knit stitch"},
//	]
//
// pattern.text is required; cast_on and glossary are optional.
func LoadCUEProject(path string) (*ProjectInput, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("project file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("error reading project file: %v", err)}
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	input := &ProjectInput{}

	textVal := value.LookupPath(cue.ParsePath("pattern.text"))
	if !textVal.Exists() {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "pattern.text is required"}
	}
	text, err := textVal.String()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("pattern.text: %v", err)}
	}
	input.PatternText = text

	castVal := value.LookupPath(cue.ParsePath("pattern.cast_on"))
	if castVal.Exists() {
		n, err := castVal.Int64()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("pattern.cast_on: %v", err)}
		}
		if n < 1 {
			return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "pattern.cast_on must be positive"}
		}
		input.CastOn = int(n)
	}

	glossaryVal := value.LookupPath(cue.ParsePath("glossary"))
	if glossaryVal.Exists() {
		entries, err := parseCUEGlossary(glossaryVal)
		if err != nil {
			return nil, err
		}
		input.Glossary = entries
	}

	return input, nil
}

func parseCUEGlossary(v cue.Value) ([]pattern.GlossaryEntry, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("glossary must be a list: %v", err)}
	}

	var entries []pattern.GlossaryEntry
	i := 0
	for iter.Next() {
		entry, err := parseCUEGlossaryEntry(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		i++
	}
	return entries, nil
}

func parseCUEGlossaryEntry(v cue.Value, index int) (pattern.GlossaryEntry, error) {
	var entry pattern.GlossaryEntry

	codeVal := v.LookupPath(cue.ParsePath("code"))
	if !codeVal.Exists() {
		return entry, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("glossary[%d]: code is required", index)}
	}
	code, err := codeVal.String()
	if err != nil {
		return entry, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("glossary[%d].code: %v", index, err)}
	}
	entry.Code = code

	titleVal := v.LookupPath(cue.ParsePath("title"))
	if !titleVal.Exists() {
		return entry, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("glossary[%d]: title is required", index)}
	}
	title, err := titleVal.String()
	if err != nil {
		return entry, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("glossary[%d].title: %v", index, err)}
	}
	entry.Title = title

	detailVal := v.LookupPath(cue.ParsePath("detail"))
	if detailVal.Exists() {
		detail, err := detailVal.String()
		if err != nil {
			return entry, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("glossary[%d].detail: %v", index, err)}
		}
		entry.Detail = detail
	}

	return entry, nil
}

// LoadGlossary loads glossary entries from a standalone CUE or YAML file.
// A CUE file uses the project form (top-level "glossary" list); a YAML file
// is a bare list of {code, title, detail} entries.
func LoadGlossary(path string) ([]pattern.GlossaryEntry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		input, err := LoadCUEGlossaryFile(path)
		if err != nil {
			return nil, err
		}
		return input, nil
	case ".yaml", ".yml":
		return loadYAMLGlossary(path)
	default:
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("unsupported glossary format: %s", path)}
	}
}

// LoadCUEGlossaryFile reads only the glossary list from a CUE file.
func LoadCUEGlossaryFile(path string) ([]pattern.GlossaryEntry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("glossary file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("error reading glossary file: %v", err)}
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	glossaryVal := value.LookupPath(cue.ParsePath("glossary"))
	if !glossaryVal.Exists() {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("no glossary list in %s", path)}
	}
	return parseCUEGlossary(glossaryVal)
}

type yamlGlossaryEntry struct {
	Code   string `yaml:"code"`
	Title  string `yaml:"title"`
	Detail string `yaml:"detail,omitempty"`
}

func loadYAMLGlossary(path string) ([]pattern.GlossaryEntry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("glossary file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("error reading glossary file: %v", err)}
	}

	var raw []yamlGlossaryEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("parsing glossary YAML: %v", err)}
	}

	entries := make([]pattern.GlossaryEntry, 0, len(raw))
	for i, e := range raw {
		if e.Code == "" || e.Title == "" {
			return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("glossary[%d]: code and title are required", i)}
		}
		entries = append(entries, pattern.GlossaryEntry{Code: e.Code, Title: e.Title, Detail: e.Detail})
	}
	return entries, nil
}
