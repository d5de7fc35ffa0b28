package prompts

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/force-backend/internal/platform/promptstyle"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Spec is one catalog entry.
type Spec struct {
	Name        PromptName `yaml:"name"`
	Version     int        `yaml:"version"`
	Temperature float64    `yaml:"temperature"`
	MaxTokens   int        `yaml:"max_tokens"`
	// Format is "json" (default) or "text".
	Format   string   `yaml:"format"`
	Required []string `yaml:"required"`
	System   string   `yaml:"system"`
	User     string   `yaml:"user"`
}

type catalogFile struct {
	Prompts []Spec `yaml:"prompts"`
}

type Template struct {
	Spec       Spec
	system     *template.Template
	user       *template.Template
	validators []Validator
}

// Registry holds compiled templates by name.
type Registry struct {
	templates map[PromptName]Template
}

// MakeTemplate compiles a Spec.
func MakeTemplate(s Spec) (Template, error) {
	if strings.TrimSpace(string(s.Name)) == "" {
		return Template{}, fmt.Errorf("missing prompt name")
	}
	if s.Version <= 0 {
		return Template{}, fmt.Errorf("invalid version for %s", s.Name)
	}
	if s.MaxTokens <= 0 {
		return Template{}, fmt.Errorf("invalid max_tokens for %s", s.Name)
	}
	if s.Format == "" {
		s.Format = "json"
	}
	sysT, err := template.New("system").Option("missingkey=zero").Parse(s.System)
	if err != nil {
		return Template{}, fmt.Errorf("%s system template parse: %w", s.Name, err)
	}
	userT, err := template.New("user").Option("missingkey=zero").Parse(s.User)
	if err != nil {
		return Template{}, fmt.Errorf("%s user template parse: %w", s.Name, err)
	}
	t := Template{Spec: s, system: sysT, user: userT}
	for _, field := range s.Required {
		v, ok := requiredFields[field]
		if !ok {
			return Template{}, fmt.Errorf("%s: unknown required field %q", s.Name, field)
		}
		t.validators = append(t.validators, v)
	}
	return t, nil
}

// Load parses a YAML catalog.
func Load(data []byte) (*Registry, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}
	r := &Registry{templates: make(map[PromptName]Template, len(cf.Prompts))}
	for _, s := range cf.Prompts {
		t, err := MakeTemplate(s)
		if err != nil {
			return nil, err
		}
		if _, dup := r.templates[s.Name]; dup {
			return nil, fmt.Errorf("duplicate prompt %s", s.Name)
		}
		r.templates[s.Name] = t
	}
	return r, nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// Default returns the registry compiled from the embedded catalog.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Load(catalogYAML)
	})
	return defaultReg, defaultErr
}

// Build validates in and renders the named prompt.
func (r *Registry) Build(name PromptName, in Input) (Prompt, error) {
	t, ok := r.templates[name]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", name)
	}
	for _, v := range t.validators {
		if err := v(in); err != nil {
			return Prompt{}, &InputError{Prompt: name, Err: err}
		}
	}
	system, err := render(t.system, in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s system render: %w", name, err)
	}
	user, err := render(t.user, in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s user render: %w", name, err)
	}
	return Prompt{
		Name:        string(name),
		Version:     t.Spec.Version,
		System:      promptstyle.ApplySystem(system, t.Spec.Format),
		User:        user,
		Temperature: t.Spec.Temperature,
		MaxTokens:   t.Spec.MaxTokens,
	}, nil
}

func render(t *template.Template, in Input) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, in); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

// InputError means the caller supplied an incomplete input.
type InputError struct {
	Prompt PromptName
	Err    error
}

func (e *InputError) Error() string { return fmt.Sprintf("%s: %v", e.Prompt, e.Err) }
func (e *InputError) Unwrap() error { return e.Err }
