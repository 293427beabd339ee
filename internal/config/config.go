package config

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strings"
)

// FileName is the name of the persisted project config file.
const FileName = ".cortexrc"

// Options is one override layer. Nil fields were not supplied by the layer.
type Options struct {
	StageAllChanges     *bool              `json:"stageAllChanges,omitempty"`
	CommitStaged        *bool              `json:"commitStaged,omitempty"`
	CommitAndPushStaged *bool              `json:"commitAndPushStaged,omitempty"`
	Header              *string            `json:"header,omitempty"`
	Include             Patterns           `json:"include,omitempty"`
	Exclude             Patterns           `json:"exclude,omitempty"`
	Verbose             *bool              `json:"verbose,omitempty"`
	PreScript           *string            `json:"preScript,omitempty"`
	WithTemplates       *bool              `json:"withTemplates,omitempty"`
	TemplateName        *string            `json:"templateName,omitempty"`
	Template            *TemplateSelection `json:"template,omitempty"`
	RedactSecrets       *bool              `json:"redactSecrets,omitempty"`
}

// Patterns is a glob list that decodes from either a single string or an
// array of strings. Blank entries are dropped.
type Patterns []string

// UnmarshalJSON implements json.Unmarshaler.
func (p *Patterns) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*p = normalizePatterns([]string{single})
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.New("expected a string or an array of strings")
	}
	*p = normalizePatterns(list)
	return nil
}

func normalizePatterns(in []string) Patterns {
	out := Patterns{}
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// TemplateSelection names a remote template and the values chosen for its
// variables. The zero value means no template.
type TemplateSelection struct {
	Name      string            `json:"name,omitempty" yaml:"name,omitempty"`
	Variables map[string]string `json:"variables" yaml:"variables"`
}

// IsZero reports whether no template is selected.
func (t TemplateSelection) IsZero() bool {
	return t.Name == "" && len(t.Variables) == 0
}

func (t TemplateSelection) clone() TemplateSelection {
	out := TemplateSelection{Name: t.Name, Variables: make(map[string]string, len(t.Variables))}
	maps.Copy(out.Variables, t.Variables)
	return out
}

// TemplateDefinition is a catalog entry: the variables an operator must
// supply and the settings the template contributes.
type TemplateDefinition struct {
	Name      string
	Variables []string
	Settings  Options
}

// ResolvedSettings is the single authoritative configuration of a run.
type ResolvedSettings struct {
	StageAllChanges     bool              `json:"stageAllChanges" yaml:"stageAllChanges"`
	CommitStaged        bool              `json:"commitStaged" yaml:"commitStaged"`
	CommitAndPushStaged bool              `json:"commitAndPushStaged" yaml:"commitAndPushStaged"`
	Header              string            `json:"header" yaml:"header"`
	Include             []string          `json:"include" yaml:"include"`
	Exclude             []string          `json:"exclude" yaml:"exclude"`
	Verbose             bool              `json:"verbose" yaml:"verbose"`
	PreScript           string            `json:"preScript" yaml:"preScript"`
	WithTemplates       bool              `json:"withTemplates" yaml:"withTemplates"`
	TemplateName        string            `json:"templateName" yaml:"templateName"`
	Template            TemplateSelection `json:"template" yaml:"template"`
	RedactSecrets       bool              `json:"redactSecrets" yaml:"redactSecrets"`
}

// Defaults returns the lowest-precedence settings: every toggle off, every
// string and list empty, no template.
func Defaults() ResolvedSettings {
	return ResolvedSettings{
		Include:  []string{},
		Exclude:  []string{},
		Template: TemplateSelection{Variables: map[string]string{}},
	}
}

// Apply overlays every supplied field of o onto s and returns the result.
// It is plain last-set-wins; the pair and list rules live in the resolver.
func (s ResolvedSettings) Apply(o Options) ResolvedSettings {
	s.StageAllChanges = lastSet(s.StageAllChanges, o.StageAllChanges)
	s.CommitStaged = lastSet(s.CommitStaged, o.CommitStaged)
	s.CommitAndPushStaged = lastSet(s.CommitAndPushStaged, o.CommitAndPushStaged)
	s.Header = lastSet(s.Header, o.Header)
	s.Verbose = lastSet(s.Verbose, o.Verbose)
	s.PreScript = lastSet(s.PreScript, o.PreScript)
	s.WithTemplates = lastSet(s.WithTemplates, o.WithTemplates)
	s.TemplateName = lastSet(s.TemplateName, o.TemplateName)
	s.RedactSecrets = lastSet(s.RedactSecrets, o.RedactSecrets)
	if len(o.Include) > 0 {
		s.Include = slices.Clone([]string(o.Include))
	}
	if len(o.Exclude) > 0 {
		s.Exclude = slices.Clone([]string(o.Exclude))
	}
	if o.Template != nil {
		s.Template = o.Template.clone()
	}
	return s
}

func lastSet[T any](current T, layer *T) T {
	if layer != nil {
		return *layer
	}
	return current
}

// Bool returns a pointer to b, for building Options literals.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s, for building Options literals.
func String(s string) *string { return &s }
