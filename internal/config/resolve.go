package config

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// NoTemplateChoice is the extra entry offered when selecting a template.
const NoTemplateChoice = "(none)"

// TemplateSource fetches the remote template catalog.
type TemplateSource interface {
	Templates(ctx context.Context) (map[string]TemplateDefinition, error)
}

// Prompter asks the operator questions during resolution.
type Prompter interface {
	Select(ctx context.Context, message string, choices []string) (string, error)
	Input(ctx context.Context, message string) (string, error)
}

// Reporter receives operator-facing notices and the verbose settings dump.
type Reporter interface {
	Notice(msg string)
	Settings(s ResolvedSettings)
}

// Resolver merges defaults, template settings, the persisted config file and
// invocation options into ResolvedSettings.
type Resolver struct {
	ConfigPath string
	Templates  TemplateSource
	Prompter   Prompter
	Reporter   Reporter
	Logger     *slog.Logger
}

// Resolve produces the settings for one run. The only fatal outcomes are a
// *ConfigError from the persisted config and a failed prompt.
func (r *Resolver) Resolve(ctx context.Context, invocation Options) (ResolvedSettings, error) {
	persisted, err := LoadFile(r.ConfigPath, r.logger())
	if err != nil {
		return ResolvedSettings{}, err
	}

	preliminary := Defaults().Apply(persisted).Apply(invocation)

	var template TemplateSelection
	var templateSettings Options
	if preliminary.WithTemplates || preliminary.TemplateName != "" {
		template, templateSettings, err = r.chooseTemplate(ctx, preliminary)
		if err != nil {
			return ResolvedSettings{}, err
		}
	}

	s := Merge(templateSettings, persisted, invocation)
	if template.Variables == nil {
		template.Variables = map[string]string{}
	}
	s.Template = template

	if s.Verbose && r.Reporter != nil {
		r.Reporter.Settings(s)
	}
	return s, nil
}

// Merge folds the three override layers over Defaults. Scalars are
// last-set-wins; the commit pair and the glob lists come from the invocation
// or persisted layer only. The Template field is left at its default.
func Merge(templateSettings, persisted, invocation Options) ResolvedSettings {
	s := Defaults().Apply(templateSettings).Apply(persisted).Apply(invocation)
	s.CommitStaged, s.CommitAndPushStaged = resolveCommitPair(invocation, persisted)
	s.Include = firstNonEmpty(invocation.Include, persisted.Include)
	s.Exclude = firstNonEmpty(invocation.Exclude, persisted.Exclude)
	s.Template = Defaults().Template
	return s
}

// resolveCommitPair takes both commit toggles from the invocation layer when
// it supplies either of them, else from the persisted layer. A toggle missing
// from the chosen layer is false.
func resolveCommitPair(invocation, persisted Options) (commit, commitAndPush bool) {
	source := persisted
	if invocation.CommitStaged != nil || invocation.CommitAndPushStaged != nil {
		source = invocation
	}
	return lastSet(false, source.CommitStaged), lastSet(false, source.CommitAndPushStaged)
}

func firstNonEmpty(lists ...Patterns) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return slices.Clone([]string(l))
		}
	}
	return []string{}
}

// chooseTemplate fetches the catalog and settles on a template, prompting
// where the configuration does not name a usable one.
func (r *Resolver) chooseTemplate(ctx context.Context, prelim ResolvedSettings) (TemplateSelection, Options, error) {
	catalog := r.fetchCatalog(ctx)
	if len(catalog) == 0 {
		r.notice("No templates found.")
		return TemplateSelection{}, Options{}, nil
	}

	configured := prelim.Template
	name := prelim.TemplateName
	if name == "" {
		name = configured.Name
	}

	def, ok := catalog[name]
	if ok {
		r.notice(fmt.Sprintf("Using the %s template", name))
	} else {
		names := make([]string, 0, len(catalog)+1)
		for n := range catalog {
			names = append(names, n)
		}
		slices.Sort(names)
		names = append(names, NoTemplateChoice)

		choice, err := r.prompter().Select(ctx, "Choose the template:", names)
		if err != nil {
			return TemplateSelection{}, Options{}, fmt.Errorf("selecting template: %w", err)
		}
		if choice == NoTemplateChoice || choice == "" {
			return TemplateSelection{}, Options{}, nil
		}
		def, ok = catalog[choice]
		if !ok {
			return TemplateSelection{}, Options{}, fmt.Errorf("selecting template: unknown template %q", choice)
		}
		name = choice
	}

	selection := TemplateSelection{Name: name, Variables: map[string]string{}}
	if configured.Name == name {
		for k, v := range configured.Variables {
			selection.Variables[k] = v
		}
	}
	for _, variable := range def.Variables {
		if selection.Variables[variable] != "" {
			continue
		}
		value, err := r.prompter().Input(ctx, variable+":")
		if err != nil {
			return TemplateSelection{}, Options{}, fmt.Errorf("reading template variable %s: %w", variable, err)
		}
		selection.Variables[variable] = value
	}
	return selection, def.Settings, nil
}

func (r *Resolver) fetchCatalog(ctx context.Context) map[string]TemplateDefinition {
	if r.Templates == nil {
		r.logger().Warn("failed to fetch user templates", "error", "no template source configured")
		return nil
	}
	catalog, err := r.Templates.Templates(ctx)
	if err != nil {
		r.logger().Warn("failed to fetch user templates", "error", err)
		return nil
	}
	return catalog
}

func (r *Resolver) notice(msg string) {
	if r.Reporter != nil {
		r.Reporter.Notice(msg)
	}
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Resolver) prompter() Prompter {
	if r.Prompter != nil {
		return r.Prompter
	}
	return noPrompter{}
}

type noPrompter struct{}

func (noPrompter) Select(context.Context, string, []string) (string, error) {
	return NoTemplateChoice, nil
}

func (noPrompter) Input(context.Context, string) (string, error) {
	return "", nil
}
