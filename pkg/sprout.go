// Package sprout creates new source projects from project templates.
// Templates are git repositories named template-<name> under a namespace,
// optionally mirrored in a local templates root, and new projects are
// materialized on the local filesystem.
package sprout

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/coveooss/gotemplate/v3/collections"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/sproutlabs/sprout/pkg/internal"
	"github.com/sproutlabs/sprout/pkg/internal/util"
)

// DefaultNamespace is where templates are fetched from when the templates
// root holds no usable copy.
const DefaultNamespace = "https://github.com/sproutlabs"

// Sprout allows programmatic control over project creation. Overrides are
// skipped in prompts; a template can pin further answers in its
// `.override.toml` file.
type Sprout struct {
	TemplatesRoot string
	Namespace     string
	OutputFolder  string
	Overrides     map[string]string
	DefaultValues map[string]interface{}
	Fetcher       Fetcher
	Output        io.Writer
	Stdio         terminal.Stdio
	Log           *slog.Logger
}

type Option func(*Sprout)

func WithTemplatesRoot(root string) Option {
	return func(s *Sprout) {
		s.TemplatesRoot = root
	}
}

func WithNamespace(namespace string) Option {
	return func(s *Sprout) {
		s.Namespace = namespace
	}
}

func WithOutputFolder(folder string) Option {
	return func(s *Sprout) {
		s.OutputFolder = folder
	}
}

func WithOverrides(overrides map[string]string) Option {
	return func(s *Sprout) {
		s.Overrides = overrides
	}
}

func WithDefaultValues(defaults map[string]interface{}) Option {
	return func(s *Sprout) {
		s.DefaultValues = defaults
	}
}

func WithFetcher(f Fetcher) Option {
	return func(s *Sprout) {
		s.Fetcher = f
	}
}

func WithOutput(w io.Writer) Option {
	return func(s *Sprout) {
		s.Output = w
	}
}

func WithStdio(stdio terminal.Stdio) Option {
	return func(s *Sprout) {
		s.Stdio = stdio
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Sprout) {
		s.Log = log
	}
}

// DefaultTemplatesRoot is the per-user local template catalog.
func DefaultTemplatesRoot() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sprout", "templates")
}

// NewSprout assembles a Sprout with the given options.
func NewSprout(opts ...Option) Sprout {
	s := Sprout{
		TemplatesRoot: DefaultTemplatesRoot(),
		Namespace:     DefaultNamespace,
		OutputFolder:  ".",
		Overrides:     map[string]string{},
		DefaultValues: map[string]interface{}{},
		Fetcher:       GitFetcher{},
		Output:        os.Stdout,
		Stdio:         terminal.Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr},
		Log:           slog.Default(),
	}

	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// Create materializes a new project for projectName from templateName.
// Empty inputs are collected interactively. The destination is
// OutputFolder/projectName; a run that fails after the fetch has begun
// removes it again.
func (s Sprout) Create(ctx context.Context, projectName, templateName string) error {
	s.Log.Debug("collecting input")
	projectName, templateName, err := s.collectInput(projectName, templateName)
	if err != nil {
		return err
	}

	s.Log.Debug("validating", "project", projectName, "template", templateName)
	if err := internal.ValidateProjectName(projectName); err != nil {
		return &ValidationError{Field: "project name", Value: projectName, Message: err.Error()}
	}

	var warnings []string
	name, substituted := internal.NormalizeTemplateName(templateName)
	if substituted {
		warnings = append(warnings, fmt.Sprintf("template name %q cannot be used, continuing with %q", templateName, name))
	}

	s.Log.Debug("resolving", "template", name)
	res, resolveWarnings := s.resolveTrusted(name)
	warnings = append(warnings, resolveWarnings...)

	// Everything the user may want to reconsider is shown before the fetch
	// begins.
	for _, w := range warnings {
		fmt.Fprintf(s.Stdio.Err, "⚠ %s\n", w)
	}

	dest := filepath.Join(s.OutputFolder, projectName)
	s.Log.Debug("guarding destination", "dest", dest)
	if err := internal.GuardDestination(dest); err != nil {
		return err
	}

	s.Log.Debug("fetching", "template", res.Name, "dest", dest)
	if err := s.fetchAndMaterialize(ctx, res, dest, projectName); err != nil {
		s.Log.Debug("rolling back", "dest", dest)
		if rmErr := internal.RemoveDestination(dest); rmErr != nil {
			cleanupErr := &CleanupError{Path: dest, Err: rmErr}
			fmt.Fprintf(s.Stdio.Err, "⚠ %s; remove it manually\n", cleanupErr)
		}
		return err
	}

	fmt.Fprintf(s.Output, "✓ created %s from template %q\n\nNext steps:\n  cd %s\n", projectName, res.Name, dest)
	return nil
}

// collectInput prompts for whichever of the two inputs was not supplied.
func (s Sprout) collectInput(projectName, templateName string) (string, string, error) {
	var questions []internal.Question
	if projectName == "" {
		questions = append(questions, internal.Question{
			Name:     "ProjectName",
			Prompt:   "What is your project named?",
			Required: true,
			Validate: internal.ValidateProjectName,
		})
	}
	if templateName == "" {
		var choices, described []string
		for _, entry := range internal.Catalog(s.TemplatesRoot) {
			choices = append(choices, entry.Name)
			if entry.Description != "" {
				described = append(described, fmt.Sprintf("%s: %s", entry.Name, entry.Description))
			}
		}
		questions = append(questions, internal.Question{
			Name:    "Template",
			Prompt:  "Which template would you like to use?",
			Help:    strings.Join(described, "; "),
			Default: internal.FallbackTemplate,
			Choices: choices,
		})
	}
	if len(questions) == 0 {
		return projectName, templateName, nil
	}

	answers, err := internal.AskQuestions(questions, nil, s.DefaultValues, s.Stdio)
	if err != nil {
		return "", "", err
	}
	if projectName == "" {
		projectName = answers.Get("ProjectName").(string)
	}
	if templateName == "" {
		templateName = answers.Get("Template").(string)
	}
	return projectName, templateName, nil
}

// resolveTrusted resolves name against the templates root and scans the
// resolved directory's manifest. An unparseable manifest is a trust failure:
// the resolution retreats to the fallback template, and if that cannot be
// trusted either, to a coordinate-only fetch.
func (s Sprout) resolveTrusted(name string) (internal.Resolution, []string) {
	var warnings []string

	res := internal.ResolveTemplate(s.TemplatesRoot, name)
	if res.Fallback {
		w := fmt.Sprintf("unknown template %q (%s), continuing with %q", name, res.Reason, res.Name)
		if hint := internal.NearestTemplate(s.TemplatesRoot, name); hint != "" && hint != res.Name {
			w = fmt.Sprintf("%s; did you mean %q?", w, hint)
		}
		warnings = append(warnings, w)
	}
	if res.Dir == "" {
		return res, warnings
	}

	hooks, err := internal.ScanLifecycle(osfs.New(res.Dir))
	if err != nil && res.Name != internal.FallbackTemplate {
		warnings = append(warnings, fmt.Sprintf("%v; falling back to template %q", err, internal.FallbackTemplate))
		res = internal.ResolveTemplate(s.TemplatesRoot, internal.FallbackTemplate)
		res.Fallback = true
		hooks = nil
		if res.Dir != "" {
			hooks, err = internal.ScanLifecycle(osfs.New(res.Dir))
		}
	}
	if err != nil && res.Dir != "" {
		warnings = append(warnings, fmt.Sprintf("%v; ignoring the local copy", err))
		res.Dir = ""
		hooks = nil
	}

	if len(hooks) > 0 {
		warnings = append(warnings, fmt.Sprintf("template %q declares lifecycle scripts: %s; a package manager would run these when installing dependencies", res.Name, strings.Join(hooks, ", ")))
	}
	return res, warnings
}

// coordinate names the source a resolution is fetched from: the confined
// local directory when the root provides one, the namespace repository
// otherwise.
func (s Sprout) coordinate(res internal.Resolution) string {
	if res.Dir != "" {
		return res.Dir
	}
	return fmt.Sprintf("%s/%s%s", strings.TrimSuffix(s.Namespace, "/"), internal.TemplateDirPrefix, res.Name)
}

// fetchAndMaterialize fetches the template into a staging directory, asks
// the questions its descriptor declares, stamps the tree and writes it to
// dest. dest is only created once the stamped tree is complete.
func (s Sprout) fetchAndMaterialize(ctx context.Context, res internal.Resolution, dest, projectName string) error {
	staging, err := os.MkdirTemp("", "sprout")
	if err != nil {
		return err
	}
	defer os.RemoveAll(staging)

	coordinate := s.coordinate(res)
	if err := s.Fetcher.Fetch(ctx, coordinate, staging, FetchOptions{}); err != nil {
		return &FetchError{Coordinate: coordinate, Err: err}
	}

	fetched := osfs.New(staging)
	values, err := s.answers(fetched, projectName, res.Name)
	if err != nil {
		return err
	}

	staged := memfs.New()
	if err := internal.Stamp(fetched, values, staged); err != nil {
		return err
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	return internal.WriteTree(staged, osfs.New(dest), func(path string) {
		fmt.Fprintf(s.Output, "  create %s\n", strings.TrimPrefix(path, "/"))
	})
}

// answers merges command-line overrides, the template's pinned answers and
// the descriptor's questions into the final stamp values. Overrides given on
// the command line win over pinned ones, and the reserved names are always
// bound by the run.
func (s Sprout) answers(fetched billy.Filesystem, projectName, templateName string) (collections.IDictionary, error) {
	seed := util.ToIDictionary(s.Overrides)

	pinned, err := internal.ReadOverrides(fetched)
	if err != nil {
		return nil, err
	}
	seed = seed.Merge(pinned)

	seed.Set("ProjectName", projectName)
	seed.Set("Template", templateName)

	descriptor, err := internal.ReadDescriptor(fetched)
	if err != nil {
		return nil, err
	}
	if descriptor == nil {
		return seed, nil
	}

	if descriptor.Description != "" {
		fmt.Fprintln(s.Output, descriptor.Description)
	}
	return internal.AskQuestions(descriptor.Questions, seed, s.DefaultValues, s.Stdio)
}
