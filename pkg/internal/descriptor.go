package internal

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/coveooss/gotemplate/v3/collections"
	"github.com/go-git/go-billy/v5"
)

const (
	// DescriptorFile declares a template's description and its questions.
	DescriptorFile = "template.toml"
	// OverrideFile pins answers inside a template without asking for them.
	OverrideFile = ".override.toml"
)

// ReservedQuestionNames are bound by the run itself and cannot be declared
// by a template.
var ReservedQuestionNames = []string{"ProjectName", "Template"}

// IgnoredNames never make it into a materialized project.
var IgnoredNames = []string{"/" + DescriptorFile, "/" + OverrideFile, "/.git"}

// Question is a single input a template asks for before stamping.
type Question struct {
	Name     string   `toml:"name"`
	Prompt   string   `toml:"prompt"`
	Help     string   `toml:"help"`
	Required bool     `toml:"required"`
	Default  string   `toml:"default"`
	Choices  []string `toml:"choices,omitempty"`

	// Validate vets an answer before it is accepted. Not settable from a
	// descriptor.
	Validate func(string) error `toml:"-"`
}

// Descriptor is the parsed DescriptorFile of a fetched template.
type Descriptor struct {
	Description string     `toml:"description"`
	Questions   []Question `toml:"prompt"`
}

// ReadDescriptor parses the template descriptor, or returns nil when the
// template does not carry one.
func ReadDescriptor(bfs billy.Filesystem) (*Descriptor, error) {
	if _, err := bfs.Stat(DescriptorFile); err != nil {
		return nil, nil
	}

	data, err := readFile(bfs, DescriptorFile)
	if err != nil {
		return nil, err
	}

	var d Descriptor
	if _, err := toml.Decode(data, &d); err != nil {
		return nil, fmt.Errorf("%s does not match the required format: %s", DescriptorFile, err)
	}

	for _, q := range d.Questions {
		if q.Name == "" {
			return nil, fmt.Errorf("%s contains a question with no name", DescriptorFile)
		}
		if contains(ReservedQuestionNames, q.Name) {
			return nil, fmt.Errorf("%s declares reserved variable %s", DescriptorFile, q.Name)
		}
	}
	return &d, nil
}

// ReadOverrides parses OverrideFile into pinned answers, or an empty
// dictionary when the file is absent.
func ReadOverrides(bfs billy.Filesystem) (collections.IDictionary, error) {
	overrides := collections.CreateDictionary()
	if _, err := bfs.Stat(OverrideFile); err != nil {
		return overrides, nil
	}

	data, err := readFile(bfs, OverrideFile)
	if err != nil {
		return nil, err
	}

	kv := map[string]string{}
	if _, err := toml.Decode(data, &kv); err != nil {
		return nil, fmt.Errorf("%s does not match the required format: %s", OverrideFile, err)
	}

	for k, v := range kv {
		if contains(ReservedQuestionNames, k) {
			return nil, fmt.Errorf("%s overrides reserved variable %s", OverrideFile, k)
		}
		overrides.Set(k, v)
	}
	return overrides, nil
}

func contains(list []string, element string) bool {
	for _, s := range list {
		if s == element {
			return true
		}
	}
	return false
}
