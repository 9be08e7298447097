// Package internal implements the pipeline behind the public sprout API:
// name validation, template resolution, lifecycle scanning, prompting and
// the stamping of fetched templates into new projects.
package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
)

// TemplateDirPrefix is the naming convention for template directories under
// the templates root and for template repositories under a namespace.
const TemplateDirPrefix = "template-"

// Resolution is the outcome of mapping a template name onto the local
// templates root.
type Resolution struct {
	// Name is the template name the run will use, after any fallback.
	Name string
	// Dir is the confined local directory for Name, or empty when the root
	// holds no usable copy and the template must be fetched by coordinate
	// alone.
	Dir string
	// Fallback is true when Name differs from the requested template.
	Fallback bool
	// Reason explains a fallback or a degraded resolution.
	Reason string
}

// ResolveTemplate maps name onto a directory under root named
// TemplateDirPrefix+name. Both root and candidate are resolved through
// symlinks and the candidate must remain below root; an escape, a missing
// candidate or a crafted name all fall back to FallbackTemplate. The
// fallback itself may be absent from root, in which case the resolution
// carries only the template name.
func ResolveTemplate(root, name string) Resolution {
	if root == "" {
		return Resolution{Name: name}
	}

	dir, err := confinedDir(root, name)
	if err == nil {
		return Resolution{Name: name, Dir: dir}
	}
	if name == FallbackTemplate {
		return Resolution{Name: FallbackTemplate, Reason: err.Error()}
	}

	res := Resolution{Name: FallbackTemplate, Fallback: true, Reason: err.Error()}
	if fallbackDir, ferr := confinedDir(root, FallbackTemplate); ferr == nil {
		res.Dir = fallbackDir
	}
	return res
}

// confinedDir returns the real path of the template directory for name, or
// an error when no directory below the real path of root provides it.
func confinedDir(root, name string) (string, error) {
	rootReal, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("templates root %s is not usable", root)
	}

	candidate := filepath.Join(rootReal, TemplateDirPrefix+name)
	real, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return "", fmt.Errorf("template %q is not in the local catalog", name)
	}

	rel, err := filepath.Rel(rootReal, real)
	if err != nil || rel == "." || rel == ".." ||
		strings.HasPrefix(rel, ".."+string(os.PathSeparator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("template %q escapes the templates root", name)
	}

	info, err := os.Stat(real)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("template %q is not a directory", name)
	}
	return real, nil
}

// CatalogEntry is one usable template below the templates root.
type CatalogEntry struct {
	Name        string
	Description string
}

// Catalog enumerates the templates available under root, sorted by name,
// each with the description its descriptor declares. Entries that fail
// confinement are left out; a broken descriptor only costs its description.
func Catalog(root string) []CatalogEntry {
	if root == "" {
		return nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	catalog := []CatalogEntry{}
	for _, entry := range entries {
		name := strings.TrimPrefix(entry.Name(), TemplateDirPrefix)
		if name == entry.Name() || name == "" {
			continue
		}
		dir, err := confinedDir(root, name)
		if err != nil {
			continue
		}
		item := CatalogEntry{Name: name}
		if d, derr := ReadDescriptor(osfs.New(dir)); derr == nil && d != nil {
			item.Description = d.Description
		}
		catalog = append(catalog, item)
	}
	sort.Slice(catalog, func(i, j int) bool { return catalog[i].Name < catalog[j].Name })
	return catalog
}

// ListTemplates enumerates just the template names available under root.
func ListTemplates(root string) []string {
	var names []string
	for _, entry := range Catalog(root) {
		names = append(names, entry.Name)
	}
	return names
}

// NearestTemplate returns the catalog entry closest to name, for "did you
// mean" hints. Only near misses count; empty means nothing is close enough.
func NearestTemplate(root, name string) string {
	best, bestDistance := "", 3
	for _, entry := range ListTemplates(root) {
		if d := editDistance(name, entry); d < bestDistance {
			best, bestDistance = entry, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur := make([]int, len(rb)+1)
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev = cur
	}
	return prev[len(rb)]
}
