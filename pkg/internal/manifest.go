package internal

import (
	"encoding/json"
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/tidwall/jsonc"
)

// ManifestFile is the package manifest consulted for lifecycle scripts.
const ManifestFile = "package.json"

// lifecycleHooks are the script names a package manager runs automatically
// on install, in the order they are reported.
var lifecycleHooks = []string{"preinstall", "install", "postinstall", "prepare", "prepublish"}

// ManifestError reports a manifest that exists but cannot be parsed. Callers
// treat it as a trust failure, not as an empty scripts table.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s is not parseable: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error { return e.Err }

// ScanLifecycle reads the template's manifest, if any, and reports which
// lifecycle hooks its scripts table declares. A missing manifest yields no
// hooks. Manifests are read as JSONC, so comments and trailing commas are
// tolerated.
func ScanLifecycle(bfs billy.Filesystem) ([]string, error) {
	if _, err := bfs.Stat(ManifestFile); err != nil {
		return nil, nil
	}

	data, err := readFile(bfs, ManifestFile)
	if err != nil {
		return nil, &ManifestError{Path: ManifestFile, Err: err}
	}

	var manifest struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(jsonc.ToJSON([]byte(data)), &manifest); err != nil {
		return nil, &ManifestError{Path: ManifestFile, Err: err}
	}

	var hooks []string
	for _, hook := range lifecycleHooks {
		if _, ok := manifest.Scripts[hook]; ok {
			hooks = append(hooks, hook)
		}
	}
	return hooks, nil
}
