package sprout

import (
	"context"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	cp "github.com/otiai10/copy"
)

// FetchOptions tune a single fetch.
type FetchOptions struct {
	// Force clears dest before fetching instead of failing on leftovers.
	Force bool
	// NoCache asks the fetcher to bypass any local template cache. The
	// default fetcher clones fresh on every run and has nothing to bypass.
	NoCache bool
}

// Fetcher populates dest with a snapshot of the template named by
// coordinate.
type Fetcher interface {
	Fetch(ctx context.Context, coordinate, dest string, opts FetchOptions) error
}

// GitFetcher fetches templates with git, or copies them directly when the
// coordinate names a directory on this machine.
type GitFetcher struct {
	// Depth bounds the clone history. Zero means a depth of one.
	Depth int
}

func (g GitFetcher) Fetch(ctx context.Context, coordinate, dest string, opts FetchOptions) error {
	if opts.Force {
		if err := os.RemoveAll(dest); err != nil {
			return err
		}
	}

	if info, err := os.Stat(coordinate); err == nil && info.IsDir() {
		return cp.Copy(coordinate, dest)
	}

	depth := g.Depth
	if depth == 0 {
		depth = 1
	}
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:   coordinate,
		Depth: depth,
	})
	if err != nil {
		return err
	}
	// The clone's history is not part of the template.
	return os.RemoveAll(filepath.Join(dest, ".git"))
}
