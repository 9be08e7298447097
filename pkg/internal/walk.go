package internal

import (
	"io/fs"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
)

// WalkFunc mirrors filepath.WalkFunc for billy filesystems.
type WalkFunc func(path string, info fs.FileInfo, err error) error

// Walk visits every entry of bfs below root in lexical order. Symlinks are
// reported, not followed.
func Walk(bfs billy.Filesystem, root string, fn WalkFunc) error {
	info, err := bfs.Lstat(root)
	if err != nil {
		return fn(root, nil, err)
	}
	return walk(bfs, root, info, fn)
}

func walk(bfs billy.Filesystem, name string, info fs.FileInfo, fn WalkFunc) error {
	if err := fn(name, info, nil); err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := bfs.ReadDir(name)
	if err != nil {
		return fn(name, info, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if err := walk(bfs, path.Join(name, entry.Name()), entry, fn); err != nil {
			return err
		}
	}
	return nil
}
