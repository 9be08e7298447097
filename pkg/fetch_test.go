package sprout_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	h "github.com/buildpacks/pack/testhelpers"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	sprout "github.com/sproutlabs/sprout/pkg"
)

func TestGitFetcher(t *testing.T) {
	spec.Run(t, "GitFetcher", testGitFetcher, spec.Report(report.Terminal{}))
}

func testGitFetcher(t *testing.T, when spec.G, it spec.S) {
	var (
		fetcher sprout.GitFetcher
		dest    string
	)

	it.Before(func() {
		fetcher = sprout.GitFetcher{}
		dest = filepath.Join(t.TempDir(), "dest")
	})

	when("the coordinate is a directory on this machine", func() {
		var src string

		it.Before(func() {
			src = t.TempDir()
			h.AssertNil(t, os.MkdirAll(filepath.Join(src, "src"), 0755))
			h.AssertNil(t, os.WriteFile(filepath.Join(src, "src", "main.js"), []byte("console.log('hi')\n"), 0644))
		})

		it("copies it", func() {
			err := fetcher.Fetch(context.Background(), src, dest, sprout.FetchOptions{})

			h.AssertNil(t, err)
			data, err := os.ReadFile(filepath.Join(dest, "src", "main.js"))
			h.AssertNil(t, err)
			h.AssertEq(t, string(data), "console.log('hi')\n")
		})

		it("clears leftovers when forced", func() {
			h.AssertNil(t, os.MkdirAll(dest, 0755))
			h.AssertNil(t, os.WriteFile(filepath.Join(dest, "stale.txt"), []byte("stale"), 0644))

			err := fetcher.Fetch(context.Background(), src, dest, sprout.FetchOptions{Force: true})

			h.AssertNil(t, err)
			_, err = os.Stat(filepath.Join(dest, "stale.txt"))
			h.AssertEq(t, os.IsNotExist(err), true)
			_, err = os.Stat(filepath.Join(dest, "src", "main.js"))
			h.AssertNil(t, err)
		})
	})

	when("the coordinate does not exist", func() {
		it("fails to clone", func() {
			missing := filepath.Join(t.TempDir(), "missing-repo")

			err := fetcher.Fetch(context.Background(), missing, dest, sprout.FetchOptions{})

			h.AssertNotNil(t, err)
		})
	})
}
