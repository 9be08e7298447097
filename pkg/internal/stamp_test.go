package internal

import (
	"io"
	"testing"

	"github.com/coveooss/gotemplate/v3/collections"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dict(pairs map[string]string) collections.IDictionary {
	d := collections.CreateDictionary()
	for k, v := range pairs {
		d.Set(k, v)
	}
	return d
}

func readAll(t *testing.T, bfs billy.Filesystem, name string) string {
	t.Helper()
	file, err := bfs.Open(name)
	require.NoError(t, err)
	defer file.Close()
	buf, err := io.ReadAll(file)
	require.NoError(t, err)
	return string(buf)
}

func TestStampRendersContentAndPaths(t *testing.T) {
	src := memfs.New()
	require.NoError(t, util.WriteFile(src, "/README.md", []byte("# {{.ProjectName}}\n"), 0644))
	require.NoError(t, util.WriteFile(src, "/{{.ProjectName}}.conf", []byte("name = {{.ProjectName | upper}}\n"), 0644))
	require.NoError(t, util.WriteFile(src, "/cmd/{{.ProjectName}}/main.go", []byte("package main\n"), 0644))
	dest := memfs.New()

	err := Stamp(src, dict(map[string]string{"ProjectName": "my-app"}), dest)

	require.NoError(t, err)
	assert.Equal(t, "# my-app\n", readAll(t, dest, "/README.md"))
	assert.Equal(t, "name = MY-APP\n", readAll(t, dest, "/my-app.conf"))
	assert.Equal(t, "package main\n", readAll(t, dest, "/cmd/my-app/main.go"))
}

func TestStampKeepsForeignPlaceholdersVerbatim(t *testing.T) {
	src := memfs.New()
	workflow := "runs-on: ${{ matrix.os }}\n"
	require.NoError(t, util.WriteFile(src, "/.github/workflows/ci.yml", []byte(workflow), 0644))
	dest := memfs.New()

	err := Stamp(src, dict(map[string]string{"ProjectName": "my-app"}), dest)

	require.NoError(t, err)
	assert.Equal(t, workflow, readAll(t, dest, "/.github/workflows/ci.yml"))
}

func TestStampCopiesBinariesUntouched(t *testing.T) {
	src := memfs.New()
	png := append([]byte("\x89PNG\r\n\x1a\n"), []byte("{{.ProjectName}}")...)
	require.NoError(t, util.WriteFile(src, "/logo.png", png, 0644))
	dest := memfs.New()

	err := Stamp(src, dict(map[string]string{"ProjectName": "my-app"}), dest)

	require.NoError(t, err)
	assert.Equal(t, string(png), readAll(t, dest, "/logo.png"))
}

func TestStampStripsTemplateMetadata(t *testing.T) {
	src := memfs.New()
	require.NoError(t, util.WriteFile(src, "/"+DescriptorFile, []byte(`description = "meta"`), 0644))
	require.NoError(t, util.WriteFile(src, "/"+OverrideFile, []byte(`Port = "80"`), 0644))
	require.NoError(t, util.WriteFile(src, "/.git/HEAD", []byte("ref: refs/heads/main\n"), 0644))
	require.NoError(t, util.WriteFile(src, "/.gitignore", []byte("node_modules\n"), 0644))
	require.NoError(t, util.WriteFile(src, "/README.md", []byte("kept\n"), 0644))
	dest := memfs.New()

	err := Stamp(src, nil, dest)

	require.NoError(t, err)
	assert.Equal(t, "node_modules\n", readAll(t, dest, "/.gitignore"))
	assert.Equal(t, "kept\n", readAll(t, dest, "/README.md"))
	for _, gone := range []string{"/" + DescriptorFile, "/" + OverrideFile, "/.git/HEAD"} {
		_, statErr := dest.Stat(gone)
		assert.Error(t, statErr, gone)
	}
}

func TestStampReportsBrokenTemplates(t *testing.T) {
	src := memfs.New()
	require.NoError(t, util.WriteFile(src, "/broken.txt", []byte(`{{fail "no"}}`), 0644))

	err := Stamp(src, nil, memfs.New())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.txt")
}

func TestWriteTreeReportsCreatedFiles(t *testing.T) {
	src := memfs.New()
	require.NoError(t, util.WriteFile(src, "/a.txt", []byte("a"), 0644))
	require.NoError(t, util.WriteFile(src, "/sub/b.txt", []byte("b"), 0644))
	dest := memfs.New()

	var created []string
	err := WriteTree(src, dest, func(path string) { created = append(created, path) })

	require.NoError(t, err)
	assert.Equal(t, []string{"/a.txt", "/sub/b.txt"}, created)
	assert.Equal(t, "a", readAll(t, dest, "/a.txt"))
	assert.Equal(t, "b", readAll(t, dest, "/sub/b.txt"))
}
