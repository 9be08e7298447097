package internal

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/coveooss/gotemplate/v3/collections"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5"
)

func readFile(bfs billy.Filesystem, name string) (string, error) {
	file, err := bfs.Open(name)
	if err != nil {
		return "", fmt.Errorf("cannot open file %s", name)
	}
	defer file.Close()

	buf, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("cannot read file %s", name)
	}
	return string(buf), nil
}

// isIgnored matches name against IgnoredNames, either exactly or as a
// descendant. "/.git" is ignored, "/.gitignore" is not.
func isIgnored(name string) bool {
	for _, prefix := range IgnoredNames {
		if name == prefix || strings.HasPrefix(name, prefix+"/") {
			return true
		}
	}
	return false
}

// isText reports whether content looks like something a template author
// could have written placeholders into. Detection walks the MIME parent
// chain so that sources, configs and scripts all count as text.
func isText(content []byte) bool {
	for mime := mimetype.Detect(content); mime != nil; mime = mime.Parent() {
		if mime.Is("text/plain") {
			return true
		}
	}
	return false
}

// Stamp renders the fetched template in src into dest. Relative paths and
// text file contents are both treated as templates over values; binary files
// are copied untouched, and text that does not parse as a template is kept
// verbatim. Entries named by IgnoredNames stay behind.
func Stamp(src billy.Filesystem, values collections.IDictionary, dest billy.Filesystem) error {
	env := map[string]interface{}{}
	if values != nil {
		env = values.AsMap()
	}

	return Walk(src, "/", func(filePath string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if isIgnored(filePath) {
			return nil
		}

		target, err := renderString(filePath, filePath, env)
		if err != nil {
			// A path that does not parse cannot be named, so the entry is
			// dropped.
			return nil
		}

		if info.IsDir() {
			return dest.MkdirAll(target, 0755)
		}

		content, err := readFile(src, filePath)
		if err != nil {
			return err
		}

		out := []byte(content)
		if isText(out) {
			tpl, perr := template.New(path.Base(filePath)).Funcs(sprig.TxtFuncMap()).Parse(content)
			if perr == nil {
				var rendered bytes.Buffer
				if xerr := tpl.Execute(&rendered, env); xerr != nil {
					return fmt.Errorf("cannot render %s: %v", filePath, xerr)
				}
				out = rendered.Bytes()
			}
		}

		file, err := dest.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, info.Mode())
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = file.Write(out)
		return err
	})
}

// WriteTree copies every entry of src into dest, reporting each created
// file.
func WriteTree(src billy.Filesystem, dest billy.Filesystem, report func(path string)) error {
	return Walk(src, "/", func(filePath string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return dest.MkdirAll(filePath, 0755)
		}

		in, err := src.Open(filePath)
		if err != nil {
			return fmt.Errorf("cannot copy %s: %w", filePath, err)
		}
		defer in.Close()

		out, err := dest.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_TRUNC, info.Mode())
		if err != nil {
			return fmt.Errorf("cannot create %s: %w", filePath, err)
		}
		defer out.Close()

		if _, err := io.Copy(out, in); err != nil {
			return fmt.Errorf("cannot write %s: %w", filePath, err)
		}
		if report != nil {
			report(filePath)
		}
		return nil
	})
}

func renderString(name, data string, env map[string]interface{}) (string, error) {
	tpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Parse(data)
	if err != nil {
		return "", err
	}
	var output bytes.Buffer
	if err := tpl.Execute(&output, env); err != nil {
		return "", err
	}
	return output.String(), nil
}
