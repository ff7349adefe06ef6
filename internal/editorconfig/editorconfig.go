// Package editorconfig resolves .editorconfig properties for a file.
package editorconfig

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ec "github.com/editorconfig/editorconfig-core-go/v2"

	"github.com/avitaltamir/quill/internal/debug"
)

// FileName is the name of the files searched for.
const FileName = ".editorconfig"

// DefaultTabWidth is used when no file sets a width.
const DefaultTabWidth = 4

// Properties are the settings the editor honors.
type Properties struct {
	IndentStyle string // "tab", "space" or ""
	IndentSize  int    // 0 when unset
	TabWidth    int    // 0 when unset
}

// EffectiveTabWidth returns the width a tab is rendered with.
func (p Properties) EffectiveTabWidth() int {
	switch {
	case p.TabWidth > 0:
		return p.TabWidth
	case p.IndentSize > 0:
		return p.IndentSize
	}
	return DefaultTabWidth
}

// Resolve collects the properties that apply to file. It looks for
// .editorconfig files from the file's directory upwards, stopping after a
// file declaring root = true or after the stop directory. Closer files win.
func Resolve(file, stop string) Properties {
	var dirs []string
	for dir := filepath.Dir(file); ; dir = filepath.Dir(dir) {
		dirs = append(dirs, dir)
		if dir == stop || dir == filepath.Dir(dir) {
			break
		}
	}

	// Collect from nearest to farthest, then apply farthest first.
	var files []*ec.Editorconfig
	var bases []string
	for _, dir := range dirs {
		cfg, err := load(filepath.Join(dir, FileName))
		if err != nil {
			continue
		}
		files = append(files, cfg)
		bases = append(bases, dir)
		if cfg.Root {
			break
		}
	}

	var props Properties
	for i := len(files) - 1; i >= 0; i-- {
		apply(&props, files[i], bases[i], file)
	}
	return props
}

func load(path string) (*ec.Editorconfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := ec.Parse(f)
	if err != nil {
		debug.Log(debug.EDITOR, "editorconfig unreadable", "path", path, "err", err)
		return nil, err
	}
	return cfg, nil
}

func apply(props *Properties, cfg *ec.Editorconfig, base, file string) {
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return
	}
	def, err := cfg.GetDefinitionForFilename(filepath.ToSlash(rel))
	if err != nil {
		debug.Log(debug.EDITOR, "editorconfig bad section", "dir", base, "err", err)
		return
	}
	if v := strings.ToLower(strings.TrimSpace(def.IndentStyle)); v != "" {
		props.IndentStyle = v
	}
	if n, err := strconv.Atoi(strings.TrimSpace(def.IndentSize)); err == nil && n > 0 {
		props.IndentSize = n
	}
	if def.TabWidth > 0 {
		props.TabWidth = def.TabWidth
	}
}

// Match reports whether the section glob matches rel, a slash-separated
// path relative to the directory holding the .editorconfig. Globs without a
// slash match the base name at any depth.
func Match(glob, rel string) (bool, error) {
	switch {
	case strings.HasPrefix(glob, "/"):
	case strings.Contains(glob, "/"):
		glob = "/" + glob
	default:
		glob = "/**/" + glob
	}
	return ec.FnmatchCase(glob, "/"+strings.TrimPrefix(rel, "/"))
}
