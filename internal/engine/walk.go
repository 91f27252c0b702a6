package engine

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	gitignore "github.com/sabhiram/go-gitignore"
)

// typicalExcludeDirs are skipped during directory walks when
// Options.ExcludeTypical is set.
var typicalExcludeDirs = map[string]struct{}{
	"node_modules":     {},
	"vendor":           {},
	"dist":             {},
	"build":            {},
	"target":           {},
	"bower_components": {},
	"__pycache__":      {},
	".venv":            {},
	".next":            {},
	".nuxt":            {},
	".svelte-kit":      {},
}

var typicalExcludeFiles = []string{"*.min.js", "*.min.css", "*.map"}

// ignoreMatcher answers .gitignore questions for one walk root. Compiled
// files are cached per directory; a missing .gitignore caches as nil.
type ignoreMatcher struct {
	root string

	mu    sync.Mutex
	cache map[string]*gitignore.GitIgnore
}

func newIgnoreMatcher(root string) *ignoreMatcher {
	return &ignoreMatcher{root: root, cache: make(map[string]*gitignore.GitIgnore)}
}

func (m *ignoreMatcher) load(dir string) *gitignore.GitIgnore {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gi, ok := m.cache[dir]; ok {
		return gi
	}
	gi, err := gitignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		gi = nil
	}
	m.cache[dir] = gi
	return gi
}

// ignored checks abs against every .gitignore between its directory and the
// walk root. Paths are matched relative to the directory holding the file.
func (m *ignoreMatcher) ignored(abs string, isDir bool) bool {
	dir := filepath.Dir(abs)
	for {
		if gi := m.load(dir); gi != nil {
			rel, err := filepath.Rel(dir, abs)
			if err == nil {
				rel = filepath.ToSlash(rel)
				if isDir {
					rel += "/"
				}
				if gi.MatchesPath(rel) {
					return true
				}
			}
		}
		if dir == m.root {
			return false
		}
		parent := filepath.Dir(dir)
		if parent == dir || !strings.HasPrefix(parent, m.root) {
			return false
		}
		dir = parent
	}
}

// collectFiles expands opts.Paths into a sorted, de-duplicated file list.
// Files named explicitly are always kept; directory walks honour .gitignore,
// skip hidden entries and, when asked, typical vendor trees. Excludes are
// gitignore-style patterns applied to every path.
func collectFiles(opts Options) ([]string, []FileError) {
	var excl *gitignore.GitIgnore
	patterns := normalizeList(opts.Excludes)
	if opts.ExcludeTypical {
		patterns = append(patterns, typicalExcludeFiles...)
	}
	if len(patterns) > 0 {
		excl = gitignore.CompileIgnoreLines(patterns...)
	}
	excluded := func(p string) bool {
		return excl != nil && excl.MatchesPath(filepath.ToSlash(p))
	}

	seen := make(map[string]struct{})
	var files []string
	var errs []FileError
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	paths := normalizeList(opts.Paths)
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			errs = append(errs, newFileError(root, "stat", err))
			continue
		}
		if !info.IsDir() {
			if !excluded(root) {
				add(root)
			}
			continue
		}
		absRoot, err := filepath.Abs(root)
		if err != nil {
			errs = append(errs, newFileError(root, "abs", err))
			continue
		}
		ign := newIgnoreMatcher(absRoot)
		walkErr := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				errs = append(errs, newFileError(p, "walk", err))
				if d != nil && d.IsDir() && errors.Is(err, os.ErrPermission) {
					return filepath.SkipDir
				}
				return nil
			}
			if p == root {
				return nil
			}
			rel, _ := filepath.Rel(root, p)
			if d.IsDir() {
				name := d.Name()
				if strings.HasPrefix(name, ".") && name != ".github" {
					return filepath.SkipDir
				}
				if _, ok := typicalExcludeDirs[name]; ok && opts.ExcludeTypical {
					return filepath.SkipDir
				}
				if excluded(rel + "/") {
					return filepath.SkipDir
				}
				if abs, err := filepath.Abs(p); err == nil && ign.ignored(abs, true) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".") || excluded(rel) {
				return nil
			}
			if abs, err := filepath.Abs(p); err == nil && ign.ignored(abs, false) {
				return nil
			}
			add(p)
			return nil
		})
		if walkErr != nil {
			errs = append(errs, newFileError(root, "walk", walkErr))
		}
	}
	sort.Strings(files)
	return files, errs
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
