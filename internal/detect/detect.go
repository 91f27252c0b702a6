// Package detect names the language of a document from its path and, when
// the path says nothing, its shebang line. The tables only cover languages the
// rule catalogue and rule packs target; anything else is reported as unknown.
package detect

import (
	"bytes"
	"path/filepath"
	"strings"
)

type Info struct {
	Name string
}

func FromPathAndContent(p string, data []byte) Info {
	if name := detectByPath(p); name != "" {
		return Info{Name: name}
	}
	if shebang := detectByShebang(data); shebang != "" {
		return Info{Name: shebang}
	}
	return Info{Name: ""}
}

func detectByPath(p string) string {
	base := strings.ToLower(filepath.Base(p))
	if lang, ok := basenameLanguages[base]; ok {
		return lang
	}
	ext := filepath.Ext(base)
	if ext == "" {
		return ""
	}
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	// foo.sql.tmpl, foo.js.erb: fall back to the inner extension.
	stem := strings.TrimSuffix(base, ext)
	if lang, ok := extensionLanguages[filepath.Ext(stem)]; ok {
		return lang
	}
	return ""
}

func detectByShebang(data []byte) string {
	if len(data) == 0 || !bytes.HasPrefix(data, []byte("#!")) {
		return ""
	}
	end := bytes.IndexByte(data, '\n')
	if end == -1 {
		end = len(data)
	}
	line := strings.ToLower(string(data[:end]))
	for _, sb := range shebangLanguages {
		if strings.Contains(line, sb.key) {
			return sb.lang
		}
	}
	return ""
}

// NormalizeLangName maps editor language ids and common aliases to the
// canonical names used by rule language filters. Names that are neither
// canonical nor aliases come back lower-cased and trimmed.
func NormalizeLangName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ""
	}
	if canon, ok := langAliases[n]; ok {
		return canon
	}
	return n
}

// Known reports whether name, after normalization, is a language the
// detection tables can produce.
func Known(name string) bool {
	n := NormalizeLangName(name)
	if n == "" {
		return false
	}
	_, ok := knownLanguages[n]
	return ok
}

// CanonicalLangs normalizes and de-duplicates a language filter, keeping the
// first occurrence order.
func CanonicalLangs(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		norm := NormalizeLangName(raw)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

var basenameLanguages = map[string]string{
	"package.json":  "json",
	"tsconfig.json": "json",
	"jsconfig.json": "json",
	"gruntfile.js":  "javascript",
	"gulpfile.js":   "javascript",
}

var extensionLanguages = map[string]string{
	".js":     "javascript",
	".mjs":    "javascript",
	".cjs":    "javascript",
	".jsx":    "javascriptreact",
	".ts":     "typescript",
	".mts":    "typescript",
	".cts":    "typescript",
	".tsx":    "typescriptreact",
	".vue":    "vue",
	".svelte": "svelte",
	".html":   "html",
	".htm":    "html",
	".cshtml": "aspnet",
	".aspx":   "aspnet",
	".ascx":   "aspnet",
	".php":    "php",
	".cs":     "csharp",
	".java":   "java",
	".go":     "go",
	".py":     "python",
	".rb":     "ruby",
	".sql":    "sql",
	".tsql":   "sql",
	".psql":   "sql",
	".pgsql":  "sql",
	".plsql":  "sql",
	".prc":    "sql",
	".sqlx":   "sql",
	".json":   "json",
	".yaml":   "yaml",
	".yml":    "yaml",
	".md":     "markdown",
	".txt":    "text",
}

type shebang struct {
	key  string
	lang string
}

// First match wins: "ts-node" before "node", interpreters before "sh".
var shebangLanguages = []shebang{
	{"ts-node", "typescript"},
	{"node", "javascript"},
	{"deno", "javascript"},
	{"bun", "javascript"},
	{"python", "python"},
	{"ruby", "ruby"},
	{"php", "php"},
	{"bash", "shell"},
	{"zsh", "shell"},
	{"sh", "shell"},
}

var langAliases = map[string]string{
	"js":        "javascript",
	"mjs":       "javascript",
	"cjs":       "javascript",
	"node":      "javascript",
	"jsx":       "javascriptreact",
	"ts":        "typescript",
	"tsx":       "typescriptreact",
	"c#":        "csharp",
	"cs":        "csharp",
	"py":        "python",
	"rb":        "ruby",
	"htm":       "html",
	"razor":     "aspnet",
	"tsql":      "sql",
	"t-sql":     "sql",
	"mssql":     "sql",
	"plsql":     "sql",
	"pgsql":     "sql",
	"postgres":  "sql",
	"mysql":     "sql",
	"sh":        "shell",
	"bash":      "shell",
	"zsh":       "shell",
	"yml":       "yaml",
	"md":        "markdown",
	"plaintext": "text",
	"txt":       "text",
	"golang":    "go",
}

var knownLanguages = map[string]struct{}{
	"javascript":      {},
	"javascriptreact": {},
	"typescript":      {},
	"typescriptreact": {},
	"vue":             {},
	"svelte":          {},
	"html":            {},
	"aspnet":          {},
	"php":             {},
	"csharp":          {},
	"java":            {},
	"go":              {},
	"python":          {},
	"ruby":            {},
	"sql":             {},
	"shell":           {},
	"json":            {},
	"yaml":            {},
	"markdown":        {},
	"text":            {},
}
