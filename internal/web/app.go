package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
)

//go:embed templates assets
var content embed.FS

const assetPrefix = "/assets/"

var indexTmpl = template.Must(template.ParseFS(content, "templates/index.html"))

// ビューアの CSP（インラインスクリプトとインラインスタイルを許可しない）
const viewerCSP = "default-src 'none'; style-src 'self'; script-src 'self'; img-src 'self'; connect-src 'self'; form-action 'self'; base-uri 'none'"

// mountViewer serves the single-page viewer at / and its files under /assets/.
func mountViewer(mux *http.ServeMux) {
	assets, err := fs.Sub(content, "assets")
	if err != nil {
		panic(err)
	}
	files := http.StripPrefix(assetPrefix, http.FileServer(http.FS(assets)))
	mux.Handle(assetPrefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	}))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		h := w.Header()
		h.Set("Content-Type", "text/html; charset=utf-8")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", viewerCSP)
		if err := RenderIndex(w); err != nil {
			http.Error(w, "template rendering failed", http.StatusInternalServerError)
		}
	})
}

// RenderIndex writes the viewer page.
func RenderIndex(w io.Writer) error {
	return indexTmpl.Execute(w, struct{ StylesPath, ScriptPath string }{
		StylesPath: assetPrefix + "styles.css",
		ScriptPath: assetPrefix + "ui.js",
	})
}
