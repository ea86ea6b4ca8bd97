// Package assets отдаёт статический фронтенд: index.html на "/" и
// "/logs", любой другой вшитый файл по его пути, 404 при отсутствии.
// Полноценный фронтенд — не предмет этого репозитория; задача пакета —
// лишь доставить index.html и его немногочисленные файлы на провод.
package assets

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// Handler возвращает http.Handler, обслуживающий вшитое статическое
// дерево. "/" и "/logs" оба отдают index.html; всё остальное — по пути
// относительно директории static/, 404 при отсутствии.
func Handler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// staticFS формируется go:embed на этапе сборки; отсутствие
		// поддиректории "static" — ошибка сборки, а не рантайма.
		panic("assets: static subdirectory missing: " + err.Error())
	}
	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// http.FileServer отвечает 301 на любой путь, оканчивающийся на
		// "/index.html", поэтому index.html отдаётся через корень дерева:
		// для "/" FileServer сам подставляет index.html директории.
		if r.URL.Path == "/logs" || r.URL.Path == "/index.html" {
			r = cloneWithPath(r, "/")
		}
		fileServer.ServeHTTP(w, r)
	})
}

func cloneWithPath(r *http.Request, path string) *http.Request {
	clone := r.Clone(r.Context())
	clone.URL.Path = path
	return clone
}
