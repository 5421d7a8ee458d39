package core

import (
	"net/http"
	"path"

	"flaresentinel/internal/types"
)

// StaticHandler serves the frontend from Config.Server.StaticDir. A directory
// is served only through its index.html; listings are never produced.
// http.Dir rejects paths that escape the root.
func (s *Server) StaticHandler() http.Handler {
	dir := "web"
	if s.Config != nil && s.Config.Server.StaticDir != "" {
		dir = s.Config.Server.StaticDir
	}
	root := http.Dir(dir)
	files := http.FileServer(root)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if !exists(root, name) {
			Error(w, r, types.NewAppError(types.ErrCodeNotFoundResource, "resource not found", nil))
			return
		}
		files.ServeHTTP(w, r)
	})
}

// exists reports whether name is a regular file, or a directory that has an
// index.html.
func exists(root http.FileSystem, name string) bool {
	f, err := root.Open(name)
	if err != nil {
		return false
	}
	info, err := f.Stat()
	_ = f.Close()
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}

	idx, err := root.Open(path.Join(name, "index.html"))
	if err != nil {
		return false
	}
	_ = idx.Close()
	return true
}
