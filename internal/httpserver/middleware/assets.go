package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"net/http"
	"strings"
)

// AssetsWithCache serves fsys and applies Cache-Control, Vary, and ETag
// handling. ETags are computed once up front; the embedded tree never changes
// at runtime. Mount it behind http.StripPrefix.
func AssetsWithCache(fsys fs.FS) http.Handler {
	etags := map[string]string{}
	_ = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil
		}
		sum := sha256.Sum256(data)
		etags["/"+path] = `W/"` + hex.EncodeToString(sum[:]) + `"`
		return nil
	})

	files := http.FileServer(http.FS(fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Accept-Encoding")
		w.Header().Set("Cache-Control", "public, max-age=604800, stale-while-revalidate=86400")
		p := r.URL.Path
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		if strings.HasSuffix(p, "/") {
			http.NotFound(w, r)
			return
		}
		if et := etags[p]; et != "" {
			w.Header().Set("ETag", et)
			if inm := r.Header.Get("If-None-Match"); inm != "" && inm == et {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}
