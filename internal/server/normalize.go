package server

import (
	"net/http"
	"net/url"
	"strings"
)

// NormalizePath merges repeated slashes and appends a trailing slash before
// handing the request to next, so "/demo", "/demo/" and "//demo" route alike.
func NormalizePath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := normalize(r.URL.Path)
		if p == r.URL.Path {
			next.ServeHTTP(w, r)
			return
		}

		r2 := new(http.Request)
		*r2 = *r
		r2.URL = new(url.URL)
		*r2.URL = *r.URL
		r2.URL.Path = p
		r2.URL.RawPath = ""
		next.ServeHTTP(w, r2)
	})
}

func normalize(p string) string {
	if p == "" {
		return "/"
	}
	if strings.Contains(p, "//") {
		var b strings.Builder
		b.Grow(len(p))
		prev := byte(0)
		for i := 0; i < len(p); i++ {
			c := p[i]
			if c == '/' && prev == '/' {
				continue
			}
			b.WriteByte(c)
			prev = c
		}
		p = b.String()
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}
