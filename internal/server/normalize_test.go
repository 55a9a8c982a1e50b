package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"", "/"},
		{"/", "/"},
		{"//", "/"},
		{"/demo", "/demo/"},
		{"/demo/", "/demo/"},
		{"//demo", "/demo/"},
		{"/demo//", "/demo/"},
		{"/a//b///c", "/a/b/c/"},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePathLeavesOriginalRequest(t *testing.T) {
	t.Parallel()
	var seen string
	h := NormalizePath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path
	}))

	req := httptest.NewRequest(http.MethodGet, "/demo", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "/demo/" {
		t.Errorf("handler saw %q, want %q", seen, "/demo/")
	}
	if req.URL.Path != "/demo" {
		t.Errorf("original request mutated to %q", req.URL.Path)
	}
}

func FuzzNormalize(f *testing.F) {
	f.Add("/")
	f.Add("/demo")
	f.Add("//demo//x")
	f.Add("")
	f.Fuzz(func(t *testing.T, p string) {
		got := normalize(p)
		if !strings.HasSuffix(got, "/") {
			t.Errorf("normalize(%q) = %q, missing trailing slash", p, got)
		}
		if strings.Contains(got, "//") {
			t.Errorf("normalize(%q) = %q, contains repeated slash", p, got)
		}
		if normalize(got) != got {
			t.Errorf("normalize not idempotent for %q: %q then %q", p, got, normalize(got))
		}
	})
}
