package httpapi

import (
	"net"
	"testing"
)

func TestNormalizeBasePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"folio", "/folio"},
		{"/folio", "/folio"},
		{"/folio/", "/folio"},
	}
	for _, tc := range cases {
		if got := normalizeBasePath(tc.in); got != tc.want {
			t.Fatalf("normalizeBasePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildBaseHref(t *testing.T) {
	cases := []struct {
		baseURL  string
		basePath string
		want     string
	}{
		{"", "", ""},
		{"", "/folio", "/folio/"},
		{"", "folio", "/folio/"},
		{"https://example.com", "", "https://example.com/"},
		{"https://example.com/", "folio", "https://example.com/folio/"},
		{"https://example.com/base", "/x", "https://example.com/base/x/"},
	}
	for _, tc := range cases {
		if got := buildBaseHref(tc.baseURL, tc.basePath); got != tc.want {
			t.Fatalf("buildBaseHref(%q, %q) = %q, want %q", tc.baseURL, tc.basePath, got, tc.want)
		}
	}
}

func TestSiteURL(t *testing.T) {
	cases := []struct {
		baseURL  string
		basePath string
		addr     string
		want     string
	}{
		{"", "", "127.0.0.1:8080", "http://127.0.0.1:8080/"},
		{"", "/folio", "[::]:8080", "http://localhost:8080/folio/"},
		{"", "folio/", "0.0.0.0:9000", "http://localhost:9000/folio/"},
		{"https://example.com", "/folio", "0.0.0.0:8080", "https://example.com/folio/"},
	}
	for _, tc := range cases {
		addr, err := net.ResolveTCPAddr("tcp", tc.addr)
		if err != nil {
			t.Fatalf("resolve %q: %v", tc.addr, err)
		}
		if got := siteURL(tc.baseURL, tc.basePath, addr); got != tc.want {
			t.Fatalf("siteURL(%q, %q, %s) = %q, want %q", tc.baseURL, tc.basePath, tc.addr, got, tc.want)
		}
	}
}
