package httpapi

import (
	"net"
	"net/http"
	"strings"
)

// normalizeBasePath turns a configured mount point into "" or "/x/y".
func normalizeBasePath(value string) string {
	path := strings.TrimSpace(value)
	if path == "" || path == "/" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	path = strings.TrimRight(path, "/")
	if path == "/" {
		return ""
	}
	return path
}

// buildBaseHref is the <base href> pages use so relative asset and API
// links resolve under the mount point.
func buildBaseHref(baseURL, basePath string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	path := normalizeBasePath(basePath)
	if base == "" && path == "" {
		return ""
	}
	if base == "" {
		return ensureTrailingSlash(path)
	}
	return ensureTrailingSlash(base + path)
}

func ensureTrailingSlash(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}

// siteURL is where visitors reach the site. A configured base URL wins over
// the listener address; wildcard listeners are reported as localhost.
func siteURL(baseURL, basePath string, addr net.Addr) string {
	if href := buildBaseHref(baseURL, basePath); strings.Contains(href, "://") {
		return href
	}
	host := "localhost"
	port := ""
	if addr != nil {
		h, p, err := net.SplitHostPort(addr.String())
		if err == nil {
			port = p
			if ip := net.ParseIP(h); h != "" && (ip == nil || !ip.IsUnspecified()) {
				host = h
			}
		}
	}
	if port != "" {
		host = net.JoinHostPort(host, port)
	}
	return "http://" + host + normalizeBasePath(basePath) + "/"
}

// mountPath is the path the site answers under, "/" when unmounted.
func (s *Server) mountPath() string {
	return s.basePath + "/"
}

// mountBasePath serves handler under prefix and redirects the bare prefix
// to its trailing-slash form.
func mountBasePath(prefix string, handler http.Handler) http.Handler {
	if prefix == "" {
		return handler
	}
	root := http.NewServeMux()
	root.Handle(prefix+"/", http.StripPrefix(prefix, handler))
	root.HandleFunc(prefix, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != prefix {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, prefix+"/", http.StatusTemporaryRedirect)
	})
	return root
}
