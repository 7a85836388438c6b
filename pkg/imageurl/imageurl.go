// Package imageurl normalizes product image references. Merchants paste
// Google Drive sharing links into the admin form; the storefront rewrites
// them into direct-view URLs so they render in an <img> tag.
package imageurl

import "regexp"

var (
	filePattern   = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)
	openPattern   = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)
	directPattern = regexp.MustCompile(`drive\.google\.com/uc\?export=view&id=`)
)

// Normalize converts a Google Drive sharing link into a direct image URL.
// URLs that are already direct, or that do not look like Drive links at
// all, pass through unchanged. An empty input stays empty.
func Normalize(url string) string {
	if url == "" {
		return ""
	}
	if directPattern.MatchString(url) {
		return url
	}

	fileID := extractFileID(url)
	if fileID == "" {
		return url
	}
	return "https://drive.google.com/uc?export=view&id=" + fileID
}

// NormalizeAll maps Normalize over a list of image references.
func NormalizeAll(urls []string) []string {
	if len(urls) == 0 {
		return nil
	}
	out := make([]string, len(urls))
	for i, url := range urls {
		out[i] = Normalize(url)
	}
	return out
}

func extractFileID(url string) string {
	if m := filePattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if m := openPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}
