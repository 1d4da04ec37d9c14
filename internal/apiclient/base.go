package apiclient

import (
	"net/url"
	"strings"
)

// DefaultRoot is the API root used outside preview and development hosts.
const DefaultRoot = "/api"

// DefaultPreviewHosts are hostname fragments that mark a preview or
// development deployment.
var DefaultPreviewHosts = []string{"vercel.app", "localhost"}

// ResolveRoot picks the API root for a site origin. Preview and development
// hosts talk to the API mounted on their own origin; everything else uses the
// relative DefaultRoot.
func ResolveRoot(origin string, previewHosts []string) string {
	parsed, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || parsed.Host == "" {
		return DefaultRoot
	}
	hostname := strings.ToLower(parsed.Hostname())
	for _, pattern := range previewHosts {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if strings.Contains(hostname, pattern) {
			return parsed.Scheme + "://" + parsed.Host + DefaultRoot
		}
	}
	return DefaultRoot
}

// absoluteRoot anchors a relative root on the upstream origin.
func absoluteRoot(root, upstream string) (*url.URL, error) {
	ref, err := url.Parse(root)
	if err != nil {
		return nil, err
	}
	if ref.IsAbs() {
		return ref, nil
	}
	base, err := url.Parse(strings.TrimSpace(upstream))
	if err != nil {
		return nil, err
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errUpstreamRequired
	}
	return base.ResolveReference(ref), nil
}
