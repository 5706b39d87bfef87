// Package npm checks whether a package version exists on an npm registry.
package npm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gh-release-changelog/gh-release-changelog/internal/version"
)

// DefaultRegistry is the public npm registry.
const DefaultRegistry = "https://registry.npmjs.org"

// DefaultTimeout bounds a single registry lookup.
const DefaultTimeout = 10 * time.Second

// Checker looks up package versions on a registry.
type Checker struct {
	// Registry is the registry base URL. Empty means DefaultRegistry.
	Registry string
	// HTTPClient is used for requests. Nil means a client with DefaultTimeout.
	HTTPClient *http.Client
}

// IsPublished reports whether name@version is available on the registry.
// An empty version asks for the package itself. A 404 answer means not
// published; any other non-200 status is an error.
func (c Checker) IsPublished(ctx context.Context, name, version string) (bool, error) {
	if name == "" {
		return false, fmt.Errorf("package name is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.versionURL(name, version), nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent())

	resp, err := c.client().Do(req)
	if err != nil {
		return false, fmt.Errorf("querying registry for %s: %w", Spec(name, version), err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("querying registry for %s: unexpected status code: %d", Spec(name, version), resp.StatusCode)
	}
}

func userAgent() string {
	return version.UserAgent()
}

func (c Checker) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}

// Spec formats name and version the way npm prints package specs.
func Spec(name, version string) string {
	if version == "" {
		return name
	}
	return name + "@" + version
}

// versionURL builds <registry>/<name>[/<version>]. The slash of a scoped
// name is escaped the way the npm CLI does.
func (c Checker) versionURL(name, version string) string {
	registry := c.Registry
	if registry == "" {
		registry = DefaultRegistry
	}
	u := strings.TrimRight(registry, "/") + "/" + url.PathEscape(name)
	if version != "" {
		u += "/" + url.PathEscape(version)
	}
	return u
}
