// Package origin resolves a template reference ("originId:templateName")
// to a downloadable archive and fetches its bytes, consulting an optional
// byte-level cache.
package origin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOriginID is used when a templateReference carries no "origin:"
// prefix.
const DefaultOriginID = "github"

// DefaultTimeout bounds archive fetch requests when the caller supplies
// none.
const DefaultTimeout = 90 * time.Second

// Location is what a Handler resolves a template name to.
type Location struct {
	URL     string
	Headers map[string]string
}

// Handler looks up the archive location for a template name. Built-in
// handlers are registered for "github" and "gitlab"; callers may supply
// their own via Fetcher.Handlers to override or extend the set.
type Handler func(templateName string) (Location, error)

// GitHub resolves "owner/repo[@ref]" to a codeload.github.com tarball URL.
// ref defaults to "main".
func GitHub(templateName string) (Location, error) {
	owner, repo, ref, err := splitOwnerRepoRef(templateName)
	if err != nil {
		return Location{}, fmt.Errorf("origin: github: %w", err)
	}
	return Location{
		URL: fmt.Sprintf("https://codeload.github.com/%s/%s/tar.gz/refs/heads/%s", owner, repo, ref),
	}, nil
}

// GitLab resolves "owner/repo[@ref]" to a gitlab.com archive URL.
func GitLab(templateName string) (Location, error) {
	owner, repo, ref, err := splitOwnerRepoRef(templateName)
	if err != nil {
		return Location{}, fmt.Errorf("origin: gitlab: %w", err)
	}
	return Location{
		URL: fmt.Sprintf("https://gitlab.com/%s/%s/-/archive/%s/%s-%s.tar.gz", owner, repo, ref, repo, ref),
	}, nil
}

func splitOwnerRepoRef(templateName string) (owner, repo, ref string, err error) {
	ref = "main"
	name := templateName
	if idx := strings.LastIndex(name, "@"); idx != -1 {
		ref = name[idx+1:]
		name = name[:idx]
	}
	parts := strings.SplitN(name, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", "", fmt.Errorf("expected \"owner/repo\", got %q", templateName)
	}
	return parts[0], parts[1], ref, nil
}

// Builtin maps origin id to its Handler.
var Builtin = map[string]Handler{
	DefaultOriginID: GitHub,
	"gitlab":        GitLab,
}

// Cache persists fetched archive bytes across runs, keyed by URL.
type Cache interface {
	Get(url string) ([]byte, bool)
	Set(url string, data []byte)
}

// Fetcher resolves a templateReference and retrieves its archive bytes.
type Fetcher struct {
	Handlers map[string]Handler
	Client   *http.Client
	Cache    Cache

	// DefaultOrigin overrides DefaultOriginID for templateReferences that
	// carry no "origin:" prefix. Empty means DefaultOriginID.
	DefaultOrigin string
}

// NewFetcher returns a Fetcher with the built-in handlers and a client
// bounded by DefaultTimeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		Handlers: Builtin,
		Client:   &http.Client{Timeout: DefaultTimeout},
	}
}

// Split parses "originId:templateName" into its parts, defaulting originId
// to DefaultOriginID when templateReference carries no ":".
func Split(templateReference string) (originID, templateName string) {
	if idx := strings.Index(templateReference, ":"); idx != -1 {
		return templateReference[:idx], templateReference[idx+1:]
	}
	return DefaultOriginID, templateReference
}

// Fetch resolves templateReference via the matching Handler and returns
// the archive bytes, consulting f.Cache when set.
func (f *Fetcher) Fetch(ctx context.Context, templateReference string) ([]byte, error) {
	originID, templateName := Split(templateReference)
	if f.DefaultOrigin != "" && !strings.Contains(templateReference, ":") {
		originID = f.DefaultOrigin
	}

	handler, ok := f.Handlers[originID]
	if !ok {
		return nil, fmt.Errorf("origin: unknown origin %q", originID)
	}

	loc, err := handler(templateName)
	if err != nil {
		return nil, err
	}

	if f.Cache != nil {
		if cached, ok := f.Cache.Get(loc.URL); ok {
			return cached, nil
		}
	}

	data, err := f.download(ctx, loc)
	if err != nil {
		return nil, err
	}

	if f.Cache != nil {
		f.Cache.Set(loc.URL, data)
	}
	return data, nil
}

func (f *Fetcher) download(ctx context.Context, loc Location) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("origin: build request: %w", err)
	}
	for k, v := range loc.Headers {
		req.Header.Set(k, v)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("origin: fetch %s: %w", loc.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("origin: fetch %s: unexpected status %s", loc.URL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("origin: read body from %s: %w", loc.URL, err)
	}
	return data, nil
}
