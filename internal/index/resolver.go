package index

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

// ResolveRequest carries the document identifiers a resolver can build a URL
// from.
type ResolveRequest struct {
	Slug       string
	SourcePath string
}

// URLResolver maps a resolved document onto the URL the rendered site will
// serve it at.
type URLResolver interface {
	Resolve(ctx context.Context, req ResolveRequest) (string, error)
}

// PathResolver derives URLs directly from document slugs, mirroring the
// directory layout of the content root. It is the default when no route
// manager is configured.
type PathResolver struct {
	// BasePath is prepended to every URL, e.g. "/docs".
	BasePath string
}

// Resolve satisfies URLResolver.
func (r PathResolver) Resolve(_ context.Context, req ResolveRequest) (string, error) {
	slug := strings.Trim(req.Slug, "/")
	if slug == "" {
		return "", nil
	}
	base := strings.TrimRight(r.BasePath, "/")
	return base + "/" + path.Clean(slug) + "/", nil
}

// URLKitResolverOptions configures the go-urlkit backed resolver.
type URLKitResolverOptions struct {
	Manager      *urlkit.RouteManager
	DefaultGroup string
	DefaultRoute string
	SlugParam    string
}

// URLKitResolver resolves navigation URLs using a go-urlkit RouteManager.
type URLKitResolver struct {
	manager      *urlkit.RouteManager
	defaultGroup string
	defaultRoute string
	slugParam    string

	groupCache map[string]*urlkit.Group
	mu         sync.RWMutex
}

// NewURLKitResolver constructs a resolver backed by go-urlkit.
func NewURLKitResolver(opts URLKitResolverOptions) *URLKitResolver {
	if opts.SlugParam == "" {
		opts.SlugParam = "slug"
	}
	return &URLKitResolver{
		manager:      opts.Manager,
		defaultGroup: strings.TrimSpace(opts.DefaultGroup),
		defaultRoute: strings.TrimSpace(opts.DefaultRoute),
		slugParam:    opts.SlugParam,
		groupCache:   make(map[string]*urlkit.Group),
	}
}

// Resolve builds a URL using the configured route manager.
func (r *URLKitResolver) Resolve(ctx context.Context, req ResolveRequest) (string, error) {
	_ = ctx // reserved for future use
	if r == nil || r.manager == nil {
		return "", nil
	}
	if r.defaultGroup == "" || r.defaultRoute == "" {
		return "", nil
	}

	group, err := r.groupForPath(r.defaultGroup)
	if err != nil || group == nil {
		return "", err
	}

	builder, err := r.safeBuilder(group, r.defaultRoute)
	if err != nil {
		return "", err
	}

	builder.WithParam(r.slugParam, strings.Trim(req.Slug, "/"))

	url, err := builder.Build()
	if err != nil {
		return "", err
	}
	return url, nil
}

func (r *URLKitResolver) groupForPath(groupPath string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groupCache[groupPath]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(groupPath, ".")
	if len(parts) == 0 {
		return nil, fmt.Errorf("index: invalid route group path %q", groupPath)
	}

	root, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	current := root
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groupCache[groupPath] = current
	r.mu.Unlock()
	return current, nil
}

func (r *URLKitResolver) safeBuilder(group *urlkit.Group, route string) (*urlkit.Builder, error) {
	if group == nil {
		return nil, fmt.Errorf("index: urlkit group is nil")
	}
	var (
		builder *urlkit.Builder
		err     error
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("index: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}

func lookupGroup(manager *urlkit.RouteManager, name string) (*urlkit.Group, error) {
	if manager == nil {
		return nil, fmt.Errorf("index: route manager not configured")
	}
	var (
		group *urlkit.Group
		err   error
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("index: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func lookupChildGroup(parent *urlkit.Group, name string) (*urlkit.Group, error) {
	if parent == nil {
		return nil, fmt.Errorf("index: parent group is nil")
	}
	var (
		group *urlkit.Group
		err   error
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("index: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, err
}
