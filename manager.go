package resman

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/justengel/resman/internal/log"
	"github.com/justengel/resman/internal/tracing"
	"github.com/justengel/resman/reader"
)

// Manager is an ordered collection of resources plus zero or more linked
// sub-managers. Order is significant: later registrations shadow earlier
// ones with the same alias, and recently linked managers are searched first.
//
// A Manager is plain shared mutable state with no internal locking;
// multi-goroutine callers must synchronize registration and lookup
// externally. The global default manager in this package is the only
// guarded slot.
type Manager struct {
	resources []*Resource
	linked    []*Manager
	reader    reader.Reader
	tracer    trace.Tracer
}

// NewManager creates a manager. Without WithReader it resolves resources
// through the package default reader.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add appends a pre-built resource. The resource's owner is set to this
// manager if it was previously unclaimed; it is never reassigned.
func (m *Manager) Add(res *Resource) error {
	if res == nil {
		return ErrNilResource
	}
	if res.owner == nil {
		res.owner = m
	}
	m.resources = append(m.resources, res)
	log.Debug(log.CatRegistry, "registered resource", "alias", res.Alias(), "package", res.pkg, "name", res.name)
	return nil
}

// Register constructs a resource for (pkg, name) and appends it.
func (m *Manager) Register(pkg, name string, opts ...ResourceOption) *Resource {
	res := NewResource(pkg, name, opts...)
	_ = m.Add(res)
	return res
}

// RegisterData registers a synthetic resource whose payload is the given
// bytes; no backing file is required or consulted.
func (m *Manager) RegisterData(data []byte, pkg, name string, opts ...ResourceOption) *Resource {
	opts = append([]ResourceOption{WithData(data)}, opts...)
	return m.Register(pkg, name, opts...)
}

// Unregister removes the most recently registered resource matching key from
// this manager only; linked managers are not searched. Returns
// ErrResourceNotFound when nothing matches.
func (m *Manager) Unregister(key string) error {
	for i := len(m.resources) - 1; i >= 0; i-- {
		if m.resources[i].Matches(key) {
			m.resources = append(m.resources[:i], m.resources[i+1:]...)
			log.Debug(log.CatRegistry, "unregistered resource", "key", key)
			return nil
		}
	}
	return fmt.Errorf("unregister %q: %w", key, ErrResourceNotFound)
}

// UnregisterResource removes the given resource by identity from this
// manager only.
func (m *Manager) UnregisterResource(res *Resource) error {
	if res == nil {
		return ErrNilResource
	}
	for i := len(m.resources) - 1; i >= 0; i-- {
		if m.resources[i] == res {
			m.resources = append(m.resources[:i], m.resources[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("unregister resource %q: %w", res.Alias(), ErrResourceNotFound)
}

// Has reports whether key resolves in this manager or, recursively, in any
// linked manager.
func (m *Manager) Has(key string) bool {
	_, ok := m.find(key)
	return ok
}

// find searches own resources in reverse insertion order, then linked
// managers in reverse link order, recursively. The reverse orders give
// deterministic last-registered-wins shadowing.
func (m *Manager) find(key string) (*Resource, bool) {
	for i := len(m.resources) - 1; i >= 0; i-- {
		if m.resources[i].Matches(key) {
			return m.resources[i], true
		}
	}
	for i := len(m.linked) - 1; i >= 0; i-- {
		if res, ok := m.linked[i].find(key); ok {
			return res, true
		}
	}
	return nil, false
}

// Get resolves key to a resource using the three-tier chain: the key itself,
// then the fallback (key or resource), then the default. With no default it
// fails with ErrResourceNotFound.
func (m *Manager) Get(key string, opts ...LookupOption) (*Resource, error) {
	o := applyLookupOptions(opts)
	res, tier, err := m.lookup(key, o)
	m.traceLookup(key, o.fallbackKey, tier, err)
	return res, err
}

func (m *Manager) lookup(key string, o lookupOptions) (*Resource, string, error) {
	if res, ok := m.find(key); ok {
		return res, "key", nil
	}
	if o.fallbackRes != nil {
		return o.fallbackRes, "fallback", nil
	}
	if o.fallbackKey != "" {
		if res, ok := m.find(o.fallbackKey); ok {
			return res, "fallback", nil
		}
	}
	if o.hasDefRes {
		return o.defRes, "default", nil
	}
	return nil, "miss", fmt.Errorf("resource %q: %w", key, ErrResourceNotFound)
}

// Binary resolves key via Get and returns the resource payload. A raw
// default supplied with WithDefaultBytes or WithDefaultText is returned
// unchanged when nothing matches.
func (m *Manager) Binary(key string, opts ...LookupOption) ([]byte, error) {
	o := applyLookupOptions(opts)
	res, tier, err := m.lookup(key, o)
	m.traceLookup(key, o.fallbackKey, tier, err)
	if err != nil {
		if o.hasDefBytes {
			return o.defBytes, nil
		}
		if o.hasDefText {
			return []byte(o.defText), nil
		}
		return nil, err
	}
	return res.Bytes()
}

// Text resolves key via Get and returns the decoded payload. A raw default
// supplied with WithDefaultText or WithDefaultBytes is returned unchanged
// when nothing matches.
func (m *Manager) Text(key string, opts ...LookupOption) (string, error) {
	o := applyLookupOptions(opts)
	res, tier, err := m.lookup(key, o)
	m.traceLookup(key, o.fallbackKey, tier, err)
	if err != nil {
		if o.hasDefText {
			return o.defText, nil
		}
		if o.hasDefBytes {
			return string(o.defBytes), nil
		}
		return "", err
	}
	return res.Text(o.textOpts)
}

// AddLinked links a sub-manager. Re-adding an existing link moves it to the
// end, so the most recently added link is searched first.
func (m *Manager) AddLinked(sub *Manager) {
	m.RemoveLinked(sub)
	m.linked = append(m.linked, sub)
}

// RemoveLinked unlinks a sub-manager. Reports whether it was linked.
func (m *Manager) RemoveLinked(sub *Manager) bool {
	for i, linked := range m.linked {
		if linked == sub {
			m.linked = append(m.linked[:i], m.linked[i+1:]...)
			return true
		}
	}
	return false
}

// Linked returns the linked sub-managers in link order.
func (m *Manager) Linked() []*Manager {
	return m.linked
}

// All flattens the manager into one sequence, shadowing resources first:
// own resources in reverse insertion order, then each linked manager in
// reverse link order. With allowDuplicates false, a resource is dropped when
// an already-collected entry matches its alias or package path.
func (m *Manager) All(includeLinked, allowDuplicates bool) []*Resource {
	flat := m.flatten(includeLinked)
	if allowDuplicates {
		return flat
	}

	seen := make(map[string]bool, len(flat)*2)
	out := make([]*Resource, 0, len(flat))
	for _, res := range flat {
		alias, pkgPath := res.Alias(), res.PackagePath()
		if seen[alias] || seen[pkgPath] {
			continue
		}
		seen[alias] = true
		seen[pkgPath] = true
		out = append(out, res)
	}
	return out
}

func (m *Manager) flatten(includeLinked bool) []*Resource {
	var out []*Resource
	for i := len(m.resources) - 1; i >= 0; i-- {
		out = append(out, m.resources[i])
	}
	if includeLinked {
		for i := len(m.linked) - 1; i >= 0; i-- {
			out = append(out, m.linked[i].flatten(true)...)
		}
	}
	return out
}

// Clear empties the resource sequence. Linked managers are untouched.
func (m *Manager) Clear() {
	m.resources = nil
}

// Len returns the number of directly registered resources.
func (m *Manager) Len() int {
	return len(m.resources)
}

// Reader returns the manager's byte reader, or the package default.
func (m *Manager) Reader() reader.Reader {
	if m.reader != nil {
		return m.reader
	}
	return DefaultReader()
}

func (m *Manager) traceLookup(key, fallback, tier string, err error) {
	if m.tracer == nil {
		return
	}
	_, span := m.tracer.Start(context.Background(), tracing.SpanLookup,
		trace.WithAttributes(
			attribute.String(tracing.AttrResourceKey, key),
			attribute.String(tracing.AttrLookupFallback, fallback),
			attribute.String(tracing.AttrLookupTier, tier),
		))
	if err != nil {
		span.SetAttributes(attribute.String(tracing.AttrErrorMessage, err.Error()))
	}
	span.End()
}
