package resman

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/justengel/resman/reader"
)

// ResourceOption configures a resource at registration time.
type ResourceOption func(*Resource)

// WithAlias sets the resource's alias derivation rule.
func WithAlias(a Alias) ResourceOption {
	return func(r *Resource) { r.rawAlias = a }
}

// WithData attaches inline bytes; the resource needs no backing file.
func WithData(data []byte) ResourceOption {
	return func(r *Resource) { r.data = data }
}

// WithText attaches inline text; the resource needs no backing file.
func WithText(text string) ResourceOption {
	return func(r *Resource) {
		r.text = text
		r.hasText = true
	}
}

// WithPath attaches an already-materialized external file path. The path is
// used directly by AsFile and read from for Bytes.
func WithPath(p string) ResourceOption {
	return func(r *Resource) { r.extPath = p }
}

// WithMetadata merges entries into the resource's metadata bag.
func WithMetadata(meta map[string]any) ResourceOption {
	return func(r *Resource) {
		if r.metadata == nil {
			r.metadata = make(map[string]any, len(meta))
		}
		for k, v := range meta {
			r.metadata[k] = v
		}
	}
}

// ManagerOption configures a manager at construction time.
type ManagerOption func(*Manager)

// WithReader sets the byte reader the manager's resources resolve through.
func WithReader(rd reader.Reader) ManagerOption {
	return func(m *Manager) { m.reader = rd }
}

// WithTracer enables lookup/scan/materialization spans on the manager.
func WithTracer(tracer trace.Tracer) ManagerOption {
	return func(m *Manager) { m.tracer = tracer }
}

// WithResources seeds the manager with pre-built resources.
func WithResources(resources ...*Resource) ManagerOption {
	return func(m *Manager) {
		for _, res := range resources {
			_ = m.Add(res)
		}
	}
}

// LookupOption refines a Get, Binary or Text call.
type LookupOption func(*lookupOptions)

type lookupOptions struct {
	fallbackKey string
	fallbackRes *Resource
	defRes      *Resource
	defBytes    []byte
	defText     string
	hasDefRes   bool
	hasDefBytes bool
	hasDefText  bool
	textOpts    reader.TextOptions
}

// WithFallback retries the lookup under another key before giving up.
func WithFallback(key string) LookupOption {
	return func(o *lookupOptions) { o.fallbackKey = key }
}

// WithFallbackResource uses the given resource when the key is not found.
func WithFallbackResource(res *Resource) LookupOption {
	return func(o *lookupOptions) { o.fallbackRes = res }
}

// WithDefault suppresses ErrResourceNotFound and returns the given resource.
func WithDefault(res *Resource) LookupOption {
	return func(o *lookupOptions) {
		o.defRes = res
		o.hasDefRes = true
	}
}

// WithDefaultBytes makes Binary return the given raw bytes, unchanged, when
// the key and fallback match nothing.
func WithDefaultBytes(b []byte) LookupOption {
	return func(o *lookupOptions) {
		o.defBytes = b
		o.hasDefBytes = true
	}
}

// WithDefaultText makes Text return the given raw string, unchanged, when
// the key and fallback match nothing.
func WithDefaultText(s string) LookupOption {
	return func(o *lookupOptions) {
		o.defText = s
		o.hasDefText = true
	}
}

// WithTextOptions sets the encoding and error policy for Text lookups.
func WithTextOptions(opts reader.TextOptions) LookupOption {
	return func(o *lookupOptions) { o.textOpts = opts }
}

func applyLookupOptions(opts []LookupOption) lookupOptions {
	var o lookupOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
