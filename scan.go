package resman

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"go.opentelemetry.io/otel/trace"

	"github.com/justengel/resman/internal/log"
	"github.com/justengel/resman/internal/tracing"
)

// ScanOption configures a RegisterDirectory call.
type ScanOption func(*scanOptions)

type scanOptions struct {
	recursive    bool
	extensions   map[string]bool
	excludeNames map[string]bool
	resourceOpts []ResourceOption
}

// WithRecursive descends into subdirectories.
func WithRecursive() ScanOption {
	return func(o *scanOptions) { o.recursive = true }
}

// WithExtensions restricts registration to files with one of the given
// extensions. A missing leading dot is added. Without this option all
// extensions qualify.
func WithExtensions(exts ...string) ScanOption {
	return func(o *scanOptions) {
		if o.extensions == nil {
			o.extensions = make(map[string]bool, len(exts))
		}
		for _, ext := range exts {
			if ext != "" && !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			o.extensions[ext] = true
		}
	}
}

// WithExclude skips files by leaf name.
func WithExclude(names ...string) ScanOption {
	return func(o *scanOptions) {
		if o.excludeNames == nil {
			o.excludeNames = make(map[string]bool, len(names))
		}
		for _, name := range names {
			o.excludeNames[name] = true
		}
	}
}

// WithResourceOptions applies the given options to every registered file.
func WithResourceOptions(opts ...ResourceOption) ScanOption {
	return func(o *scanOptions) {
		o.resourceOpts = append(o.resourceOpts, opts...)
	}
}

// RegisterDirectory bulk-registers every qualifying file under pkg/subdir
// and returns the new resources in directory-walk order.
//
// Both the extension allow-list and the exclusion list match the leaf file
// name only, never the relative path, including under WithRecursive. A file
// excluded at the top level is therefore also excluded at every depth. This
// name-based filtering is a long-standing behavior that callers rely on.
func (m *Manager) RegisterDirectory(pkg, subdir string, opts ...ScanOption) ([]*Resource, error) {
	var o scanOptions
	for _, opt := range opts {
		opt(&o)
	}

	fsys, err := m.Reader().Open(pkg)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", pkg, err)
	}

	root := "."
	if subdir != "" {
		root = path.Clean(normalizeSlashes(subdir))
	}

	var registered []*Resource
	registerFile := func(rel string) {
		res := m.Register(pkg, rel, o.resourceOpts...)
		registered = append(registered, res)
	}

	if subdir != "" || o.recursive {
		err = m.scanTree(fsys, root, o, registerFile)
	} else {
		err = m.scanFlat(fsys, root, o, registerFile)
	}
	if err != nil {
		return nil, fmt.Errorf("scan %s/%s: %w", pkg, subdir, err)
	}

	log.Debug(log.CatScan, "directory scan complete", "package", pkg, "subdir", subdir, "registered", len(registered))
	m.traceScan(pkg, subdir, o.recursive, len(registered))
	return registered, nil
}

// scanTree enumerates everything under root, descending when recursive.
func (m *Manager) scanTree(fsys fs.FS, root string, o scanOptions, register func(rel string)) error {
	if o.recursive {
		return fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if qualifies(d.Name(), o) {
				register(p)
			}
			return nil
		})
	}
	return m.scanFlat(fsys, root, o, register)
}

// scanFlat enumerates a single directory level.
func (m *Manager) scanFlat(fsys fs.FS, root string, o scanOptions, register func(rel string)) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !qualifies(entry.Name(), o) {
			continue
		}
		rel := entry.Name()
		if root != "." {
			rel = path.Join(root, entry.Name())
		}
		register(rel)
	}
	return nil
}

// qualifies applies the leaf-name exclusion and extension filters.
func qualifies(leaf string, o scanOptions) bool {
	if o.excludeNames[leaf] {
		return false
	}
	if len(o.extensions) == 0 {
		return true
	}
	return o.extensions[path.Ext(leaf)]
}

func (m *Manager) traceScan(pkg, subdir string, recursive bool, count int) {
	if m.tracer == nil {
		return
	}
	_, span := m.tracer.Start(context.Background(), tracing.SpanScan,
		trace.WithAttributes(
			attribute.String(tracing.AttrResourcePackage, pkg),
			attribute.String(tracing.AttrScanSubdir, subdir),
			attribute.Bool(tracing.AttrScanRecursive, recursive),
			attribute.Int(tracing.AttrScanCount, count),
		))
	span.End()
}
