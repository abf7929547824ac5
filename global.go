package resman

import (
	"sync"

	"github.com/justengel/resman/reader"
)

var (
	globalMu sync.RWMutex
	global   = NewManager()

	readerMu      sync.RWMutex
	defaultReader reader.Reader = reader.NewOS(".")
)

// Default returns the current process-wide manager.
func Default() *Manager {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// SetDefault installs m as the process-wide manager and returns the previous
// one. Concurrent writers must coordinate; the slot itself is guarded but
// the managers it points at are not.
func SetDefault(m *Manager) *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()
	prev := global
	global = m
	return prev
}

// WithTemporary installs m as the process-wide manager for the duration of
// fn, restoring the previous manager on every exit path, including error
// returns and panics.
func WithTemporary(m *Manager, fn func() error) error {
	prev := SetDefault(m)
	defer SetDefault(prev)
	return fn()
}

// DefaultReader returns the byte reader used by managers and resources that
// were not given one explicitly. It resolves packages against the current
// working directory.
func DefaultReader() reader.Reader {
	readerMu.RLock()
	defer readerMu.RUnlock()
	return defaultReader
}

// SetDefaultReader replaces the package default byte reader.
func SetDefaultReader(rd reader.Reader) {
	readerMu.Lock()
	defaultReader = rd
	readerMu.Unlock()
}

// Register registers (pkg, name) into the default manager.
func Register(pkg, name string, opts ...ResourceOption) *Resource {
	return Default().Register(pkg, name, opts...)
}

// RegisterData registers a synthetic resource into the default manager.
func RegisterData(data []byte, pkg, name string, opts ...ResourceOption) *Resource {
	return Default().RegisterData(data, pkg, name, opts...)
}

// RegisterDirectory bulk-registers a directory into the default manager.
func RegisterDirectory(pkg, subdir string, opts ...ScanOption) ([]*Resource, error) {
	return Default().RegisterDirectory(pkg, subdir, opts...)
}

// Unregister removes the most recent match for key from the default manager.
func Unregister(key string) error {
	return Default().Unregister(key)
}

// Has reports whether key resolves in the default manager.
func Has(key string) bool {
	return Default().Has(key)
}

// Get resolves key in the default manager.
func Get(key string, opts ...LookupOption) (*Resource, error) {
	return Default().Get(key, opts...)
}

// Binary resolves key in the default manager and returns its payload.
func Binary(key string, opts ...LookupOption) ([]byte, error) {
	return Default().Binary(key, opts...)
}

// Text resolves key in the default manager and returns its decoded payload.
func Text(key string, opts ...LookupOption) (string, error) {
	return Default().Text(key, opts...)
}

// All flattens the default manager.
func All(includeLinked, allowDuplicates bool) []*Resource {
	return Default().All(includeLinked, allowDuplicates)
}

// Clear empties the default manager's resource sequence.
func Clear() {
	Default().Clear()
}

// AddLinked links a sub-manager to the default manager.
func AddLinked(sub *Manager) {
	Default().AddLinked(sub)
}

// RemoveLinked unlinks a sub-manager from the default manager.
func RemoveLinked(sub *Manager) bool {
	return Default().RemoveLinked(sub)
}
