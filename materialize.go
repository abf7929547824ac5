package resman

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/justengel/resman/internal/log"
	"github.com/justengel/resman/internal/tracing"
)

// relocationEnv names the environment variable pointing at the directory a
// packaged executable's bundled data was relocated to.
const relocationEnv = "RESMAN_RESOURCE_DIR"

var (
	relocationMu   sync.RWMutex
	relocationBase string

	cleanupMu sync.Mutex
	cleanups  []func()
)

// SetRelocationBase overrides the directory probed when a packaged
// executable's resources were relocated next to the binary. An empty string
// restores the default (RESMAN_RESOURCE_DIR, then the executable directory).
func SetRelocationBase(dir string) {
	relocationMu.Lock()
	relocationBase = dir
	relocationMu.Unlock()
}

// RelocationBase returns the directory used by the materializer's relocation
// probes.
func RelocationBase() string {
	relocationMu.RLock()
	base := relocationBase
	relocationMu.RUnlock()
	if base != "" {
		return base
	}
	if env := os.Getenv(relocationEnv); env != "" {
		return env
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

// registerCleanup queues a release to run at Shutdown.
func registerCleanup(fn func()) {
	cleanupMu.Lock()
	cleanups = append(cleanups, fn)
	cleanupMu.Unlock()
}

// RegisterRelease queues an external release func to run at Shutdown.
// Collaborators that obtain scoped materializations directly from a byte
// reader use it to tie their cleanup to the engine's shutdown sequence.
func RegisterRelease(fn func()) {
	registerCleanup(fn)
}

// Shutdown releases every scoped materialization produced so far. Each
// release fires at most once; calling Shutdown again is a no-op for releases
// already run. Host applications should call it from their shutdown sequence.
func Shutdown() {
	cleanupMu.Lock()
	pending := cleanups
	cleanups = nil
	cleanupMu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// AsFile produces a real filesystem path for the resource, regardless of
// whether its bytes come from a package file, a relocated packaged build, or
// inline data. The result is computed once per resource and cached for the
// process lifetime.
//
// AsFile never fails: when every strategy misses it returns the logical
// package path as a displayable last resort. Callers that need certainty
// must use Bytes or Text, which do fail.
func (r *Resource) AsFile() string {
	r.matOnce.Do(func() {
		strategy, p := r.materialize()
		r.matPath = p
		log.Debug(log.CatFile, "materialized", "alias", r.Alias(), "strategy", strategy, "path", p)
		r.traceMaterialize(strategy, p)
	})
	return r.matPath
}

func (r *Resource) materialize() (strategy, p string) {
	// An external path payload is already a file on disk.
	if r.extPath != "" {
		return "inline", canonicalPath(r.extPath)
	}

	// Scoped materialization through the byte reader.
	if path, release, err := r.reader().Materialize(r.pkg, r.name); err == nil {
		registerCleanup(release)
		return "reader", canonicalPath(path)
	}

	// Inline payloads are written out once so path-consuming APIs can use them.
	if r.data != nil || r.hasText {
		if path, ok := r.writeInline(); ok {
			return "inline", canonicalPath(path)
		}
	}

	// Packaged/frozen builds relocate package files next to the executable.
	// These are existence probes, not reads.
	if base := RelocationBase(); base != "" {
		rel := filepath.FromSlash(r.PackagePath())
		candidate := filepath.Join(base, rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return "relocated", canonicalPath(candidate)
		}
		// Variant with a forced separator, for bases that need a trailing
		// root segment on some platforms.
		candidate = filepath.Join(base, string(filepath.Separator)+rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return "relocated", canonicalPath(candidate)
		}
	}

	// Degrade to the logical path so callers always get something displayable.
	return "unresolved", r.PackagePath()
}

// writeInline materializes inline bytes/text into a temp file named after
// the resource, registering removal at Shutdown.
func (r *Resource) writeInline() (string, bool) {
	payload := r.data
	if payload == nil {
		payload = []byte(r.text)
	}

	dir := filepath.Join(os.TempDir(), "resman-"+uuid.NewString())
	target := filepath.Join(dir, filepath.FromSlash(normalizeSlashes(r.name)))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		log.ErrorErr(log.CatFile, "inline materialization failed", err, "alias", r.Alias())
		return "", false
	}
	if err := os.WriteFile(target, payload, 0o600); err != nil {
		log.ErrorErr(log.CatFile, "inline materialization failed", err, "alias", r.Alias())
		_ = os.RemoveAll(dir)
		return "", false
	}
	registerCleanup(func() { _ = os.RemoveAll(dir) })
	return target, true
}

// canonicalPath resolves a path to absolute, symlink-free form when the
// platform allows; resolution errors keep the unresolved path.
func canonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return resolved
}

func (r *Resource) traceMaterialize(strategy, p string) {
	if r.owner == nil || r.owner.tracer == nil {
		return
	}
	_, span := r.owner.tracer.Start(context.Background(), tracing.SpanMaterialize,
		trace.WithAttributes(
			attribute.String(tracing.AttrResourceAlias, r.Alias()),
			attribute.String(tracing.AttrFileStrategy, strategy),
			attribute.String(tracing.AttrFilePath, p),
		))
	span.End()
}
