package tracing

// Span attribute keys for resolution tracing.
// These constants define the semantic conventions for span attributes
// emitted by the registry, scanner and materializer.
const (
	// Resource attributes
	AttrResourceKey     = "resource.key"
	AttrResourceAlias   = "resource.alias"
	AttrResourcePackage = "resource.package"
	AttrResourceName    = "resource.name"

	// Lookup attributes
	AttrLookupFallback = "lookup.fallback"
	AttrLookupTier     = "lookup.tier" // "key", "fallback" or "default"

	// Scanner attributes
	AttrScanSubdir    = "scan.subdir"
	AttrScanRecursive = "scan.recursive"
	AttrScanCount     = "scan.count"

	// Materialization attributes
	AttrFilePath     = "file.path"
	AttrFileStrategy = "file.strategy" // "inline", "reader", "relocated", "unresolved"

	// Error attributes
	AttrErrorMessage = "error.message"
)

// Span names used across the engine.
const (
	SpanLookup      = "resman.lookup"
	SpanScan        = "resman.scan"
	SpanMaterialize = "resman.materialize"
)
