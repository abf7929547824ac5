// Package resman is a resource registry and resolution engine.
//
// Application code refers to bundled assets (images, text, data blobs) by
// stable logical names, independent of where the assets live at runtime: a
// source tree, an embed.FS bundle compiled into the binary, a packaged
// build's relocated data directory, or plain in-memory data.
//
// Resources are registered into a Manager, either one at a time or in bulk
// with RegisterDirectory, and resolved back by alias or package path.
// Managers compose: linked sub-managers are searched after the manager's own
// resources, most recently linked first, and later registrations shadow
// earlier ones with the same alias.
//
//	m := resman.NewManager(resman.WithReader(rd))
//	m.Register("check_lib", "rsc.txt")
//	m.Register("check_lib.check_sub", "edit-cut.png", resman.WithAlias(resman.AliasName))
//
//	res, err := m.Get("edit-cut.png")
//	data, err := m.Binary("edit-cut.png", resman.WithFallback("check_lib/rsc.txt"))
//
// Consumers that require a real file path rather than bytes call
// Resource.AsFile, which materializes the resource once per process and
// registers cleanup with Shutdown.
package resman
