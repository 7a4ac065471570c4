// Package filesystem implements the sandboxed filesystem operations.
//
// This package is organized into specialized modules:
//   - basic: read and write (write appends when the file exists)
//   - directory: list, create and delete
//   - operations: copy and move
//   - metadata: file info with MIME type and optional checksum
//   - search: name and content search over recursive walks
//   - tools: catalog entries and map-argument handlers for the registry
//
// All operations:
//   - Resolve every path through a sandbox.Root before touching the disk
//   - Return *OpError values that unwrap to a kind sentinel
//   - Observe context cancellation during walks
//
// Example Usage:
//
//	ops := filesystem.NewOps(root, logger)
//	entries, err := ops.ListDirectory(ctx, "Desktop")
//	registry.Register(filesystem.NewProvider(ops))
package filesystem
