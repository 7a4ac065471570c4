/*
Package sandbox confines user-supplied paths to a single root directory.

A Root is fixed at startup: absolute and symlink-resolved. Resolve turns an
untrusted relative or absolute path into a canonical absolute path and
rejects it with an *EscapeError when the result leaves the root. Symlinks
are followed on the existing part of the path and on dangling links in the
tail, so a link pointing outside the root never slips through.

Containment is checked on path components: /srv/rootX is not inside /srv/root.

	root, err := sandbox.New(os.Getenv("FS_ROOT"))
	path, err := root.Resolve("notes/today.txt")
	if errors.Is(err, sandbox.ErrPathEscape) {
		// refuse
	}
*/
package sandbox
