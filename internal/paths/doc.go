// Package paths provides DirectoryPath, an immutable filesystem path value
// used for build output locations, and InvalidPathError for offsets and
// segments that cannot be resolved.
//
// Resolve follows an arbitrary relative (or absolute) offset such as
// "../../build". Child appends exactly one path element and rejects anything
// that would escape the parent, so a child is always nested directly beneath
// the directory it was derived from.
package paths
