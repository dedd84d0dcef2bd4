// Package dupfind finds groups of likely duplicate files below a directory.
//
// Every regular file is given a Fingerprint: a 128-bit xxh3 digest of a sparse
// read of its content plus its length. Files sharing a fingerprint form a
// duplicate group.
//
// # Core API
//
// The simplest entry point scans a directory on the OS filesystem:
//
//	dupes, err := dupfind.FindDuplicates(ctx, "/path/to/dir", &dupfind.MemorySink{})
//	for _, group := range dupes.Groups() {
//		fmt.Printf("%s: %v\n", group.Hash, group.Files)
//	}
//
// A Scanner gives control over the filesystem, worker count, ignore patterns,
// progress reporting and where per-file errors go:
//
//	scanner := dupfind.NewScanner(root)
//	scanner.Fs = afero.NewMemMapFs()
//	scanner.Workers = 8
//	scanner.Sink = dupfind.NewJSONZapSink(os.Stderr)
//	dupes, err := scanner.FindDuplicates(ctx)
//
// Files that cannot be opened or read, and directory entries that cannot be
// resolved, are reported to the ErrorSink and left out. They never abort the
// scan. Only a cancelled context does, and then no partial result is returned.
//
// # Sparse fingerprints
//
// The fingerprint is an approximation. Content is hashed in 4096 byte chunks
// and a shrinking number of bytes is skipped after each chunk; in practice the
// single byte at offset 4096 never contributes to the digest. Two files of the
// same length that differ only in that byte are reported as duplicates.
// Callers that act on the result (deleting or linking files) must compare
// content themselves.
//
// # Configuration
//
// Enable debug output:
//
//	dupfind.SetDebugFlags("walk,hash")
//	dupfind.SetVerboseLevel(2)
package dupfind
