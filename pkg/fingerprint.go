package dupfind

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/zeebo/xxh3"
)

// Fingerprint identifies file content by a sparse 128-bit hash and the file length.
// Two fingerprints are equal only if both fields match, so a hash collision
// between files of different sizes never groups them.
type Fingerprint struct {
	Hash xxh3.Uint128
	Size uint64
}

// HashString returns the digest as 32 lowercase hex digits
func (fp Fingerprint) HashString() string {
	b := fp.Hash.Bytes()
	return hex.EncodeToString(b[:])
}

func (fp Fingerprint) String() string {
	return fmt.Sprintf("%s:%d", fp.HashString(), fp.Size)
}

// FileRecord pairs a path with the fingerprint computed for it
type FileRecord struct {
	Path        string
	Fingerprint Fingerprint
}

// FingerprintError reports a file that could not be opened, read or measured
type FingerprintError struct {
	Path string
	Op   string
	Err  error
}

func (e *FingerprintError) Error() string {
	return fmt.Sprintf("cannot fingerprint %q: %s: %v", e.Path, e.Op, e.Err)
}

func (e *FingerprintError) Unwrap() error {
	return e.Err
}

// FingerprintFile computes the sparse fingerprint of the file at path.
//
// The file is read in ChunkSize pieces. After each non-empty read the cursor
// is advanced by a further stride bytes that are not hashed, and the stride is
// halved. Starting from InitialSeekStride this skips exactly one byte, the
// one at offset ChunkSize, so two files differing only there share a
// fingerprint. The result marks files as likely duplicates, it does not prove
// identical content.
func FingerprintFile(fsys afero.Fs, path string) (fp Fingerprint, err error) {
	file, err := fsys.Open(path)
	if err != nil {
		return fp, &FingerprintError{Path: path, Op: "open", Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			err = errors.Join(err, &FingerprintError{Path: path, Op: "close", Err: cerr})
		}
	}()

	adviseSequential(file)

	hasher := xxh3.New()
	var buf [ChunkSize]byte
	stride := int64(InitialSeekStride)

	for {
		n, rerr := file.Read(buf[:])
		if n == 0 {
			if rerr == nil || rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
				// A cursor moved past the end reads as exhausted
				break
			}
			return fp, &FingerprintError{Path: path, Op: "read", Err: rerr}
		}
		if rerr != nil && rerr != io.EOF {
			return fp, &FingerprintError{Path: path, Op: "read", Err: rerr}
		}

		hasher.Write(buf[:n])

		if _, serr := file.Seek(stride, io.SeekCurrent); serr != nil {
			return fp, &FingerprintError{Path: path, Op: "seek", Err: serr}
		}
		stride >>= 1
	}

	fp.Hash = hasher.Sum128()

	info, err := fsys.Stat(path)
	if err != nil {
		return fp, &FingerprintError{Path: path, Op: "stat", Err: err}
	}
	fp.Size = uint64(info.Size())

	if IsDebugEnabled(DebugHash) {
		DebugLog(DebugHash, "fingerprinted %s -> %s", path, fp)
	}
	return fp, nil
}
