// Package hasher computes content fingerprints for files.
//
// Files are streamed through a SHA-1 accumulator in fixed-size chunks so memory
// use does not depend on file size. Identical byte content always produces the
// same Digest regardless of path, filesystem, or timing.
package hasher

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// ChunkSize is the number of bytes read from a file per fold into the digest.
const ChunkSize = 4096

// Size is the length of a Digest in bytes.
const Size = sha1.Size

// Digest is the content fingerprint of a file. It is comparable and can be
// used directly as a map key.
type Digest [Size]byte

// String returns the lowercase hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// MarshalText implements encoding.TextMarshaler so digests render as hex in
// YAML reports.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Hash streams the file at path and returns its digest together with the
// number of bytes read. The file handle is released on every return path.
// Errors from the filesystem are *fs.PathError values naming path.
func Hash(path string) (Digest, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, 0, err
	}
	defer file.Close()

	return HashReader(file)
}

// HashReader folds r into a digest ChunkSize bytes at a time until EOF.
// A read error mid-stream is returned; a partial digest is never produced.
func HashReader(r io.Reader) (Digest, int64, error) {
	h := sha1.New()
	buf := make([]byte, ChunkSize)
	var total int64

	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			total += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Digest{}, total, fmt.Errorf("read failed after %d bytes: %w", total, err)
		}
	}

	var d Digest
	copy(d[:], h.Sum(nil))
	return d, total, nil
}
