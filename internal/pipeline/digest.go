// ABOUTME: Content digest computation for source file deduplication
// ABOUTME: SHA-256 over file bytes, streamed in fixed-size chunks
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// digestChunkSize keeps memory flat while hashing large profile files.
const digestChunkSize = 4096

// FileDigest returns the lowercase hex SHA-256 of the file's contents.
// Two files with the same bytes always produce the same digest, so the
// digest is the identity used for deduplication.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	buf := make([]byte, digestChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file for hashing: %w", err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
