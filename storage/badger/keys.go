package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/recall/core"
)

// Key prefixes for different data types
const (
	memRecordPrefix     = "memrec"
	memRecordDatePrefix = "memrecd"
	memRecordIDSeq      = "memrecseq"
	chunkRecordPrefix   = "kbchunk"
)

// makeMemoryRecordKey generates a key for a memory record by ID.
func makeMemoryRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", memRecordPrefix, id))
}

// makeMemoryDateKey generates a composite key for the recency index.
// Format: prefix:timestamp:id
func makeMemoryDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := memRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeChunkKey generates a key for a knowledge chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkRecordPrefix, id))
}
