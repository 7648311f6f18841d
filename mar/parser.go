package mar

import (
	"bytes"
	"encoding/binary"
	"io"
)

// cursor reads structured fields from a random-access source while
// tracking which byte ranges have already been consumed. It refuses to
// read a range that overlaps one already read, which stops a
// maliciously crafted index from pointing two entries at the same
// bytes. A cursor is not safe for concurrent use and must not be
// reused across archives.
type cursor struct {
	r      io.ReaderAt
	pos    int64
	limit  int64
	chunks []chunkRange
}

type chunkRange struct {
	start, end int64
}

func newCursor(r io.ReaderAt, limit int64) *cursor {
	return &cursor{r: r, limit: limit}
}

func (c *cursor) seek(pos int64) { c.pos = pos }

func (c *cursor) tell() int64 { return c.pos }

// readAt consumes the next n bytes starting at the cursor, advancing
// it, and records the consumed range.
func (c *cursor) readAt(n int) ([]byte, error) {
	start := c.pos
	end := start + int64(n)
	if start < 0 || end > c.limit {
		return nil, ErrTruncatedFile
	}
	if err := c.checkOverlap(start, end); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := c.r.ReadAt(buf, start); err != nil {
		return nil, ErrTruncatedFile
	}
	c.chunks = append(c.chunks, chunkRange{start, end})
	c.pos = end
	return buf, nil
}

// registerRange records [start, end) as consumed without reading any
// bytes, failing if it overlaps a range already read or registered.
// It's used to track index-declared member payload ranges, which are
// read later through a separate io.ReaderAt rather than through this
// cursor, but must still participate in overlap detection.
func (c *cursor) registerRange(start, end int64) error {
	if start < 0 || end > c.limit || start > end {
		return ErrOffsetOutOfRange
	}
	if err := c.checkOverlap(start, end); err != nil {
		return err
	}
	c.chunks = append(c.chunks, chunkRange{start, end})
	return nil
}

func (c *cursor) checkOverlap(start, end int64) error {
	for _, ch := range c.chunks {
		if start < ch.end && ch.start < end {
			return ErrOverlappingRead
		}
	}
	return nil
}

func (c *cursor) readUint32() (uint32, error) {
	b, err := c.readAt(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *cursor) readUint64() (uint64, error) {
	b, err := c.readAt(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// readCString reads a NUL-terminated string, probing up to maxLen
// bytes ahead of the cursor for the terminator. It fails with
// ErrMalformedString if no terminator is found within that bound.
func (c *cursor) readCString(maxLen int) (string, error) {
	start := c.pos
	end := start + int64(maxLen)
	if end > c.limit {
		end = c.limit
	}
	probeLen := end - start
	if probeLen <= 0 {
		return "", ErrTruncatedFile
	}
	buf := make([]byte, probeLen)
	n, err := c.r.ReadAt(buf, start)
	if err != nil && err != io.EOF {
		return "", ErrTruncatedFile
	}
	buf = buf[:n]
	nul := bytes.IndexByte(buf, 0)
	if nul < 0 {
		return "", ErrMalformedString
	}
	consumedEnd := start + int64(nul) + 1
	if err := c.checkOverlap(start, consumedEnd); err != nil {
		return "", err
	}
	c.chunks = append(c.chunks, chunkRange{start, consumedEnd})
	c.pos = consumedEnd
	return string(buf[:nul]), nil
}
