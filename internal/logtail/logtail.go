package logtail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// chunkSize is how far Tail steps back per read.
	chunkSize = 32 * 1024

	// maxTailBytes bounds how much of the file one Tail call may hold.
	maxTailBytes = 4 * 1024 * 1024
)

// Tail returns the last maxLines records of the log at path, oldest first.
// A missing log reads as empty.
func Tail(path string, maxLines int) ([]Entry, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}

	buf, offset, err := readBack(file, info.Size(), maxLines)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimRight(string(buf), "\n"), "\n")
	if offset > 0 {
		// Reading started mid-file, so the first line is cut.
		lines = lines[1:]
	}
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}

	entries := make([]Entry, len(lines))
	for i, line := range lines {
		entries[i] = Parse(strings.TrimSuffix(line, "\r"))
	}
	return entries, nil
}

// readBack reads chunks from the end of r until it holds more than maxLines
// line breaks, reaches the start of the file or hits maxTailBytes. It
// returns the bytes read and the file offset they start at.
func readBack(r io.ReaderAt, size int64, maxLines int) ([]byte, int64, error) {
	var buf []byte
	offset := size
	for offset > 0 && len(buf) < maxTailBytes && bytes.Count(buf, []byte{'\n'}) <= maxLines {
		n := min(int64(chunkSize), offset)
		offset -= n
		chunk := make([]byte, n, n+int64(len(buf)))
		if _, err := r.ReadAt(chunk, offset); err != nil && !errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("read log: %w", err)
		}
		buf = append(chunk, buf...)
	}
	return buf, offset, nil
}
