//go:build linux

package dupfind

import (
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/google/vectorio"
)

// maxIovecs is the Linux UIO_MAXIOV limit for a single writev call
const maxIovecs = 1024

// writeLines writes every line in order. An *os.File receives them through
// writev in IOV_MAX sized batches; any other writer gets one Write per line.
func writeLines(w io.Writer, lines [][]byte) error {
	file, ok := w.(*os.File)
	if !ok {
		return writeSequential(w, lines)
	}

	iovecs := make([]syscall.Iovec, 0, len(lines))
	pending := make([][]byte, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		iov := syscall.Iovec{Base: &line[0]}
		iov.SetLen(len(line))
		iovecs = append(iovecs, iov)
		pending = append(pending, line)
	}

	for offset := 0; offset < len(iovecs); offset += maxIovecs {
		end := min(offset+maxIovecs, len(iovecs))

		expected := 0
		for _, line := range pending[offset:end] {
			expected += len(line)
		}

		// Fd leaves the descriptor in blocking mode, so writev either fails
		// outright or writes at least part of the batch
		nw, err := vectorio.WritevRaw(uintptr(file.Fd()), iovecs[offset:end])
		if err != nil {
			return fmt.Errorf("failed to write output with vectorio: %w", err)
		}
		if nw < expected {
			if err := writeRemainder(file, pending[offset:end], nw); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeRemainder finishes a short writev by skipping the first written bytes
func writeRemainder(w io.Writer, lines [][]byte, written int) error {
	for _, line := range lines {
		if written >= len(line) {
			written -= len(line)
			continue
		}
		if _, err := w.Write(line[written:]); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		written = 0
	}
	return nil
}
