//go:build !linux

package dupfind

import "io"

func writeLines(w io.Writer, lines [][]byte) error {
	return writeSequential(w, lines)
}
