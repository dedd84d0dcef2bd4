package dupfind

import (
	"fmt"
	"io"
)

func writeSequential(w io.Writer, lines [][]byte) error {
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
