package dupfind

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress is advanced once for every file the workers finish with
type Progress interface {
	Add(num int) error
}

// NewProgressBar returns a spinner counting fingerprinted files.
// The total is unknown while the walk is still streaming paths.
func NewProgressBar(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Fingerprinting files..."),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
