//go:build linux

package dupfind

import (
	"os"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel the file will be read front to back.
// Only OS-backed handles can be advised; the hint is best effort.
func adviseSequential(file afero.File) {
	osFile, ok := file.(*os.File)
	if !ok {
		return
	}
	if err := unix.Fadvise(int(osFile.Fd()), 0, 0, unix.FADV_SEQUENTIAL); err != nil {
		DebugLog(DebugHash, "fadvise %s: %v", osFile.Name(), err)
	}
}
