//go:build !linux

package dupfind

import "github.com/spf13/afero"

func adviseSequential(file afero.File) {}
