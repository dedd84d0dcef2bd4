package dupfind

import (
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

const skiplistLevels = 16

// DuplicateGroup is a sorted, serialisable view of one set of identical files
type DuplicateGroup struct {
	Hash  string   `json:"hash"`
	Size  uint64   `json:"size"`
	Files []string `json:"files"`
	Count int      `json:"count"`
}

// pathList keeps records ordered by path; the context carries the group hash
type pathList struct {
	skiplist *zcsl.ZeroCopySkiplist[FileRecord, string, string]
}

func newPathList() *pathList {
	getKey := func(rec *FileRecord) string {
		return rec.Path
	}
	getSize := func(rec *FileRecord) int {
		return len(rec.Path)
	}
	return &pathList{
		skiplist: zcsl.MakeZeroCopySkiplist[FileRecord, string, string](
			skiplistLevels, getKey, getSize, strings.Compare,
		),
	}
}

func (pl *pathList) Insert(rec FileRecord, hash string) bool {
	return pl.skiplist.Insert(&rec, hash)
}

// Paths returns the paths in ascending order
func (pl *pathList) Paths() []string {
	paths := make([]string, 0, pl.skiplist.Length())
	for node := pl.skiplist.First(); node != nil; node = node.Next() {
		paths = append(paths, node.Item().Path)
	}
	return paths
}

// groupList orders groups by their lowest path. A path belongs to exactly
// one group, so the key is unique.
type groupList struct {
	skiplist *zcsl.ZeroCopySkiplist[DuplicateGroup, string, string]
}

func newGroupList() *groupList {
	getKey := func(g *DuplicateGroup) string {
		if len(g.Files) == 0 {
			return ""
		}
		return g.Files[0]
	}
	getSize := func(g *DuplicateGroup) int {
		return int(g.Size)
	}
	return &groupList{
		skiplist: zcsl.MakeZeroCopySkiplist[DuplicateGroup, string, string](
			skiplistLevels, getKey, getSize, strings.Compare,
		),
	}
}

func (gl *groupList) Insert(g DuplicateGroup) bool {
	return gl.skiplist.Insert(&g, g.Hash)
}

func (gl *groupList) Groups() []DuplicateGroup {
	groups := make([]DuplicateGroup, 0, gl.skiplist.Length())
	for node := gl.skiplist.First(); node != nil; node = node.Next() {
		groups = append(groups, *node.Item())
	}
	return groups
}

// Groups returns every group with its files sorted by path, and the groups
// sorted by their first path. The result is identical across runs over the
// same tree.
func (d Duplicates) Groups() []DuplicateGroup {
	groups := newGroupList()

	for fp, records := range d {
		hash := fp.HashString()
		members := newPathList()
		for _, rec := range records {
			members.Insert(rec, hash)
		}

		files := members.Paths()
		groups.Insert(DuplicateGroup{
			Hash:  hash,
			Size:  fp.Size,
			Files: files,
			Count: len(files),
		})
	}

	return groups.Groups()
}
