package dupfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zeebo/xxh3"
)

func recordsFor(fp Fingerprint, paths ...string) []FileRecord {
	records := make([]FileRecord, 0, len(paths))
	for _, path := range paths {
		records = append(records, FileRecord{Path: path, Fingerprint: fp})
	}
	return records
}

func TestDuplicates_GroupsSorted(t *testing.T) {
	fpA := Fingerprint{Hash: xxh3.Uint128{Hi: 1}, Size: 10}
	fpB := Fingerprint{Hash: xxh3.Uint128{Hi: 2}, Size: 20}
	fpC := Fingerprint{Hash: xxh3.Uint128{Hi: 3}, Size: 30}

	dupes := Duplicates{
		fpA: recordsFor(fpA, "/z/last", "/m/middle"),
		fpB: recordsFor(fpB, "/b/two", "/a/one", "/c/three"),
		fpC: recordsFor(fpC, "/n/x", "/n/w"),
	}

	groups := dupes.Groups()
	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}

	expected := []DuplicateGroup{
		{Hash: fpB.HashString(), Size: 20, Files: []string{"/a/one", "/b/two", "/c/three"}, Count: 3},
		{Hash: fpA.HashString(), Size: 10, Files: []string{"/m/middle", "/z/last"}, Count: 2},
		{Hash: fpC.HashString(), Size: 30, Files: []string{"/n/w", "/n/x"}, Count: 2},
	}
	assert.Equal(t, expected, groups)
}

func TestDuplicates_GroupsEmpty(t *testing.T) {
	groups := Duplicates{}.Groups()
	if groups == nil || len(groups) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", groups)
	}
}

func TestPathList_Order(t *testing.T) {
	list := newPathList()
	for _, path := range []string{"c", "a", "b"} {
		if !list.Insert(FileRecord{Path: path}, "hash") {
			t.Errorf("Insert of %s failed", path)
		}
	}

	assert.Equal(t, []string{"a", "b", "c"}, list.Paths())
}
