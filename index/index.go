/*
Package index implements the naming scheme of an output directory and the
reconciliation of a new batch of images against it.

Each output file is named NNNN-basename.ext where NNNN is a zero-padded
decimal index between 1 and 9999. The display cycles through the files in
index order, so an image keeps its index for as long as it exists and new
images are only ever appended after the highest index in use.
*/
package index

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

const (
	// MaxIndex is the highest index a four digit filename can hold.
	MaxIndex = 9999

	// Ext is the extension of the framebuffer file.
	Ext = ".bin"
	// PreviewExt is the extension of the optional preview image.
	PreviewExt = ".png"
)

var entryRegexp = regexp.MustCompile(`^(\d{4})-(.+)(\.[^.]+)$`)

// Entry is one indexed file in an output directory.
type Entry struct {
	Index    int
	Basename string
	Ext      string
}

// Filename returns the name of the file described by e.
func (e Entry) Filename() string {
	return Filename(e.Index, e.Basename, e.Ext)
}

// Filename returns the output filename for the given index, basename and
// extension, which should include the leading dot.
func Filename(index int, basename, ext string) string {
	return fmt.Sprintf("%04d-%s%s", index, basename, ext)
}

// Parse returns the Entry for name, or false if name does not follow the
// naming scheme and so is not part of the index.
func Parse(name string) (Entry, bool) {
	m := entryRegexp.FindStringSubmatch(name)
	if m == nil {
		return Entry{}, false
	}
	i, err := strconv.Atoi(m[1])
	if err != nil || i < 1 || i > MaxIndex {
		return Entry{}, false
	}
	return Entry{Index: i, Basename: m[2], Ext: m[3]}, true
}

// ParseAll returns the entries among names sorted by index and then
// filename. Names that are not part of the index are ignored.
func ParseAll(names []string) []Entry {
	var entries []Entry
	for _, name := range names {
		if e, ok := Parse(name); ok {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Index != entries[j].Index {
			return entries[i].Index < entries[j].Index
		}
		return entries[i].Filename() < entries[j].Filename()
	})
	return entries
}
