package index

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// A CapacityError is returned when assigning indices to the new images of a
// batch would run past MaxIndex.
type CapacityError struct {
	Last      int // highest index already in use
	Requested int // number of new indices needed
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("index: %d new images after index %d exceeds %d", e.Requested, e.Last, MaxIndex)
}

// A DuplicateError is returned when a batch contains the same basename more
// than once; the basename alone cannot tell them apart.
type DuplicateError string

func (e DuplicateError) Error() string {
	return fmt.Sprintf("index: duplicate basename %q in batch", string(e))
}

// Assignment is the index chosen for one basename of a batch.
type Assignment struct {
	Index    int
	Basename string
	// Existing is set when the basename was already in the directory and
	// its file is being rewritten in place.
	Existing bool
}

// Filename returns the name of the file with the given extension for a.
func (a Assignment) Filename(ext string) string {
	return Filename(a.Index, a.Basename, ext)
}

// Lookup keys are NFC normalized so that a name read back from a filesystem
// that decomposes characters still matches the name it was written with.
func key(basename string) string {
	return norm.NFC.String(basename)
}

// A BasenameError is returned for a basename that would produce a filename
// Parse does not recognise, so the entry would be lost on the next run.
type BasenameError string

func (e BasenameError) Error() string {
	return fmt.Sprintf("index: unusable basename %q", string(e))
}

// CheckBasename returns a BasenameError unless basename survives being
// written as a filename and parsed back.
func CheckBasename(basename string) error {
	if e, ok := Parse(Filename(1, basename, Ext)); !ok || e.Basename != basename {
		return BasenameError(basename)
	}
	return nil
}

// CheckDuplicates returns a DuplicateError for the first basename that
// appears more than once in candidates.
func CheckDuplicates(candidates []string) error {
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		k := key(c)
		if _, ok := seen[k]; ok {
			return DuplicateError(c)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Reconcile assigns an index to every basename in candidates, returned in
// the same order. A basename already present in existing keeps its index,
// and the spelling found on disk; if it appears under several indices the
// lowest one wins. Every other basename gets the next index after the
// highest one in existing, in the order they appear in candidates.
//
// Entries in existing that match no candidate are neither reused nor
// reported. If the new basenames would not fit below MaxIndex a
// *CapacityError is returned and nothing is assigned.
func Reconcile(existing []Entry, candidates []string) ([]Assignment, error) {
	if err := CheckDuplicates(candidates); err != nil {
		return nil, err
	}
	for _, c := range candidates {
		if err := CheckBasename(c); err != nil {
			return nil, err
		}
	}

	last := 0
	lookup := make(map[string]Entry, len(existing))
	for _, e := range existing {
		if e.Index > last {
			last = e.Index
		}
		k := key(e.Basename)
		if prev, ok := lookup[k]; !ok || e.Index < prev.Index {
			lookup[k] = e
		}
	}

	assignments := make([]Assignment, len(candidates))
	var fresh []int
	for i, c := range candidates {
		if e, ok := lookup[key(c)]; ok {
			assignments[i] = Assignment{Index: e.Index, Basename: e.Basename, Existing: true}
			continue
		}
		assignments[i] = Assignment{Basename: c}
		fresh = append(fresh, i)
	}

	if last+len(fresh) > MaxIndex {
		return nil, &CapacityError{Last: last, Requested: len(fresh)}
	}

	for n, i := range fresh {
		assignments[i].Index = last + 1 + n
	}

	return assignments, nil
}
