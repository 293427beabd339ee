package gitctx

import (
	"fmt"
	"slices"
	"strings"
)

// Rename is a staged rename.
type Rename struct {
	From string
	To   string
}

// Status buckets the entries of `git status`. A path can sit in more than
// one bucket (an added file edited again shows in Created and Modified).
type Status struct {
	NotAdded   []string
	Modified   []string
	Deleted    []string
	Renamed    []Rename
	Created    []string
	Conflicted []string
	// Staged lists every path with a change recorded in the index, in
	// status order.
	Staged []string
}

// IsCreated reports whether path was added to the index.
func (s Status) IsCreated(path string) bool { return slices.Contains(s.Created, path) }

// IsDeleted reports whether path was deleted.
func (s Status) IsDeleted(path string) bool { return slices.Contains(s.Deleted, path) }

// ParseStatus parses the output of `git status --porcelain=v1 -z`.
func ParseStatus(out string) (Status, error) {
	var s Status
	fields := strings.Split(out, "\x00")
	for i := 0; i < len(fields); i++ {
		entry := fields[i]
		if entry == "" {
			continue
		}
		if len(entry) < 4 || entry[2] != ' ' {
			return Status{}, fmt.Errorf("unexpected status entry %q", entry)
		}
		x, y, path := entry[0], entry[1], entry[3:]

		switch {
		case x == '?' && y == '?':
			s.NotAdded = append(s.NotAdded, path)
			continue
		case x == '!' && y == '!':
			continue
		case isConflict(x, y):
			s.Conflicted = append(s.Conflicted, path)
			continue
		}

		switch x {
		case 'R':
			if i+1 >= len(fields) || fields[i+1] == "" {
				return Status{}, fmt.Errorf("rename entry %q missing source path", entry)
			}
			i++
			s.Renamed = append(s.Renamed, Rename{From: fields[i], To: path})
		case 'C':
			if i+1 >= len(fields) || fields[i+1] == "" {
				return Status{}, fmt.Errorf("copy entry %q missing source path", entry)
			}
			i++
			s.Created = append(s.Created, path)
		case 'A':
			s.Created = append(s.Created, path)
		case 'D':
			s.Deleted = append(s.Deleted, path)
		case 'M', 'T':
			s.Modified = append(s.Modified, path)
		}

		switch y {
		case 'M', 'T':
			if x != 'M' && x != 'T' {
				s.Modified = append(s.Modified, path)
			}
		case 'D':
			if x != 'D' {
				s.Deleted = append(s.Deleted, path)
			}
		}

		if x != ' ' {
			s.Staged = append(s.Staged, path)
		}
	}
	return s, nil
}

func isConflict(x, y byte) bool {
	return x == 'U' || y == 'U' || (x == 'A' && y == 'A') || (x == 'D' && y == 'D')
}
