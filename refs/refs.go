// Package refs parses the response lines of a protocol v2 ls-refs
// request into structured reference information.
package refs

import (
	"strings"
)

// Info describes one advertised reference: its object id, full name, and
// (for annotated tags advertised with the "peel" argument) the commit id
// the tag object ultimately points at.
type Info struct {
	SHA      string
	Name     string
	Peeled   string
	IsPeeled bool
}

const peeledAttr = "peeled:"

// ParseLine parses one ls-refs response line, with any trailing newline
// already stripped. Lines are "<sha> <refname>" or, when the ref is an
// annotated tag and peeling was requested, "<sha> <refname> peeled:<sha>".
// Frames that don't match either shape are reported via ok=false so the
// caller can skip them rather than fail the whole exchange; a third field
// present but not a recognized "peeled:" attribute is likewise kept as a
// plain, non-peeled ref so unknown future attributes don't break parsing.
func ParseLine(line string) (info Info, ok bool) {
	parts := strings.Split(line, " ")
	switch len(parts) {
	case 2:
		return Info{SHA: parts[0], Name: parts[1]}, true
	case 3:
		if !strings.HasPrefix(parts[2], peeledAttr) {
			return Info{SHA: parts[0], Name: parts[1]}, true
		}
		peeled := strings.TrimPrefix(parts[2], peeledAttr)
		return Info{SHA: parts[0], Name: parts[1], Peeled: peeled, IsPeeled: true}, true
	default:
		return Info{}, false
	}
}

// TargetSHA returns the commit-level object id to treat this reference as
// pointing at: the peeled id for annotated tags, the ref's own id
// otherwise.
func (i Info) TargetSHA() string {
	if i.IsPeeled {
		return i.Peeled
	}
	return i.SHA
}

const headsPrefix = "refs/heads/"

// BranchName returns the branch short name and true if Name is under
// refs/heads/, or "", false otherwise.
func (i Info) BranchName() (string, bool) {
	if !strings.HasPrefix(i.Name, headsPrefix) {
		return "", false
	}
	return strings.TrimPrefix(i.Name, headsPrefix), true
}

const tagsPrefix = "refs/tags/"

// TagName returns the tag short name and true if Name is under
// refs/tags/, or "", false otherwise.
func (i Info) TagName() (string, bool) {
	if !strings.HasPrefix(i.Name, tagsPrefix) {
		return "", false
	}
	return strings.TrimPrefix(i.Name, tagsPrefix), true
}
