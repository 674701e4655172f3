package eventlog

import (
	"fmt"

	"github.com/siltdb/silt/pkg/id"
)

// ID identifies a log segment.
type ID = id.ID

// Position locates one entry within a segment. Positions are totally ordered:
// first by segment id (segment ids sort in creation order), then by offset.
type Position struct {
	Segment ID
	Offset  uint64
}

// Compare returns -1, 0, 1 ordering p against other.
func (p Position) Compare(other Position) int {
	if c := p.Segment.Compare(other.Segment); c != 0 {
		return c
	}
	switch {
	case p.Offset < other.Offset:
		return -1
	case p.Offset > other.Offset:
		return 1
	}
	return 0
}

// Less reports whether p sorts before other.
func (p Position) Less(other Position) bool { return p.Compare(other) < 0 }

// String renders the position as segment:offset.
func (p Position) String() string {
	return fmt.Sprintf("%s:%d", p.Segment.String(), p.Offset)
}
