package container

import (
	"fmt"
	"io"
	"strings"
)

// Snapshot is a point-in-time view of a Container, for debugging.
type Snapshot struct {
	ID          string         `json:"id"`
	HasDelegate bool           `json:"has_delegate"`
	Names       []string       `json:"names"`
	Instances   []TypeIdentity `json:"instances"`
}

// Snapshot returns the container's resolvable names and memoized identities.
func (c *Container) Snapshot() Snapshot {
	return Snapshot{
		ID:          c.id,
		HasDelegate: c.delegate != nil,
		Names:       c.types.Names(),
		Instances:   c.store.Identities(),
	}
}

// String renders the snapshot the way Print writes it.
func (s Snapshot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "container %s (delegate: %t)\n", s.ID, s.HasDelegate)
	fmt.Fprintf(&b, "  names (%d):\n", len(s.Names))
	for _, n := range s.Names {
		fmt.Fprintf(&b, "    %s\n", n)
	}
	fmt.Fprintf(&b, "  instances (%d):\n", len(s.Instances))
	for _, id := range s.Instances {
		fmt.Fprintf(&b, "    %s\n", id)
	}
	return b.String()
}

// Print writes the container's snapshot to w, followed by the delegate's
// when the delegate is itself a Container.
func (c *Container) Print(w io.Writer) error {
	if _, err := io.WriteString(w, c.Snapshot().String()); err != nil {
		return err
	}
	if parent, ok := c.delegate.(*Container); ok {
		return parent.Print(w)
	}
	return nil
}
