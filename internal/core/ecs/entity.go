package ecs

// EntityID is an opaque entity handle. IDs are issued from a monotonic
// counter starting at 1 and are never reused within a World's lifetime.
type EntityID uint64

func (id EntityID) IsZero() bool { return id == 0 }

// entityCounter hands out strictly increasing IDs.
type entityCounter struct {
	last EntityID
}

func (c *entityCounter) next() EntityID {
	c.last++
	return c.last
}
