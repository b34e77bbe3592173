package component

// Position is a point on the simulation plane, in world units.
type Position struct {
	X float64
	Y float64
}

// Velocity is in world units per second.
type Velocity struct {
	DX float64
	DY float64
}

// Dormant marks an entity that movement skips. Pure tag, no data.
type Dormant struct{}
