package component

// Steering hands an entity's velocity to a Lua function each tick.
type Steering struct {
	Script string // global Lua function name, e.g. "wander"
	Ticks  int    // ticks steered so far, passed to the script
}
