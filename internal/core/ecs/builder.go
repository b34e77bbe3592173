package ecs

// EntityBuilder attaches the initial components of an entity created with
// World.CreateEntityWith.
type EntityBuilder struct {
	entity   EntityID
	world    *World
	attached []componentStore
}

// Entity is the ID the builder is populating.
func (b *EntityBuilder) Entity() EntityID { return b.entity }

// Attach stores c as the entity's T. Attachments are never deferred and raise
// no notifications; the entity is offered to queries once the build returns.
func Attach[T any](b *EntityBuilder, c *T) error {
	m, err := MapperFor[T](b.world)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}
	if !m.Has(b.entity) {
		b.attached = append(b.attached, m)
	}
	m.attach(b.entity, c)
	return nil
}

func (b *EntityBuilder) discard() {
	for _, s := range b.attached {
		s.destroy(b.entity, false)
	}
	b.attached = nil
}
