package ecs

// Query maintains the live set of entities that have every required
// component and none of the excluded ones. Membership is updated
// incrementally from the World's change notifications.
//
// Every notification is broadcast to every registered query, so Close a
// query once it is no longer needed.
type Query struct {
	world    *World
	required []componentStore
	excluded []componentStore
	entities *EntitySet
}

// QueryOption configures the component filter of a Query.
type QueryOption func(*queryFilter)

type queryFilter struct {
	required []ComponentType
	excluded []ComponentType
}

// Require adds component types an entity must have.
func Require(types ...ComponentType) QueryOption {
	return func(f *queryFilter) {
		f.required = append(f.required, types...)
	}
}

// Exclude adds component types an entity must not have.
func Exclude(types ...ComponentType) QueryOption {
	return func(f *queryFilter) {
		f.excluded = append(f.excluded, types...)
	}
}

// NewQuery resolves the filter against w and registers the query with it.
// With no options the query matches every live entity. If any type is not
// registered on w, ErrNotRegistered is returned and nothing is registered.
func NewQuery(w *World, opts ...QueryOption) (*Query, error) {
	var f queryFilter
	for _, opt := range opts {
		opt(&f)
	}
	required, err := w.resolve(f.required)
	if err != nil {
		return nil, err
	}
	excluded, err := w.resolve(f.excluded)
	if err != nil {
		return nil, err
	}
	q := &Query{
		world:    w,
		required: required,
		excluded: excluded,
		entities: NewEntitySet(),
	}
	w.RegisterQuery(q)
	return q, nil
}

// Entities returns the live member set.
func (q *Query) Entities() EntityView { return q.entities }

func (q *Query) Contains(id EntityID) bool { return q.entities.Has(id) }

func (q *Query) Len() int { return q.entities.Len() }

// Close unregisters the query; it receives no further updates. Views taken
// from Entities before Close are not refreshed if the query is registered
// again.
func (q *Query) Close() error {
	q.world.UnregisterQuery(q)
	return nil
}

// offer re-evaluates id. A non-matching entity is only dropped when
// removeIfApplicable is set; the seeding pass never needs removals.
func (q *Query) offer(id EntityID, removeIfApplicable bool) {
	if q.matches(id) {
		q.entities.Add(id)
	} else if removeIfApplicable {
		q.entities.Remove(id)
	}
}

func (q *Query) forget(id EntityID) {
	q.entities.Remove(id)
}

func (q *Query) matches(id EntityID) bool {
	for _, s := range q.required {
		if !s.Has(id) {
			return false
		}
	}
	for _, s := range q.excluded {
		if s.Has(id) {
			return false
		}
	}
	return true
}
