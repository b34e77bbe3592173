package ecs

import "errors"

var (
	ErrNotRegistered         = errors.New("component type not registered")
	ErrMissingComponent      = errors.New("entity has no such component")
	ErrDuplicateRegistration = errors.New("component type already registered")
)
