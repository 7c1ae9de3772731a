package world

import "github.com/rotisserie/eris"

var (
	// ErrResourceNotFound is returned when a resource type was never inserted
	// into the world.
	ErrResourceNotFound = eris.New("resource not found")
)
