package world

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// Initializer lets a resource construct itself from whatever the world
// currently offers. InitResource falls back to the type's zero value when the
// resource does not implement it.
type Initializer interface {
	InitFromWorld(w *World) error
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ResourceID returns the access-bit identifier for resource type T, interning
// the type on first use. Systems use it to declare reads and writes.
func ResourceID[T any](w *World) uint32 {
	return w.registry.idOf(typeOf[T]())
}

// ComponentID returns the access-bit identifier for component type T.
// Component data itself lives in the warehouse storage; the identifier only
// feeds the scheduler's conflict analysis.
func ComponentID[T any](w *World) uint32 {
	return w.registry.idOf(typeOf[T]())
}

// InsertResource stores value as the singleton resource of type T,
// overwriting any previous value.
func InsertResource[T any](w *World, value T) {
	w.resources[ResourceID[T](w)] = &value
}

// InitResource ensures a resource of type T exists. If it is already present
// nothing happens. Otherwise a value is constructed through the Initializer
// contract, or from the type's zero value when T does not implement it.
func InitResource[T any](w *World) error {
	id := ResourceID[T](w)
	if _, ok := w.resources[id]; ok {
		return nil
	}

	value := new(T)
	if init, ok := any(value).(Initializer); ok {
		if err := init.InitFromWorld(w); err != nil {
			return eris.Wrapf(err, "failed to initialize resource %s", typeOf[T]().String())
		}
	}
	w.resources[id] = value
	return nil
}

// Resource returns the singleton resource of type T.
func Resource[T any](w *World) (*T, error) {
	value, ok := w.resources[ResourceID[T](w)]
	if !ok {
		return nil, eris.Wrapf(ErrResourceNotFound, "resource %s", typeOf[T]().String())
	}
	return value.(*T), nil
}

// MustResource returns the singleton resource of type T and panics if it was
// never inserted. Use Resource for the non-fatal variant.
func MustResource[T any](w *World) *T {
	value, err := Resource[T](w)
	if err != nil {
		panic(err)
	}
	return value
}

// HasResource reports whether a resource of type T is present.
func HasResource[T any](w *World) bool {
	_, ok := w.resources[ResourceID[T](w)]
	return ok
}

// RemoveResource drops the singleton resource of type T, if present.
func RemoveResource[T any](w *World) {
	delete(w.resources, ResourceID[T](w))
}
