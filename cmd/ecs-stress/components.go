package main

import "reflect"

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Health struct {
	Current float64
}

// Lifetime counts down in ticks; the entity is destroyed when it reaches zero.
type Lifetime struct {
	Ticks int
}

type Marker struct{}

var markerType = reflect.TypeFor[Marker]()
