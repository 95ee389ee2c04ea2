package maze

import "errors"

var (
	// ErrInvalidDimensions is returned when a grid is created with a non-positive width or height.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	// ErrOutOfBounds is returned when a coordinate lies outside the grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrNotAdjacent is returned when a wall is removed between cells that are not orthogonal neighbors.
	ErrNotAdjacent = errors.New("cells are not orthogonal neighbors")
	// ErrStalled is returned by Run when the generator can make no further progress
	// while unvisited cells remain.
	ErrStalled = errors.New("generation stalled with unvisited cells")
)
