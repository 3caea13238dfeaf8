// Package geometry decides where a dropdown overlay is drawn relative to its
// trigger. All values are terminal cells in window coordinates.
package geometry

import "math"

// Rect is a position and size in window coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Size is a width and height.
type Size struct {
	Width, Height int
}

// Point is a position in window coordinates.
type Point struct {
	X, Y int
}

// Placement is the resolved overlay position.
type Placement struct {
	X, Y int
	// Width is the overlay width; the trigger width unless floating.
	Width int
	// MaxHeight bounds the overlay height.
	MaxHeight int
	// Flipped reports that there was too little room below the trigger.
	Flipped  bool
	Floating bool
}

// Resolver holds the placement constants.
type Resolver struct {
	// FlipThreshold is the fraction of the viewport height that must remain
	// below the trigger's top edge for the overlay to stay below it.
	FlipThreshold float64
	// FlipFraction is the fraction of the viewport height the overlay is
	// moved up by when flipped.
	FlipFraction float64
	// FloatingOffset anchors the overlay in floating mode. X doubles as the
	// horizontal margin on both sides.
	FloatingOffset Point
}

// DefaultResolver returns the resolver used by dropdowns unless overridden.
func DefaultResolver() Resolver {
	return Resolver{
		FlipThreshold:  0.3,
		FlipFraction:   0.09,
		FloatingOffset: Point{X: 2, Y: 2},
	}
}

// Resolve computes the overlay placement with the default resolver.
func Resolve(trigger Rect, viewport Size, floating bool) Placement {
	return DefaultResolver().Resolve(trigger, viewport, floating)
}

// Resolve computes the overlay placement. It never fails: when the viewport
// is too small the overlay may overlap the trigger.
func (r Resolver) Resolve(trigger Rect, viewport Size, floating bool) Placement {
	if floating {
		return Placement{
			X:         r.FloatingOffset.X,
			Y:         r.FloatingOffset.Y,
			Width:     max(1, viewport.Width-2*r.FloatingOffset.X),
			MaxHeight: max(1, viewport.Height/2),
			Floating:  true,
		}
	}

	top := trigger.Y + trigger.Height
	distanceToBottom := viewport.Height - trigger.Y

	p := Placement{X: trigger.X, Y: top, Width: trigger.Width}
	if float64(distanceToBottom) < r.FlipThreshold*float64(viewport.Height) {
		p.Y = top - int(math.Round(r.FlipFraction*float64(viewport.Height)))
		p.Flipped = true
	}
	p.Y = max(0, p.Y)
	p.MaxHeight = max(1, viewport.Height-p.Y)
	return p
}
