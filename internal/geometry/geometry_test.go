package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		trigger  Rect
		viewport Size
		want     Placement
	}{
		{
			name:     "room below",
			trigger:  Rect{X: 4, Y: 100, Width: 30, Height: 50},
			viewport: Size{Width: 400, Height: 800},
			want:     Placement{X: 4, Y: 150, Width: 30, MaxHeight: 650},
		},
		{
			name:     "flips near bottom",
			trigger:  Rect{X: 0, Y: 700, Width: 30, Height: 50},
			viewport: Size{Width: 400, Height: 800},
			want:     Placement{X: 0, Y: 678, Width: 30, MaxHeight: 122, Flipped: true},
		},
		{
			name:     "exactly at threshold stays below",
			trigger:  Rect{Y: 560, Width: 10, Height: 1},
			viewport: Size{Width: 80, Height: 800},
			want:     Placement{Y: 561, Width: 10, MaxHeight: 239},
		},
		{
			name:     "terminal sized",
			trigger:  Rect{X: 2, Y: 20, Width: 20, Height: 1},
			viewport: Size{Width: 80, Height: 24},
			want:     Placement{X: 2, Y: 19, Width: 20, MaxHeight: 5, Flipped: true},
		},
		{
			name:     "degenerate viewport",
			trigger:  Rect{Y: 5, Height: 1},
			viewport: Size{},
			want:     Placement{Y: 6, MaxHeight: 1, Flipped: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.trigger, tt.viewport, false))
		})
	}
}

func TestResolveFloating(t *testing.T) {
	got := Resolve(Rect{X: 10, Y: 700, Width: 5, Height: 1}, Size{Width: 80, Height: 24}, true)
	assert.Equal(t, Placement{X: 2, Y: 2, Width: 76, MaxHeight: 12, Floating: true}, got)
}

func TestResolverCustomConstants(t *testing.T) {
	r := Resolver{FlipThreshold: 0.5, FlipFraction: 0.25}
	got := r.Resolve(Rect{Y: 60, Height: 2}, Size{Width: 10, Height: 100}, false)
	assert.True(t, got.Flipped)
	assert.Equal(t, 37, got.Y)
}
