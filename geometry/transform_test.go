package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

var container = Rect{Left: 100, Top: 50, Width: 600, Height: 400}

func TestMoveBoxExact(t *testing.T) {
	snap := Box{Position: Point{X: 40, Y: 60}, Size: Size{Width: 80, Height: 50}, Rotation: 12}
	cases := []Point{{X: 0, Y: 0}, {X: 6, Y: 0}, {X: -37, Y: 19}, {X: 1234.5, Y: -0.25}}
	for _, d := range cases {
		got := MoveBox(snap, d, container)
		assert.Equal(t, snap.Position.X+(d.X/container.Width)*100, got.Position.X)
		assert.Equal(t, snap.Position.Y+(d.Y/container.Height)*100, got.Position.Y)
		assert.Equal(t, snap.Size, got.Size, "move must not touch size")
		assert.Equal(t, snap.Rotation, got.Rotation, "move must not touch rotation")
	}
}

func TestMoveBoxIdempotent(t *testing.T) {
	snap := DefaultBox()
	d := Point{X: 33, Y: -12}
	first := MoveBox(snap, d, container)
	second := MoveBox(snap, d, container)
	assert.Equal(t, first, second)
}

func TestMoveBoxAllowsLeavingContainer(t *testing.T) {
	got := MoveBox(DefaultBox(), Point{X: 900, Y: -900}, container)
	assert.Greater(t, got.Position.X, 100.0)
	assert.Less(t, got.Position.Y, 0.0)
}

func TestResizeBottomRight(t *testing.T) {
	snap := DefaultBox()
	d := Point{X: 30, Y: 20}
	got := ResizeBox(snap, HandleBR, d, container, Size{})

	assert.InDelta(t, snap.Size.Width+d.X/container.Width*100, got.Size.Width, eps)
	assert.InDelta(t, snap.Size.Height+d.Y/container.Height*100, got.Size.Height, eps)
	assert.InDelta(t, snap.Position.X+d.X/container.Width*100/2, got.Position.X, eps)
	assert.InDelta(t, snap.Position.Y+d.Y/container.Height*100/2, got.Position.Y, eps)
	assert.Equal(t, snap.Rotation, got.Rotation)
}

func TestResizeHandlesMoveOnlyTheirEdges(t *testing.T) {
	snap := DefaultBox()
	d := Point{X: 60, Y: 40}
	dxPct := d.X / container.Width * 100
	dyPct := d.Y / container.Height * 100

	cases := []struct {
		handle   Handle
		dw, dh   float64
		dcx, dcy float64
	}{
		{HandleTL, -dxPct, -dyPct, dxPct / 2, dyPct / 2},
		{HandleT, 0, -dyPct, 0, dyPct / 2},
		{HandleTR, dxPct, -dyPct, dxPct / 2, dyPct / 2},
		{HandleL, -dxPct, 0, dxPct / 2, 0},
		{HandleR, dxPct, 0, dxPct / 2, 0},
		{HandleBL, -dxPct, dyPct, dxPct / 2, dyPct / 2},
		{HandleB, 0, dyPct, 0, dyPct / 2},
		{HandleBR, dxPct, dyPct, dxPct / 2, dyPct / 2},
	}
	for _, tc := range cases {
		t.Run(string(tc.handle), func(t *testing.T) {
			got := ResizeBox(snap, tc.handle, d, container, Size{})
			assert.InDelta(t, snap.Size.Width+tc.dw, got.Size.Width, eps)
			assert.InDelta(t, snap.Size.Height+tc.dh, got.Size.Height, eps)
			assert.InDelta(t, snap.Position.X+tc.dcx, got.Position.X, eps)
			assert.InDelta(t, snap.Position.Y+tc.dcy, got.Position.Y, eps)
		})
	}
}

func TestResizeLeftKeepsRightEdge(t *testing.T) {
	snap := DefaultBox()
	got := ResizeBox(snap, HandleL, Point{X: 120}, container, Size{})
	right := func(b Box) float64 { return b.Position.X + b.Size.Width/2 }
	assert.InDelta(t, right(snap), right(got), eps)
}

func TestResizeFreeformAllowsNegative(t *testing.T) {
	got := ResizeBox(DefaultBox(), HandleR, Point{X: -1000}, container, Size{})
	assert.Less(t, got.Size.Width, 0.0)
}

func TestResizeMinSizeAnchorsOppositeEdge(t *testing.T) {
	snap := DefaultBox()
	min := Size{Width: 1, Height: 1}

	got := ResizeBox(snap, HandleR, Point{X: -1000}, container, min)
	assert.Equal(t, 1.0, got.Size.Width)
	assert.InDelta(t, snap.Position.X-snap.Size.Width/2, got.Position.X-got.Size.Width/2, eps, "left edge stays put")

	got = ResizeBox(snap, HandleT, Point{Y: 1000}, container, min)
	assert.Equal(t, 1.0, got.Size.Height)
	assert.InDelta(t, snap.Position.Y+snap.Size.Height/2, got.Position.Y+got.Size.Height/2, eps, "bottom edge stays put")
	assert.Equal(t, snap.Size.Width, got.Size.Width, "untouched axis is not clamped")
}

func TestResizeWithRotateHandleIsNoop(t *testing.T) {
	snap := DefaultBox()
	assert.Equal(t, snap, ResizeBox(snap, HandleRotate, Point{X: 50, Y: 50}, container, Size{}))
}

func TestPointerAngle(t *testing.T) {
	c := Point{X: 10, Y: 10}
	assert.InDelta(t, 0.0, PointerAngle(c, Point{X: 20, Y: 10}), eps)
	assert.InDelta(t, 90.0, PointerAngle(c, Point{X: 10, Y: 20}), eps)
	assert.InDelta(t, 180.0, PointerAngle(c, Point{X: 0, Y: 10}), eps)
	assert.InDelta(t, -90.0, PointerAngle(c, Point{X: 10, Y: 0}), eps)
}

func TestRotateDeltaOnly(t *testing.T) {
	snap := DefaultBox()
	center := snap.Center(container)
	radius := 100.0
	at := func(deg float64) Point {
		rad := mgl64.DegToRad(deg)
		return Point{X: center.X + radius*math.Cos(rad), Y: center.Y + radius*math.Sin(rad)}
	}

	for _, r0 := range []float64{0, 15, -40, 400} {
		for _, pair := range [][2]float64{{10, 55}, {-120, -30}, {80, 20}} {
			snap.Rotation = r0
			g := Gesture{Kind: KindRotate, Start: at(pair[0]), Snapshot: snap, Container: container}
			g.AngleOffset = PointerAngle(center, g.Start) - r0
			got := g.Apply(at(pair[1]), DefaultOptions())
			assert.InDelta(t, r0+(pair[1]-pair[0]), got.Rotation, 1e-6)
			assert.Equal(t, snap.Position, got.Position)
			assert.Equal(t, snap.Size, got.Size)
		}
	}
}

func TestNormalizeDegrees(t *testing.T) {
	assert.InDelta(t, 10.0, NormalizeDegrees(370), eps)
	assert.InDelta(t, 350.0, NormalizeDegrees(-10), eps)
	assert.InDelta(t, 0.0, NormalizeDegrees(720), eps)
}

func TestHandleParsingAndEdges(t *testing.T) {
	for _, h := range ResizeHandles {
		parsed, err := ParseHandle(string(h))
		require.NoError(t, err)
		assert.Equal(t, h, parsed)
	}
	_, err := ParseHandle("middle")
	assert.Error(t, err)

	l, r, top, b := HandleRotate.Edges()
	assert.False(t, l || r || top || b, "rotate handle moves no edges")

	l, r, top, b = HandleTR.Edges()
	assert.Equal(t, []bool{false, true, true, false}, []bool{l, r, top, b})
}

func TestRectValid(t *testing.T) {
	assert.True(t, container.Valid())
	assert.False(t, Rect{}.Valid())
	assert.False(t, Rect{Width: 10}.Valid())
	assert.False(t, Rect{Width: math.Inf(1), Height: 10}.Valid())
}
