package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/posterly/geometry"
	"github.com/ByLCY/posterly/poster"
)

var container = geometry.Rect{Left: 0, Top: 0, Width: 600, Height: 600}

func mounted(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s := NewSession(poster.New("test", "hello"), opts...)
	s.Mount(container)
	require.True(t, s.Mounted())
	return s
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession(nil)
	assert.NotEqual(t, uuid.Nil, s.ID())
	assert.Equal(t, geometry.DefaultBox(), s.Box())
	assert.False(t, s.Selected())
	assert.False(t, s.Editing())
	assert.False(t, s.Mounted())
	assert.NotEqual(t, s.ID(), NewSession(nil).ID())
}

func TestUnmountedPointerIsNoOp(t *testing.T) {
	s := NewSession(nil)
	assert.Equal(t, geometry.OutcomeIgnored, s.PointerDown(Body, geometry.Point{X: 10, Y: 10}))
	assert.Equal(t, geometry.OutcomeNone, s.PointerMove(geometry.Point{X: 100, Y: 100}))
	assert.Equal(t, geometry.OutcomeNone, s.PointerUp(geometry.Point{X: 100, Y: 100}))
	assert.Equal(t, geometry.DefaultBox(), s.Box())
	assert.False(t, s.Selected())

	assert.ErrorIs(t, s.Replay([]geometry.Stroke{{Kind: geometry.KindMove, Points: []geometry.Point{{}}}}), ErrNotMounted)
}

func TestClickSelects(t *testing.T) {
	s := mounted(t)
	require.Equal(t, geometry.OutcomeArmed, s.PointerDown(Body, geometry.Point{X: 300, Y: 300}))
	s.PointerMove(geometry.Point{X: 302, Y: 301})
	assert.Equal(t, geometry.OutcomeClick, s.PointerUp(geometry.Point{X: 302, Y: 301}))
	assert.True(t, s.Selected())
	assert.Equal(t, geometry.DefaultBox(), s.Box())
}

func TestDragUpdatesPosterAndObserver(t *testing.T) {
	var seen []geometry.Box
	s := mounted(t, OnChange(func(b geometry.Box) { seen = append(seen, b) }))

	s.PointerDown(Body, geometry.Point{X: 300, Y: 300})
	s.PointerMove(geometry.Point{X: 330, Y: 300})
	s.PointerMove(geometry.Point{X: 360, Y: 360})
	assert.Equal(t, geometry.OutcomeEnded, s.PointerUp(geometry.Point{X: 360, Y: 360}))

	require.Len(t, seen, 2)
	assert.InDelta(t, 60.0, s.Box().Position.X, 1e-9)
	assert.InDelta(t, 60.0, s.Box().Position.Y, 1e-9)
	assert.Equal(t, s.Box(), s.Poster().Box)
	assert.False(t, s.Selected(), "a drag is not a click")
}

func TestEditingOwnsPointer(t *testing.T) {
	s := mounted(t)
	s.DoubleClick()
	assert.True(t, s.Editing())
	assert.True(t, s.Selected())
	assert.Equal(t, geometry.OutcomeIgnored, s.PointerDown(Body, geometry.Point{X: 300, Y: 300}))

	require.NoError(t, s.ClickOutside("<b>new</b> words"))
	assert.False(t, s.Editing())
	assert.False(t, s.Selected())
	assert.Equal(t, "<b>new</b> words", s.Poster().Quote)
	assert.Equal(t, geometry.OutcomeArmed, s.PointerDown(Body, geometry.Point{X: 300, Y: 300}))
}

func TestClickOutsideWithoutEditingKeepsQuote(t *testing.T) {
	s := mounted(t)
	require.NoError(t, s.ClickOutside("ignored"))
	assert.Equal(t, "hello", s.Poster().Quote)
}

func TestQuoteLengthLimit(t *testing.T) {
	s := mounted(t)
	full := strings.Repeat("a", MaxQuoteLength)
	require.NoError(t, s.SetQuote(full))

	err := s.SetQuote(full + "b")
	assert.True(t, errors.Is(err, ErrQuoteTooLong))
	assert.Equal(t, full, s.Poster().Quote)

	assert.ErrorIs(t, s.InsertEmoji("🔥"), ErrQuoteTooLong)

	// markup does not count towards the limit
	require.NoError(t, s.SetQuote("<b>"+full+"</b>"))
	require.NoError(t, s.SetQuote("short"))
}

func TestShrinkingOverLimitQuoteAllowed(t *testing.T) {
	p := poster.New("long", strings.Repeat("x", 200))
	s := NewSession(p)
	require.NoError(t, s.SetQuote(strings.Repeat("x", 180)))
	assert.ErrorIs(t, s.SetQuote(strings.Repeat("x", 190)), ErrQuoteTooLong)
}

func TestInsertEmojiAppends(t *testing.T) {
	s := mounted(t)
	require.NoError(t, s.InsertEmoji("✨"))
	require.NoError(t, s.InsertEmoji(""))
	assert.Equal(t, "hello✨", s.Poster().Quote)
}

func TestAdjustFontSize(t *testing.T) {
	s := mounted(t)
	assert.Equal(t, 34.0, s.AdjustFontSize(2))
	assert.Equal(t, 30.0, s.AdjustFontSize(-4))
	assert.Equal(t, 30.0, s.Poster().Style.FontSize)
	assert.Equal(t, 1.0, s.AdjustFontSize(-100))
	assert.Equal(t, 3.0, s.AdjustFontSize(2))
}

func TestReplay(t *testing.T) {
	s := mounted(t)
	err := s.Replay([]geometry.Stroke{
		{Kind: geometry.KindMove, Points: []geometry.Point{{X: 300, Y: 300}, {X: 360, Y: 300}}},
		{Kind: geometry.KindResize, Handle: geometry.HandleBR, Points: []geometry.Point{{X: 500, Y: 450}, {X: 530, Y: 480}}},
		{Kind: geometry.KindMove, Points: []geometry.Point{{X: 10, Y: 10}}},
	})
	require.NoError(t, err)

	b := s.Box()
	assert.InDelta(t, 85.0, b.Size.Width, 1e-9)  // 480px + 30px over 600px
	assert.InDelta(t, 55.0, b.Size.Height, 1e-9) // 300px + 30px over 600px
	assert.True(t, s.Selected(), "the final sub-threshold stroke is a click")
	assert.Equal(t, geometry.PhaseIdle, s.Phase())

	assert.Error(t, s.Replay([]geometry.Stroke{{Kind: geometry.KindResize, Points: []geometry.Point{{}}}}))
}

func TestReplayCancelAndEditing(t *testing.T) {
	s := mounted(t)
	before := s.Box()
	require.NoError(t, s.Replay([]geometry.Stroke{
		{Kind: geometry.KindRotate, Handle: geometry.HandleRotate, Points: []geometry.Point{{X: 300, Y: 100}, {X: 302, Y: 101}}, Cancel: true},
	}))
	assert.Equal(t, before, s.Box())
	assert.False(t, s.Selected(), "a cancelled stroke is not a click")
	assert.Equal(t, geometry.PhaseIdle, s.Phase())

	s.DoubleClick()
	require.NoError(t, s.Replay([]geometry.Stroke{
		{Kind: geometry.KindMove, Points: []geometry.Point{{X: 300, Y: 300}, {X: 400, Y: 300}}},
	}))
	assert.Equal(t, before, s.Box(), "strokes are ignored while editing text")
}

func TestUnmountCancelsGesture(t *testing.T) {
	s := mounted(t)
	s.PointerDown(HandleTarget(geometry.HandleRotate), geometry.Point{X: 300, Y: 100})
	require.Equal(t, geometry.PhaseArmedPending, s.Phase())
	s.Unmount()
	assert.Equal(t, geometry.PhaseIdle, s.Phase())
	assert.False(t, s.Mounted())
}

func TestHandleTarget(t *testing.T) {
	assert.Equal(t, Target{Kind: geometry.KindRotate, Handle: geometry.HandleRotate}, HandleTarget(geometry.HandleRotate))
	assert.Equal(t, Target{Kind: geometry.KindResize, Handle: geometry.HandleTL}, HandleTarget(geometry.HandleTL))
}
