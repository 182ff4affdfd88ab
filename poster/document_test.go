package poster

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/posterly/dsl"
	"github.com/ByLCY/posterly/geometry"
)

func fromString(t *testing.T, src, baseDir string) (*Poster, []geometry.Stroke, error) {
	t.Helper()
	doc, err := dsl.ParseString(src)
	require.NoError(t, err)
	return FromDocument(doc, baseDir)
}

func TestFromDocument(t *testing.T) {
	p, strokes, err := fromString(t, `
poster Morning story {
  quote: "The best time is <b>now</b>."
  background: gradient Posterly 1
  font: Roboto Mono
  size: 40
  weight: normal
  style: italic
  align: left
  color: #112233
  padding: 20
  radius: 0
  shadow: 1
  box x 30 y 60 width 50
  gesture move { down 300 300; move 340 320; up }
  gesture resize br { down 500 400; move 540 420; up 560 430 }
  gesture rotate { down 336 120; move 400 130; cancel }
}`, "")
	require.NoError(t, err)

	assert.Equal(t, "Morning", p.Name)
	assert.Equal(t, "The best time is <b>now</b>.", p.Quote)
	assert.Equal(t, Story, p.Style.AspectRatio)
	assert.Equal(t, "Posterly 1", p.Style.Background.Gradient.Name)
	assert.Equal(t, "Roboto Mono", p.Style.FontFamily.Name)
	assert.Equal(t, 40.0, p.Style.FontSize)
	assert.False(t, p.Style.Bold())
	assert.True(t, p.Style.Italic())
	assert.Equal(t, "left", p.Style.TextAlign)
	assert.Equal(t, RGB(0x11, 0x22, 0x33), p.Style.TextColor)
	assert.Equal(t, 20.0, p.Style.Padding)
	assert.Equal(t, 0.0, p.Style.BorderRadius)
	assert.Equal(t, 1, p.Style.Shadow)

	// 未给出的 box 项保持默认
	assert.Equal(t, geometry.Box{Position: geometry.Point{X: 30, Y: 60}, Size: geometry.Size{Width: 50, Height: 50}}, p.Box)

	require.Len(t, strokes, 3)
	assert.Equal(t, geometry.Stroke{Kind: geometry.KindMove, Points: []geometry.Point{{X: 300, Y: 300}, {X: 340, Y: 320}}}, strokes[0])
	assert.Equal(t, geometry.HandleBR, strokes[1].Handle)
	assert.Equal(t, []geometry.Point{{X: 500, Y: 400}, {X: 540, Y: 420}, {X: 560, Y: 430}}, strokes[1].Points)
	assert.Equal(t, geometry.HandleRotate, strokes[2].Handle)
	assert.True(t, strokes[2].Cancel)
}

func TestFromDocumentBackgrounds(t *testing.T) {
	p, _, err := fromString(t, `poster P { background: solid #000 }`, "")
	require.NoError(t, err)
	assert.Equal(t, SolidBackground(RGB(0, 0, 0)), p.Style.Background)

	p, _, err = fromString(t, `poster P { background: #ff000080 }`, "")
	require.NoError(t, err)
	assert.Equal(t, 128, p.Style.Background.Color.A)

	p, _, err = fromString(t, `poster P { background: gradient #ff0000 #00ff00 #0000ff }`, "")
	require.NoError(t, err)
	assert.Len(t, p.Style.Background.Gradient.Colors, 3)

	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bg.png"), buf.Bytes(), 0o644))

	p, _, err = fromString(t, `poster P { background: image "bg.png" }`, dir)
	require.NoError(t, err)
	assert.Equal(t, BackgroundImage, p.Style.Background.Kind)
	assert.Equal(t, "image/png", p.Style.Background.MIMEType)
	assert.Equal(t, "bg.png", p.Style.Background.Src)
	assert.Equal(t, buf.Bytes(), p.Style.Background.Image)
}

func TestFromDocumentErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	cases := map[string]string{
		"unknown key":        "poster P {\n  colour: #fff\n}",
		"unknown command":    "poster P {\n  frame x 1\n}",
		"unknown aspect":     "poster P wide { }",
		"unknown gradient":   "poster P {\n  background: gradient Nope\n}",
		"unknown font":       "poster P {\n  font: Comic\n}",
		"not a number":       "poster P {\n  size: big\n}",
		"odd box args":       "poster P {\n  box x 1 y\n}",
		"bad handle":         "poster P {\n  gesture resize middle { down 1 1; up }\n}",
		"resize no handle":   "poster P {\n  gesture resize { down 1 1; up }\n}",
		"missing down":       "poster P {\n  gesture move { move 1 1; up }\n}",
		"missing up":         "poster P {\n  gesture move { down 1 1; move 2 2 }\n}",
		"steps after up":     "poster P {\n  gesture move { down 1 1; up; move 2 2 }\n}",
		"invalid style":      "poster P {\n  shadow: 9\n}",
		"missing image":      "poster P {\n  background: image \"nope.png\"\n}",
		"image not an image": "poster P {\n  background: image \"notes.txt\"\n}",
	}
	for name, src := range cases {
		_, _, err := fromString(t, src, dir)
		assert.Error(t, err, name)
	}
}

func TestFromDocumentErrorPosition(t *testing.T) {
	_, _, err := fromString(t, "poster P {\n  quote: \"x\"\n  colour: #fff\n}", "")
	require.Error(t, err)
	var dslErr *dsl.Error
	require.ErrorAs(t, err, &dslErr)
	assert.Equal(t, 3, dslErr.Pos.Line)
	assert.Contains(t, err.Error(), "colour")
}

func TestFormatBox(t *testing.T) {
	b := geometry.Box{Position: geometry.Point{X: 50, Y: 42.5}, Size: geometry.Size{Width: 80, Height: 50}, Rotation: -15}
	assert.Equal(t, "box x 50 y 42.5 width 80 height 50 rotate -15", FormatBox(b))

	doc, err := dsl.ParseString("poster P {\n  " + FormatBox(b) + "\n}")
	require.NoError(t, err)
	p, _, err := FromDocument(doc, "")
	require.NoError(t, err)
	assert.Equal(t, b, p.Box)
}
