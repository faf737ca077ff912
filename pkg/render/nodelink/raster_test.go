package nodelink

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func renderImage(t *testing.T, dot string) image.Image {
	t.Helper()
	var buf bytes.Buffer
	if err := RenderPNG(context.Background(), dot, &buf); err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode PNG: %v", err)
	}
	return img
}

func dark(c color.Color) bool {
	r, g, b, a := c.RGBA()
	return a >= 0x8000 && (r+g+b)/3 < 0x8000
}

// darkRuns returns the lengths of the vertical runs of dark pixels in
// column x, top to bottom.
func darkRuns(img image.Image, x int) []int {
	var runs []int
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if dark(img.At(x, y)) {
			n++
			continue
		}
		if n > 0 {
			runs = append(runs, n)
			n = 0
		}
	}
	if n > 0 {
		runs = append(runs, n)
	}
	return runs
}

func TestRenderPNGStrokes(t *testing.T) {
	img := renderImage(t, `digraph G { a [label=""]; b [label=""]; a -> b [arrowhead=none]; }`)
	b := img.Bounds()

	// The center column crosses the top outline of a, then the bottom of a,
	// the edge and the top of b as one line, then the bottom outline of b.
	// The unfilled interiors separate them.
	runs := darkRuns(img, b.Min.X+b.Dx()/2)
	if len(runs) != 3 {
		t.Fatalf("dark runs in center column = %v, want 3 (outline, edge, outline)", runs)
	}
	if runs[0] > 6 || runs[2] > 6 {
		t.Errorf("outline runs = %d and %d px, want thin strokes", runs[0], runs[2])
	}
	if runs[1] < 40 {
		t.Errorf("edge run = %d px, want a drawn edge line", runs[1])
	}
}

func TestRenderPNGText(t *testing.T) {
	img := renderImage(t, `digraph G { a [shape=plaintext label="WWW"]; }`)
	b := img.Bounds()

	minX, maxX, count := b.Max.X, b.Min.X, 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if dark(img.At(x, y)) {
				count++
				minX, maxX = min(minX, x), max(maxX, x)
			}
		}
	}
	if count < 50 {
		t.Fatalf("dark pixels = %d, want the label glyphs", count)
	}
	center := float64(minX+maxX) / 2
	if mid := float64(b.Min.X+b.Max.X) / 2; center < mid*0.85 || center > mid*1.15 {
		t.Errorf("label centered at x=%.0f, want near %.0f", center, mid)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), `digraph G { a -> b; }`)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	for _, want := range []string{"<svg", "<ellipse", "<path"} {
		if !bytes.Contains(svg, []byte(want)) {
			t.Errorf("SVG missing %s", want)
		}
	}
}

func TestNormalizeSVG(t *testing.T) {
	in := `<svg width="83pt" height="155pt" viewBox="0.00 0.00 83.00 155.00">` +
		`<polygon fill="white" stroke="transparent" points="0,0 1,1"/></svg>`
	got := string(normalizeSVG([]byte(in)))

	if strings.Contains(got, "width=") || strings.Contains(got, "height=") {
		t.Errorf("root size should be dropped: %s", got)
	}
	if !strings.Contains(got, `viewBox="0.00 0.00 83.00 155.00"`) {
		t.Errorf("viewBox should be kept: %s", got)
	}
	if !strings.Contains(got, `stroke="none"`) {
		t.Errorf("transparent paint should become none: %s", got)
	}
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		in           string
		x, y         float64
		wantX, wantY float64
	}{
		{"scale(1 1) rotate(0) translate(4 159)", 27, -18, 31, 141},
		{"scale(2) translate(1,2)", 0, 0, 2, 4},
		{"translate(3)", 1, 1, 4, 1},
		{"", 5, 6, 5, 6},
	}
	for _, tt := range tests {
		x, y := parseTransform(tt.in).apply(tt.x, tt.y)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("parseTransform(%q).apply(%g, %g) = (%g, %g), want (%g, %g)", tt.in, tt.x, tt.y, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestSVGTexts(t *testing.T) {
	svg := `<svg viewBox="0 0 10 10"><g transform="translate(4 100)">` +
		`<text text-anchor="middle" x="1" y="-2" font-family="Times" font-size="13.00" fill="#2d3436">a &amp; b</text>` +
		`<text x="0" y="0" font-weight="bold"> </text>` +
		`</g><text text-anchor="end" x="2" y="3">end</text></svg>`
	texts, err := svgTexts([]byte(svg))
	if err != nil {
		t.Fatalf("svgTexts() error: %v", err)
	}
	if len(texts) != 2 {
		t.Fatalf("texts = %+v, want 2 (blank runs dropped)", texts)
	}

	want := svgText{x: 5, y: 98, anchor: 0.5, size: 13, fill: "#2d3436", text: "a & b"}
	if texts[0] != want {
		t.Errorf("texts[0] = %+v, want %+v", texts[0], want)
	}
	if texts[1].x != 2 || texts[1].y != 3 || texts[1].anchor != 1 || texts[1].fill != "black" {
		t.Errorf("texts[1] = %+v, want untransformed end-anchored black text", texts[1])
	}
}

func TestToPNGEmpty(t *testing.T) {
	if _, err := toPNG([]byte(`<svg viewBox="0 0 0 0"></svg>`), pngScale); err == nil {
		t.Error("toPNG() should reject an SVG without area")
	}
}
