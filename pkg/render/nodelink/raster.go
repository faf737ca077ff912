package nodelink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// pngScale is the number of pixels per SVG point in rasterized images.
const pngScale = 2.0

var (
	svgTagRe    = regexp.MustCompile(`<svg[^>]*>`)
	svgSizeRe   = regexp.MustCompile(`\s(width|height)="[^"]*"`)
	transformRe = regexp.MustCompile(`(\w+)\(([^)]*)\)`)
)

// toPNG rasterizes Graphviz SVG output to PNG with the given scale factor.
// Shapes and strokes are drawn by oksvg; text, which oksvg skips, is drawn
// afterwards with the Go fonts at the positions Graphviz laid it out.
func toPNG(svg []byte, scale float64) ([]byte, error) {
	svg = normalizeSVG(svg)

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("read SVG: %w", err)
	}
	vb := icon.ViewBox
	w, h := int(math.Ceil(vb.W*scale)), int(math.Ceil(vb.H*scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("SVG has no drawable area (viewBox %gx%g)", vb.W, vb.H)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	texts, err := svgTexts(svg)
	if err != nil {
		return nil, fmt.Errorf("read SVG text: %w", err)
	}
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	sx, sy := float64(w)/vb.W, float64(h)/vb.H
	dc := gg.NewContextForRGBA(img)
	for _, t := range texts {
		col, err := oksvg.ParseSVGColor(t.fill)
		if err != nil || col == nil {
			continue
		}
		f := fonts.regular
		if t.bold {
			f = fonts.bold
		}
		dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: t.size * sy, Hinting: font.HintingNone}))
		dc.SetColor(col)
		dc.DrawStringAnchored(t.text, (t.x-vb.X)*sx, (t.y-vb.Y)*sy, t.anchor, 0)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// normalizeSVG drops the point-based width and height of the root element,
// leaving the viewBox to define the canvas, and maps the "transparent" paint
// Graphviz emits to "none".
func normalizeSVG(svg []byte) []byte {
	svg = svgTagRe.ReplaceAllFunc(svg, func(tag []byte) []byte {
		return svgSizeRe.ReplaceAll(tag, nil)
	})
	return bytes.ReplaceAll(svg, []byte(`"transparent"`), []byte(`"none"`))
}

type fontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
}

var loadFonts = sync.OnceValues(func() (fontSet, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fontSet{}, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return fontSet{}, fmt.Errorf("parse bold font: %w", err)
	}
	return fontSet{regular: regular, bold: bold}, nil
})

// svgText is one <text> run in viewBox coordinates. y is the baseline.
type svgText struct {
	x, y   float64
	anchor float64 // 0 start, 0.5 middle, 1 end
	size   float64
	bold   bool
	fill   string
	text   string
}

// svgTexts collects the text runs of an SVG document, resolving the
// transforms of enclosing elements.
func svgTexts(svg []byte) ([]svgText, error) {
	dec := xml.NewDecoder(bytes.NewReader(svg))
	dec.Entity = xml.HTMLEntity

	var (
		stack = []affine{identity}
		out   []svgText
		cur   *svgText
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			m := stack[len(stack)-1]
			if tr, ok := attr(t, "transform"); ok {
				m = m.then(parseTransform(tr))
			}
			stack = append(stack, m)
			if t.Name.Local == "text" {
				cur = newSVGText(t, m)
			}
		case xml.CharData:
			if cur != nil {
				cur.text += string(t)
			}
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			if t.Name.Local == "text" && cur != nil {
				if strings.TrimSpace(cur.text) != "" {
					out = append(out, *cur)
				}
				cur = nil
			}
		}
	}
}

func newSVGText(el xml.StartElement, m affine) *svgText {
	t := &svgText{size: 14, fill: "black"}
	x, _ := attr(el, "x")
	y, _ := attr(el, "y")
	t.x, t.y = m.apply(parseNum(x), parseNum(y))
	if v, ok := attr(el, "font-size"); ok {
		t.size = parseNum(v) * m.sy
	}
	if v, ok := attr(el, "fill"); ok {
		t.fill = v
	}
	if v, _ := attr(el, "font-weight"); v == "bold" {
		t.bold = true
	}
	switch v, _ := attr(el, "text-anchor"); v {
	case "middle":
		t.anchor = 0.5
	case "end":
		t.anchor = 1
	}
	return t
}

func attr(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func parseNum(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

// affine is a scale followed by a translation, the only transforms Graphviz
// puts on its SVG groups.
type affine struct {
	sx, sy, tx, ty float64
}

var identity = affine{sx: 1, sy: 1}

func (a affine) apply(x, y float64) (float64, float64) {
	return a.sx*x + a.tx, a.sy*y + a.ty
}

// then returns the transform applying b first and a second.
func (a affine) then(b affine) affine {
	return affine{
		sx: a.sx * b.sx,
		sy: a.sy * b.sy,
		tx: a.sx*b.tx + a.tx,
		ty: a.sy*b.ty + a.ty,
	}
}

// parseTransform reads an SVG transform list of scale and translate
// operations. rotate(0) is accepted and other operations are ignored.
func parseTransform(s string) affine {
	m := identity
	for _, op := range transformRe.FindAllStringSubmatch(s, -1) {
		args := strings.FieldsFunc(op[2], func(r rune) bool { return r == ',' || r == ' ' })
		nums := make([]float64, len(args))
		for i, a := range args {
			nums[i] = parseNum(a)
		}
		switch {
		case op[1] == "scale" && len(nums) == 1:
			m = m.then(affine{sx: nums[0], sy: nums[0]})
		case op[1] == "scale" && len(nums) >= 2:
			m = m.then(affine{sx: nums[0], sy: nums[1]})
		case op[1] == "translate" && len(nums) == 1:
			m = m.then(affine{sx: 1, sy: 1, tx: nums[0]})
		case op[1] == "translate" && len(nums) >= 2:
			m = m.then(affine{sx: 1, sy: 1, tx: nums[0], ty: nums[1]})
		}
	}
	return m
}
