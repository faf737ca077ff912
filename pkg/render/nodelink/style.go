package nodelink

import "github.com/matzehuels/archdiagram/pkg/diagram"

const (
	fontName  = "Sans-Serif"
	fontColor = "#2D3436"
)

var defaultGraphAttrs = map[string]string{
	"pad":       "2.0",
	"splines":   "ortho",
	"nodesep":   "0.60",
	"ranksep":   "0.75",
	"fontname":  fontName,
	"fontsize":  "15",
	"fontcolor": fontColor,
	"labelloc":  "t",
}

var defaultClusterAttrs = map[string]string{
	"style":     "rounded",
	"labeljust": "l",
	"pencolor":  "#AEB6BE",
	"fontname":  fontName,
	"fontsize":  "12",
	"fontcolor": fontColor,
	"margin":    "16",
}

// clusterBackgrounds cycle with nesting depth, starting at depth 1.
var clusterBackgrounds = []string{"#E5F5FD", "#EBF3E7", "#ECE8F6", "#FDF7E3"}

var defaultNodeAttrs = map[string]string{
	"fontname":  fontName,
	"fontsize":  "13",
	"fontcolor": fontColor,
	"margin":    "0.2,0.1",
	"penwidth":  "1.5",
}

var defaultEdgeAttrs = map[string]string{
	"color":     "#7B8894",
	"fontname":  fontName,
	"fontsize":  "13",
	"fontcolor": fontColor,
}

// kindStyle is the shape and palette drawn for a node kind.
type kindStyle struct {
	shape string
	style string
	fill  string
	line  string
}

var kindStyles = map[diagram.Kind]kindStyle{
	diagram.KindWebApp:      {shape: "box", style: "rounded,filled", fill: "#DCEEFB", line: "#0078D4"},
	diagram.KindFunctionApp: {shape: "box", style: "rounded,filled", fill: "#FFF4CE", line: "#C19C00"},
	diagram.KindDatabase:    {shape: "cylinder", style: "filled", fill: "#E6F4EA", line: "#107C10"},
	diagram.KindMonitoring:  {shape: "note", style: "filled", fill: "#F3E8FD", line: "#8661C5"},
	diagram.KindStorage:     {shape: "box3d", style: "filled", fill: "#E1F5FE", line: "#0063B1"},
	diagram.KindClient:      {shape: "ellipse", style: "filled", fill: "#F2F2F2", line: "#505050"},
}

// fallbackStyle is drawn for kinds without an entry in kindStyles.
var fallbackStyle = kindStyle{shape: "box", style: "rounded,filled", fill: "#FFFFFF", line: "#7B8894"}

func clusterBackground(depth int) string {
	if depth < 1 {
		depth = 1
	}
	return clusterBackgrounds[(depth-1)%len(clusterBackgrounds)]
}

func (s kindStyle) attrs() map[string]string {
	return map[string]string{
		"shape":     s.shape,
		"style":     s.style,
		"fillcolor": s.fill,
		"color":     s.line,
	}
}
