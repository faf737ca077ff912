package definition

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/archdiagram/pkg/designs"
	"github.com/matzehuels/archdiagram/pkg/diagram"
	apperrors "github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/render/nodelink"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.toml", FormatTOML, false},
		{"dir/A.TOML", FormatTOML, false},
		{"a.yaml", FormatYAML, false},
		{"a.yml", FormatYAML, false},
		{"a.json", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
			t.Errorf("FormatFromPath(%q) = %v, want INVALID_FORMAT", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadMatchesBuiltIn(t *testing.T) {
	want, err := nodelink.ToDOT(designs.SimpleWebAPI.Diagram())
	if err != nil {
		t.Fatal(err)
	}

	for _, file := range []string{"simple-web-api.toml", "simple-web-api.yaml"} {
		t.Run(file, func(t *testing.T) {
			def, err := Load(filepath.Join("testdata", file))
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			d, err := def.Compile()
			if err != nil {
				t.Fatalf("Compile() error: %v", err)
			}
			if d.Filename() != "03-des-diagram" {
				t.Errorf("Filename() = %q", d.Filename())
			}
			got, err := nodelink.ToDOT(d)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("DOT differs from the built-in design\n got: %s\nwant: %s", got, want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		code apperrors.Code
	}{
		{"Missing", filepath.Join("testdata", "missing.toml"), apperrors.ErrCodeFileNotFound},
		{"Extension", filepath.Join("testdata", "design.json"), apperrors.ErrCodeInvalidFormat},
		{"Invalid", filepath.Join("testdata", "invalid.toml"), apperrors.ErrCodeInvalidDefinition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if !apperrors.Is(err, tt.code) {
				t.Errorf("Load(%q) = %v, want %s", tt.path, err, tt.code)
			}
		})
	}
}

func TestValidateReportsEverything(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "invalid.toml"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = Decode(data, FormatTOML)
	if err == nil {
		t.Fatal("Decode() should fail")
	}
	for _, want := range []string{
		"name is required",
		"unknown direction",
		"unknown node kind",
		`duplicate node id "a"`,
		`unknown target node "ghost"`,
		"unknown line style",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q:\n%v", want, err)
		}
	}
}

func TestDecodeSyntaxErrors(t *testing.T) {
	if _, err := Decode([]byte("name = "), FormatTOML); !apperrors.Is(err, apperrors.ErrCodeInvalidDefinition) {
		t.Errorf("TOML syntax error = %v", err)
	}
	if _, err := Decode([]byte("name: [unclosed"), FormatYAML); !apperrors.Is(err, apperrors.ErrCodeInvalidDefinition) {
		t.Errorf("YAML syntax error = %v", err)
	}
	if _, err := Decode([]byte("name: x\ncolour: red\n"), FormatYAML); !apperrors.Is(err, apperrors.ErrCodeInvalidDefinition) {
		t.Errorf("YAML unknown field = %v, want INVALID_DEFINITION", err)
	}
	if _, err := Decode([]byte("name = \"x\"\ncolour = \"red\"\n"), FormatTOML); err == nil || !strings.Contains(err.Error(), "colour") {
		t.Errorf("TOML unknown key = %v, want error naming the key", err)
	}
	if _, err := Decode(nil, Format("ini")); !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format = %v, want INVALID_FORMAT", err)
	}
}

func TestDecodeMinimal(t *testing.T) {
	def, err := Decode([]byte(`
name = "Two Tier"

[[nodes]]
id = "web"
kind = "Web-App"
label = "Web"

[[nodes]]
id = "db"
kind = "cosmosdb"
label = "DB"

[[edges]]
from = "web"
to = "db"
dir = "both"
attrs = { penwidth = "2" }
`), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	d, err := def.Compile(diagram.WithOutputDir("out"))
	if err != nil {
		t.Fatal(err)
	}
	if d.Path() != filepath.Join("out", "two_tier.png") {
		t.Errorf("Path() = %q", d.Path())
	}
	if d.Direction() != diagram.LeftToRight {
		t.Errorf("Direction() = %q, want default LR", d.Direction())
	}
	e := d.Edges()[0]
	if e.Dir() != diagram.Both || e.Attrs()["penwidth"] != "2" {
		t.Errorf("edge dir=%q attrs=%v", e.Dir(), e.Attrs())
	}
	if d.Nodes()[1].Kind() != diagram.KindDatabase {
		t.Errorf("kind alias not resolved: %v", d.Nodes()[1].Kind())
	}
}

func TestNodeIDs(t *testing.T) {
	def, err := Load(filepath.Join("testdata", "simple-web-api.toml"))
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Join(def.NodeIDs(), ",")
	if got != "users,swa,fn,storage,cosmos,insights" {
		t.Errorf("NodeIDs() = %s", got)
	}
}

// Removing any single node, together with its edges, still yields a
// diagram that renders.
func TestWithoutNodeRenders(t *testing.T) {
	def, err := Load(filepath.Join("testdata", "simple-web-api.toml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range def.NodeIDs() {
		t.Run(id, func(t *testing.T) {
			trimmed := def.WithoutNode(id)
			d, err := trimmed.Compile()
			if err != nil {
				t.Fatalf("Compile() error: %v", err)
			}
			if got := len(d.Nodes()); got != 5 {
				t.Errorf("nodes = %d, want 5", got)
			}
			for _, e := range trimmed.Edges {
				if e.From == id || e.To == id {
					t.Errorf("edge %s -> %s still references %s", e.From, e.To, id)
				}
			}
			var buf bytes.Buffer
			if err := nodelink.NewRenderer().Render(context.Background(), d, &buf); err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
				t.Error("output is not a PNG")
			}
		})
	}

	if len(def.NodeIDs()) != 6 || len(def.Edges) != 6 {
		t.Error("WithoutNode should not modify the original definition")
	}
}
