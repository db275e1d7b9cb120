package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/scalebar/dsl"
)

const sampleDSL = `
// 电镜照片的比例尺
figure Micrograph v1 {
  width: 160mm
  height: 120mm
  meta {
    title: "SEM scan"
    keywords: [
      "sem"
      "calibration"
    ]
  }

  axes main {
    xlim: [0, 256]
    ylim: [256, 0]
    margin: 10mm
    background: #ddd
  }

  scalebar {
    dx: 0.5
    units: "um"
    length-fraction: 0.25
    location: "lower right"
    frameon: false; color: #FFFFFF
  }

  /* 双向比例尺 */
  dual-scalebar {
    dx: 1e-3
    dy: -2.5
    arrangement: "upper left"
    x { label: "width" }
    y {
      units: "cm"
    }
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Micrograph" {
		t.Fatalf("expected figure name Micrograph, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}

	assigns := doc.Body.Assignments()
	if len(assigns) != 2 || assigns[0].Key != "width" || assigns[0].Value.Raw() != "160mm" {
		t.Fatalf("unexpected figure assignments: %+v", assigns)
	}

	sections := doc.Body.Sections("")
	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(sections))
	}

	meta := doc.Body.Sections("meta")
	if len(meta) != 1 {
		t.Fatalf("meta section missing")
	}
	metaAssigns := meta[0].Block.Assignments()
	if got := string(*metaAssigns[0].Value.String); got != "SEM scan" {
		t.Fatalf("expected title SEM scan, got %s", got)
	}
	keywords := metaAssigns[1].Value.Array
	if keywords == nil || len(keywords.Values) != 2 {
		t.Fatalf("expected two keywords, got %+v", metaAssigns[1].Value)
	}

	axes := doc.Body.Sections("axes")[0]
	if axes.Name != "main" {
		t.Fatalf("expected axes name main, got %q", axes.Name)
	}
	ax := axes.Block.Assignments()
	if ax[0].Key != "xlim" || ax[0].Value.Array == nil || ax[0].Value.Array.Values[1].Raw() != "256" {
		t.Fatalf("unexpected xlim: %+v", ax[0])
	}
	if ax[3].Value.Color == nil || *ax[3].Value.Color != "#ddd" {
		t.Fatalf("expected color literal, got %+v", ax[3].Value)
	}
}

func TestParseScaleBarSections(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	bar := doc.Body.Sections("scalebar")[0].Block.Assignments()
	if len(bar) != 6 {
		t.Fatalf("expected 6 scalebar assignments, got %d", len(bar))
	}
	if bar[4].Key != "frameon" || bar[4].Value.Ident == nil || *bar[4].Value.Ident != "false" {
		t.Fatalf("expected frameon identifier, got %+v", bar[4])
	}
	if bar[5].Value.Raw() != "#FFFFFF" {
		t.Fatalf("six-digit colors must lex as one token, got %q", bar[5].Value.Raw())
	}

	dual := doc.Body.Sections("dual-scalebar")[0]
	da := dual.Block.Assignments()
	if da[0].Value.Raw() != "1e-3" || da[1].Value.Raw() != "-2.5" {
		t.Fatalf("unexpected numbers: %q %q", da[0].Value.Raw(), da[1].Value.Raw())
	}
	axes := dual.Block.Sections("")
	if len(axes) != 2 || axes[0].Kind != "x" || axes[1].Kind != "y" {
		t.Fatalf("expected x and y sub-sections, got %+v", axes)
	}
	if got := axes[1].Block.Assignments()[0].Value.Raw(); got != "cm" {
		t.Fatalf("expected y units cm, got %q", got)
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{
		`figure A v1 { width 10mm }`,
		`doc A v1 { }`,
		`figure A v1 { axes { xlim: [0, 1 }`,
	}
	for _, in := range cases {
		if _, err := dsl.Parse(strings.NewReader(in)); err == nil {
			t.Fatalf("expected parse error for %q", in)
		}
	}
}
