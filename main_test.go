package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ByLCY/scalebar/config"
	canvasrenderer "github.com/ByLCY/scalebar/renderer/canvas"
	"github.com/ByLCY/scalebar/scalebar"
)

func TestResolveAuto(t *testing.T) {
	assert := assert.New(t)

	// 90 px * 0.5 µm = 45 µm → 25 µm
	res, err := resolve(resolveOptions{dx: 0.5, units: "um", dimension: "si-length", lengthPx: 90})
	assert.NoError(err)
	assert.Equal(25.0, res.Value)
	assert.Equal("25 µm", res.Text)
	assert.InDelta(50, res.LengthPx, 1e-9)

	var buf bytes.Buffer
	assert.NoError(printResolution(&buf, res, false))
	assert.Contains(buf.String(), "25 µm\t")

	buf.Reset()
	assert.NoError(printResolution(&buf, res, true))
	assert.Contains(buf.String(), `"text":"25 µm"`)
}

func TestResolveFixed(t *testing.T) {
	assert := assert.New(t)

	res, err := resolve(resolveOptions{dx: 0.5, units: "um", dimension: "si-length", fixed: true, fixedValue: 200, fixedUnits: "nm"})
	assert.NoError(err)
	assert.Equal("200 nm", res.Text)
	assert.InDelta(0.4, res.LengthPx, 1e-9)

	res, err = resolve(resolveOptions{dx: 2, units: "deg", dimension: "angle", fixed: true, fixedValue: 30, fixedUnits: "'"})
	assert.NoError(err)
	assert.Equal("30′", res.Text)
	assert.InDelta(0.25, res.LengthPx, 1e-9)
}

func TestResolveErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := resolve(resolveOptions{dx: 1, units: "m", dimension: "volume", lengthPx: 10})
	assert.Error(err)
	_, err = resolve(resolveOptions{dx: 1, units: "furlong", dimension: "si-length", lengthPx: 10})
	assert.Error(err)
	_, err = resolve(resolveOptions{dx: 0, units: "m", dimension: "si-length", lengthPx: 10})
	assert.ErrorIs(err, scalebar.ErrZeroCalibration)
}

func TestListUnits(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	assert.NoError(listUnits(&buf, ""))
	assert.Contains(buf.String(), "si-length\n")
	assert.Contains(buf.String(), "angle\n")

	buf.Reset()
	assert.NoError(listUnits(&buf, "angle"))
	assert.Contains(buf.String(), "deg")
	assert.Contains(buf.String(), "″")

	assert.Error(listUnits(&buf, "volume"))
}

func TestRunRendersFigure(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "fig.sbar")
	assert.NoError(os.WriteFile(input, []byte(`
figure Demo v1 {
  width: 60mm
  height: 60mm
  axes { xlim: [0, 256]; ylim: [256, 0]; margin: 5mm }
  scalebar { dx: 0.5; units: "um"; label: "${sample}" }
}
`), 0o644))

	opts := renderOptions{
		input:  input,
		output: filepath.Join(dir, "out", "fig.svg"),
		debug:  filepath.Join(dir, "out", "layout.json"),
	}
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Format: canvasrenderer.FormatSVG})
	err := run(opts, map[string]any{"sample": "Cu grid"}, scalebar.NewDefaults(), r)
	assert.NoError(err)

	svg, err := os.ReadFile(opts.output)
	assert.NoError(err)
	assert.Contains(string(svg), "<svg")

	debug, err := os.ReadFile(opts.debug)
	assert.NoError(err)
	assert.Contains(string(debug), `"scaleText": "25 µm"`)
	assert.Contains(string(debug), `"label": "Cu grid"`)

	assert.Error(run(renderOptions{input: filepath.Join(dir, "missing.sbar")}, nil, scalebar.NewDefaults(), r))
	assert.Error(run(opts, nil, scalebar.NewDefaults(), nil))
}

func TestLoadDefaultsFrom(t *testing.T) {
	assert := assert.New(t)

	rc := filepath.Join(t.TempDir(), "rc.toml")
	assert.NoError(os.WriteFile(rc, []byte("[scalebar]\nlocation = \"lower left\"\n"), 0o644))
	d, err := loadDefaultsFrom(config.New(), rc)
	assert.NoError(err)
	assert.Equal("lower left", d.Location)
}

func TestNewPlot(t *testing.T) {
	assert := assert.New(t)

	o := plotOptions{dx: 0.5, dy: 0.5, units: "um", dimension: "si-length", xmax: 256, ymax: 128, title: "preview"}
	p, err := newPlot(o, scalebar.NewDefaults())
	assert.NoError(err)
	assert.Equal("preview", p.Title.Text)
	assert.Equal(256.0, p.X.Max)

	o.dual = true
	_, err = newPlot(o, scalebar.NewDefaults())
	assert.NoError(err)

	o.location = "nowhere"
	_, err = newPlot(o, scalebar.NewDefaults())
	assert.Error(err)
}
