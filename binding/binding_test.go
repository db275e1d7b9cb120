package binding

import "testing"

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"sample": map[string]any{"name": "Cu grid", "tags": []any{"sem", "20kV"}},
		"mag":    5000,
	}
	cases := map[string]string{
		"${sample.name} @ ${mag}x": "Cu grid @ 5000x",
		"${sample.tags[1]}":        "20kV",
		"${missing}":               "${missing}",
		"${sample.tags[9]}":        "${sample.tags[9]}",
		"plain":                    "plain",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("nil data must leave text untouched, got %q", got)
	}
}

func TestScaleFormatter(t *testing.T) {
	f := ScaleFormatter("${value} ${unit} (${detector})", map[string]any{"detector": "SE2"})
	if got := f(2.5, "µm"); got != "2.5 µm (SE2)" {
		t.Fatalf("formatter = %q", got)
	}
	if got := f(200, "nm"); got != "200 nm (SE2)" {
		t.Fatalf("formatter = %q", got)
	}

	bare := ScaleFormatter("≈${value}${unit}", nil)
	if got := bare(5, "m"); got != "≈5m" {
		t.Fatalf("formatter = %q", got)
	}
}

func TestHasPlaceholders(t *testing.T) {
	if !HasPlaceholders("${x}") || HasPlaceholders("$x {y}") {
		t.Fatalf("HasPlaceholders mismatch")
	}
}

func TestInterpolatePaths(t *testing.T) {
	data := map[string]any{
		"grid":  []any{[]any{"a0", "a1"}, []string{"b0", "b1"}},
		"probe": map[string]string{"kv": "15"},
	}
	cases := map[string]string{
		"${grid[1][0]}":   "b0",
		"${grid[0][1]}":   "a1",
		"${ probe.kv }kV": "15kV",
		"${grid[x]}":      "${grid[x]}",
		"${grid[0]x}":     "${grid[0]x}",
		"${}":             "${}",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
}
