package dimension

import (
	"errors"
	"testing"
)

func TestLookupBuiltins(t *testing.T) {
	cases := map[string]string{
		FamilySILength:           "m",
		FamilySILengthReciprocal: "1/m",
		FamilyImperialLength:     "ft",
		FamilyPixelLength:        "px",
		FamilyAngle:              "deg",
		FamilyTime:               "s",
		FamilyAstronomicalLength: "pc",
	}
	for name, base := range cases {
		d, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", name, err)
		}
		if d.BaseUnit() != base {
			t.Fatalf("Lookup(%s) base = %s, want %s", name, d.BaseUnit(), base)
		}
	}
}

func TestLookupReturnsFreshInstances(t *testing.T) {
	a, _ := Lookup(FamilySILength)
	b, _ := Lookup(FamilySILength)
	if err := a.AddUnit("mil", 2.54e-5, ""); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if b.IsValidUnit("mil") {
		t.Fatalf("units added to one instance leaked into another")
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("furlongs-per-fortnight"); !errors.Is(err, ErrUnknownFamily) {
		t.Fatalf("expected ErrUnknownFamily, got %v", err)
	}
}

func TestRegisterCustomFamily(t *testing.T) {
	const name = "test-typographic"
	err := Register(name, func() *Dimension {
		d := New("pt")
		d.mustAdd("pc", 12, "")
		d.mustAdd("in", 72, "")
		return d
	})
	if err != nil && !errors.Is(err, ErrDuplicateFamily) {
		t.Fatalf("Register: %v", err)
	}
	if err := Register(name, Time); !errors.Is(err, ErrDuplicateFamily) {
		t.Fatalf("expected ErrDuplicateFamily, got %v", err)
	}
	d, err := Lookup(name)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	v, u, err := d.Preferred(144, "pt")
	if err != nil || u != "in" || v != 2 {
		t.Fatalf("Preferred = %g %s (%v), want 2 in", v, u, err)
	}
}

func TestRegisterRejectsIncompleteFamily(t *testing.T) {
	if err := Register("", Time); !errors.Is(err, ErrInvalidFamily) {
		t.Fatalf("empty name: expected ErrInvalidFamily, got %v", err)
	}
	if err := Register("test-nil-factory", nil); !errors.Is(err, ErrInvalidFamily) {
		t.Fatalf("nil factory: expected ErrInvalidFamily, got %v", err)
	}
	if _, err := Lookup("test-nil-factory"); !errors.Is(err, ErrUnknownFamily) {
		t.Fatalf("rejected family must not be registered, got %v", err)
	}
}
