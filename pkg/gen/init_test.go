package gen

import (
	"testing"

	"github.com/google/uuid"

	"github.com/wildfunctions/genetic_programs/pkg/expr"
	"github.com/wildfunctions/genetic_programs/pkg/registry"
	"github.com/wildfunctions/genetic_programs/pkg/rng"
	"github.com/wildfunctions/genetic_programs/pkg/types"
)

func TestRampedMixture(t *testing.T) {
	var modes []string
	spy := func(mode string) Grower {
		return func(types.Type, *registry.Palette, rng.Source, Params) (expr.ExprNode, error) {
			modes = append(modes, mode)
			return &expr.VarNode{Name: "x"}, nil
		}
	}
	ramped := Ramped(spy("grow"), spy("full"))

	draws := []float64{0.9, 0.1, 0.51, 0.5, 0.75, 0.25, 0.500001, 0.0}
	want := []string{"full", "grow", "full", "grow", "full", "grow", "full", "grow"}
	src := rng.Seq(draws...)
	pal := arithPalette(t)
	for range draws {
		if _, err := ramped(nil, pal, src, DefaultParams()); err != nil {
			t.Fatal(err)
		}
	}
	for i := range want {
		if modes[i] != want[i] {
			t.Errorf("draw %v: took %s, want %s", draws[i], modes[i], want[i])
		}
	}
}

func TestNilSource(t *testing.T) {
	pal := arithPalette(t)
	if _, err := RampedHalfAndHalf(pal, nil, DefaultParams()); err == nil {
		t.Error("RampedHalfAndHalf accepted a nil source")
	}
	if _, err := RampedHalfAndHalfTyped(double, pal, nil, DefaultParams()); err == nil {
		t.Error("RampedHalfAndHalfTyped accepted a nil source")
	}
	for name, grow := range map[string]Grower{"grow": Grow, "growTyped": GrowTyped, "randomCall": RandomCall} {
		if _, err := grow(double, pal, nil, DefaultParams()); err == nil {
			t.Errorf("%s accepted a nil source", name)
		}
	}
}

func TestRampedHalfAndHalfMixesShapes(t *testing.T) {
	pal := arithPalette(t)
	src := rng.New(42)
	prm := Params{MaxDepth: 5, ConstProb: 0.5, SubtreeProb: 0.3}

	full := 0
	total := 2000
	for i := 0; i < total; i++ {
		p, err := RampedHalfAndHalf(pal, src, prm)
		if err != nil {
			t.Fatal(err)
		}
		// With binary operators only a full-mode body has 2^d-1 nodes.
		if p.NodeCount() == 1<<prm.MaxDepth-1 {
			full++
		}
	}
	ratio := float64(full) / float64(total)
	if ratio < 0.4 || ratio > 0.65 {
		t.Errorf("full-shaped fraction %.3f, expected about one half", ratio)
	}
	t.Logf("Ramped half-and-half: %d/%d full-shaped individuals", full, total)
}

func TestRandFunc(t *testing.T) {
	pal := hofPalette(t)
	p, err := RandFunc(pal, rng.New(1), DefaultParams(), Grow)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Params) != 2 || p.Params[0].Name != "x" || p.Params[1].Name != "y" {
		t.Errorf("params = %v", p.Params)
	}
	if p.Params[0].Type != nil || p.Type != nil {
		t.Error("untyped programs carry no types")
	}
	if p.ID == uuid.Nil {
		t.Error("program has no ID")
	}
}

func TestRandFuncTyped(t *testing.T) {
	pal := hofPalette(t)
	src := rng.New(8)
	ids := map[uuid.UUID]bool{}
	for i := 0; i < 100; i++ {
		p, err := RampedHalfAndHalfTyped(double, pal, src, DefaultParams())
		if err != nil {
			t.Fatal(err)
		}
		if p.Type.Key() != "(double,double)->double" {
			t.Fatalf("program type = %s", p.Type)
		}
		if err := expr.CheckProgram(p, pal.Operators); err != nil {
			t.Fatalf("%v\n%s", err, expr.Annotated(p.Body))
		}
		if ids[p.ID] {
			t.Fatal("duplicate program ID")
		}
		ids[p.ID] = true
	}

	if _, err := RandFuncTyped(nil, pal, src, DefaultParams(), GrowTyped); err == nil {
		t.Error("expected an error for an unset type")
	}
}

func FuzzGrowTyped(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	f.Add([]byte{255, 0, 255, 0, 128, 64, 32})
	f.Fuzz(func(t *testing.T, data []byte) {
		pal := hofPalette(t)
		node, err := GrowTyped(double, pal, rng.Bytes(data), Params{MaxDepth: 4, ConstProb: 0.3, SubtreeProb: 0.7})
		if err != nil {
			t.Fatal(err)
		}
		if node.Depth() > 4 {
			t.Fatalf("depth %d exceeds bound", node.Depth())
		}
		if err := expr.Check(node, double, pal.Operators, pal.Inputs); err != nil {
			t.Fatal(err)
		}
	})
}
