package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/spacepick/pkg/geom"
	"github.com/chazu/spacepick/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSolid references a solid node in the scene being built.
type sexpSolid struct {
	id   scene.NodeID
	desc string // for printing and error messages
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(solid %s)", s.desc)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpPart references a named part.
type sexpPart struct {
	id   scene.NodeID
	name string
}

func (p *sexpPart) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(part %q)", p.name)
}
func (p *sexpPart) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a vector.
type sexpVec3 struct {
	vec geom.Vector3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds a mixed positional and keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A
// trailing keyword with no value maps to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// requireFloat reads the keyword argument key as a number.
func (a kwArgs) requireFloat(fn, key string) (float64, error) {
	v, ok := a.kw[key]
	if !ok {
		return 0, fmt.Errorf("%s: missing :%s", fn, key)
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts the node ID of a solid. A part reference yields the
// part's body, so parts can be reused as solids.
func toSolid(s *scene.Scene, v zygo.Sexp) (scene.NodeID, error) {
	switch ref := v.(type) {
	case *sexpSolid:
		return ref.id, nil
	case *sexpPart:
		if n := s.Get(ref.id); n != nil && len(n.Children) == 1 {
			return n.Children[0], nil
		}
		return scene.ZeroID, fmt.Errorf("part %q has no body", ref.name)
	}
	return scene.ZeroID, fmt.Errorf("expected solid, got %T (%s)", v, v.SexpString(nil))
}

// toVec3 reads either one vec3 argument or three numbers.
func toVec3(args []zygo.Sexp) (geom.Vector3, error) {
	switch len(args) {
	case 1:
		if v, ok := args[0].(*sexpVec3); ok {
			return v.vec, nil
		}
		return geom.Vector3{}, fmt.Errorf("expected vec3, got %T (%s)", args[0], args[0].SexpString(nil))
	case 3:
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return geom.Vector3{}, fmt.Errorf("component %d: %w", i, err)
			}
			c[i] = f
		}
		return geom.Vector3{X: c[0], Y: c[1], Z: c[2]}, nil
	}
	return geom.Vector3{}, fmt.Errorf("expected a vec3 or 3 numbers, got %d arguments", len(args))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene builtins into env. They add nodes to
// s as the script runs. Source must go through preprocessSource first so
// :keyword tokens are recognisable.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {
	solid := func(kind string, data scene.NodeData, desc string, children ...scene.NodeID) zygo.Sexp {
		n := &scene.Node{ID: s.AnonID(kind), Data: data, Children: children}
		switch data.(type) {
		case scene.TransformData:
			n.Kind = scene.NodeTransform
		case scene.BooleanData:
			n.Kind = scene.NodeBoolean
		default:
			n.Kind = scene.NodePrimitive
		}
		s.AddNode(n)
		return &sexpSolid{id: n.ID, desc: desc}
	}

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		v, err := toVec3(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
		}
		return &sexpVec3{vec: v}, nil
	})

	// (box :x 100 :y 50 :z 5)
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var size [3]float64
		for i, key := range []string{"x", "y", "z"} {
			f, err := pa.requireFloat("box", key)
			if err != nil {
				return zygo.SexpNull, err
			}
			size[i] = f
		}
		v := geom.Vector3{X: size[0], Y: size[1], Z: size[2]}
		return solid("box", scene.BoxData{Size: v}, fmt.Sprintf("box %gx%gx%g", v.X, v.Y, v.Z)), nil
	})

	// (cylinder :height 30 :radius 4)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		h, err := pa.requireFloat("cylinder", "height")
		if err != nil {
			return zygo.SexpNull, err
		}
		r, err := pa.requireFloat("cylinder", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		return solid("cylinder", scene.CylinderData{Height: h, Radius: r}, fmt.Sprintf("cylinder h=%g r=%g", h, r)), nil
	})

	// (sphere :radius 10)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r, err := parseArgs(args).requireFloat("sphere", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		return solid("sphere", scene.SphereData{Radius: r}, fmt.Sprintf("sphere r=%g", r)), nil
	})

	// (translate solid 10 0 5) or (translate solid (vec3 10 0 5))
	// (rotate solid 0 0 90)    degrees about X, Y, Z
	for _, op := range []string{"translate", "rotate"} {
		op := op
		env.AddFunction(op, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires a solid and an offset", op)
			}
			child, err := toSolid(s, args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			v, err := toVec3(args[1:])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			td := scene.TransformData{}
			if op == "translate" {
				td.Translation = &v
			} else {
				td.Rotation = &v
			}
			return solid(op, td, fmt.Sprintf("%s %g %g %g", op, v.X, v.Y, v.Z), child), nil
		})
	}

	// (union a b ...), (difference a b ...), (intersection a b ...)
	booleans := map[string]scene.BooleanOp{
		"union":        scene.OpUnion,
		"difference":   scene.OpDifference,
		"intersection": scene.OpIntersection,
	}
	for fn, op := range booleans {
		fn, op := fn, op
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least 2 solids, got %d", fn, len(args))
			}
			children := make([]scene.NodeID, len(args))
			for i, a := range args {
				id, err := toSolid(s, a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
				}
				children[i] = id
			}
			return solid(fn, scene.BooleanData{Op: op}, fmt.Sprintf("%s of %d", fn, len(args)), children...), nil
		})
	}

	// (part "plate" solid)
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("part requires a name and a solid")
		}
		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}
		body, err := toSolid(s, args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part %q: %w", partName, err)
		}
		n, err := s.AddPart(partName, body)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPart{id: n.ID, name: partName}, nil
	})

	// (part-ref "plate")
	env.AddFunction("part_ref", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("part-ref requires a name argument")
		}
		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part-ref: name: %w", err)
		}
		n := s.Lookup(partName)
		if n == nil || n.Kind != scene.NodePart {
			return zygo.SexpNull, fmt.Errorf("part-ref: no part named %q", partName)
		}
		return &sexpPart{id: n.ID, name: partName}, nil
	})
}
