package scene

import "fmt"

// ValidationError describes a single structural problem.
type ValidationError struct {
	NodeID  NodeID // which node has the problem (zero if scene-level)
	Message string
}

func (e ValidationError) Error() string {
	if e.NodeID == ZeroID {
		return e.Message
	}
	return fmt.Sprintf("node %s: %s", e.NodeID.Short(), e.Message)
}

// Validate checks that the scene is a DAG, that every reference resolves,
// that each node has the right number of children and that primitive
// dimensions are positive. An empty slice means the scene can be
// tessellated. Validate never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(s)...)
	errs = append(errs, validateReferences(s)...)
	errs = append(errs, validateArity(s)...)
	errs = append(errs, validateDimensions(s)...)
	return errs
}

// validateDAG checks for cycles using DFS with 3-color marking.
func validateDAG(s *Scene) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID)
	visit = func(id NodeID) {
		switch color[id] {
		case black:
			return
		case gray:
			errs = append(errs, ValidationError{NodeID: id, Message: "cycle detected"})
			return
		}
		color[id] = gray
		if n := s.Nodes[id]; n != nil {
			for _, c := range n.Children {
				visit(c)
			}
		}
		color[id] = black
	}

	for id := range s.Nodes {
		visit(id)
	}
	return errs
}

func validateReferences(s *Scene) []ValidationError {
	var errs []ValidationError
	for id, n := range s.Nodes {
		for _, c := range n.Children {
			if s.Nodes[c] == nil {
				errs = append(errs, ValidationError{
					NodeID:  id,
					Message: fmt.Sprintf("references missing node %s", c.Short()),
				})
			}
		}
	}
	for _, r := range s.Roots {
		if n := s.Nodes[r]; n == nil || n.Kind != NodePart {
			errs = append(errs, ValidationError{
				NodeID:  r,
				Message: "root is not a part",
			})
		}
	}
	return errs
}

func validateArity(s *Scene) []ValidationError {
	var errs []ValidationError
	for id, n := range s.Nodes {
		var want string
		switch n.Kind {
		case NodePrimitive:
			if len(n.Children) != 0 {
				want = "no children"
			}
		case NodeTransform, NodePart:
			if len(n.Children) != 1 {
				want = "exactly one child"
			}
		case NodeBoolean:
			if len(n.Children) < 2 {
				want = "at least two children"
			}
		}
		if want != "" {
			errs = append(errs, ValidationError{
				NodeID:  id,
				Message: fmt.Sprintf("%s node needs %s, has %d", n.Kind, want, len(n.Children)),
			})
		}
	}
	return errs
}

func validateDimensions(s *Scene) []ValidationError {
	var errs []ValidationError
	bad := func(id NodeID, what string, v float64) {
		errs = append(errs, ValidationError{
			NodeID:  id,
			Message: fmt.Sprintf("%s must be positive, got %g", what, v),
		})
	}
	for id, n := range s.Nodes {
		switch d := n.Data.(type) {
		case BoxData:
			if d.Size.X <= 0 {
				bad(id, "box x", d.Size.X)
			}
			if d.Size.Y <= 0 {
				bad(id, "box y", d.Size.Y)
			}
			if d.Size.Z <= 0 {
				bad(id, "box z", d.Size.Z)
			}
		case CylinderData:
			if d.Height <= 0 {
				bad(id, "cylinder height", d.Height)
			}
			if d.Radius <= 0 {
				bad(id, "cylinder radius", d.Radius)
			}
		case SphereData:
			if d.Radius <= 0 {
				bad(id, "sphere radius", d.Radius)
			}
		}
	}
	return errs
}
