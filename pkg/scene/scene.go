// Package scene holds the solid scene a script describes: a DAG of
// primitives, transforms and booleans, with named parts as roots. Each part
// becomes one pickable mesh.
package scene

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NodeID identifies a node. IDs are derived from a node's path in the
// script, so re-evaluating the same script yields the same IDs.
type NodeID string

// ZeroID is the empty node ID.
const ZeroID NodeID = ""

// NewNodeID hashes path into a NodeID.
func NewNodeID(path string) NodeID {
	sum := sha256.Sum256([]byte(path))
	return NodeID(hex.EncodeToString(sum[:16]))
}

// Short returns the first 8 characters, for messages.
func (id NodeID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

// Scene is produced by one script evaluation and not modified afterwards.
type Scene struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"` // part nodes, in definition order
	NameIndex map[string]NodeID `json:"name_index"`

	anon uint64
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node. Named nodes are indexed by name.
func (s *Scene) AddNode(n *Node) {
	s.Nodes[n.ID] = n
	if n.Name != "" {
		s.NameIndex[n.Name] = n.ID
	}
}

// AnonID returns a fresh ID for an unnamed node of the given kind.
func (s *Scene) AnonID(kind string) NodeID {
	s.anon++
	return NewNodeID(fmt.Sprintf("%s/_anon_%d", kind, s.anon))
}

// AddPart registers a named part whose geometry is the solid node body.
// Part names are unique.
func (s *Scene) AddPart(name string, body NodeID) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("scene: part name is empty")
	}
	if _, exists := s.NameIndex[name]; exists {
		return nil, fmt.Errorf("scene: part %q already defined", name)
	}
	if s.Nodes[body] == nil {
		return nil, fmt.Errorf("scene: part %q: unknown body %s", name, body.Short())
	}
	n := &Node{
		ID:       NewNodeID("part/" + name),
		Kind:     NodePart,
		Name:     name,
		Children: []NodeID{body},
		Data:     PartData{},
	}
	s.AddNode(n)
	s.Roots = append(s.Roots, n.ID)
	return n, nil
}

// Lookup returns the node with the given name, or nil.
func (s *Scene) Lookup(name string) *Node {
	id, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Nodes[id]
}

// Get returns the node with the given ID, or nil.
func (s *Scene) Get(id NodeID) *Node {
	return s.Nodes[id]
}

// Parts returns the part nodes in definition order.
func (s *Scene) Parts() []*Node {
	parts := make([]*Node, 0, len(s.Roots))
	for _, id := range s.Roots {
		if n := s.Nodes[id]; n != nil {
			parts = append(parts, n)
		}
	}
	return parts
}

// PartNames returns the part names in definition order.
func (s *Scene) PartNames() []string {
	parts := s.Parts()
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.Name
	}
	return names
}

// Children returns the child nodes of n.
func (s *Scene) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := s.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (s *Scene) NodeCount() int {
	return len(s.Nodes)
}
