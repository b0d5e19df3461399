package pick

// HitLocation names the feature of a triangle a ray matched.
type HitLocation int

const (
	HitNone HitLocation = iota
	HitTriangle
	HitCylinder
	HitSphere
)

func (l HitLocation) String() string {
	switch l {
	case HitNone:
		return "none"
	case HitTriangle:
		return "triangle"
	case HitCylinder:
		return "cylinder"
	case HitSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// HitTestResult is one raw candidate hit. Two results are equal when they
// reference the same triangle, whatever their distance or location.
type HitTestResult struct {
	Triangle    *Triangle
	HitDistance float64
	HitLocation HitLocation
}

// Equals compares results by triangle identity only.
func (r HitTestResult) Equals(other HitTestResult) bool {
	return r.Triangle.Equals(other.Triangle)
}

// Hash is the triangle hash.
func (r HitTestResult) Hash() uint64 {
	return r.Triangle.Hash()
}

// ResultSet collects hit results, keeping the first result seen for each
// triangle and remembering insertion order.
type ResultSet struct {
	buckets map[uint64][]int
	items   []HitTestResult
}

// NewResultSet returns an empty set.
func NewResultSet() *ResultSet {
	return &ResultSet{buckets: make(map[uint64][]int)}
}

// Add inserts r unless a result for an equal triangle is already present.
// It reports whether r was inserted.
func (s *ResultSet) Add(r HitTestResult) bool {
	h := r.Hash()
	for _, idx := range s.buckets[h] {
		if s.items[idx].Equals(r) {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], len(s.items))
	s.items = append(s.items, r)
	return true
}

// Len returns the number of results.
func (s *ResultSet) Len() int { return len(s.items) }

// Results returns the results in insertion order.
func (s *ResultSet) Results() []HitTestResult {
	out := make([]HitTestResult, len(s.items))
	copy(out, s.items)
	return out
}
