package geo

// Relation is the spatial relation between a query component and a cell
// (a bounding box or an indexed shape).
type Relation uint8

const (
	// CellOutside means the cell and the component do not share any point.
	CellOutside Relation = iota
	// CellInside means the cell is fully inside the component.
	CellInside
	// CellCrosses means the cell is partially inside the component.
	CellCrosses
)

func (r Relation) String() string {
	switch r {
	case CellOutside:
		return "outside"
	case CellInside:
		return "inside"
	case CellCrosses:
		return "crosses"
	default:
		return "unknown"
	}
}

// WithinRelation is the answer of the Within* primitives, which evaluate
// whether a query component may lie within an indexed shape.
type WithinRelation uint8

const (
	// WithinDisjoint means the record does not interact with the component.
	WithinDisjoint WithinRelation = iota
	// WithinCandidate means the component may be within the indexed shape.
	WithinCandidate
	// WithinNotWithin means the component is known not to be within the shape.
	WithinNotWithin
)

func (r WithinRelation) String() string {
	switch r {
	case WithinDisjoint:
		return "disjoint"
	case WithinCandidate:
		return "candidate"
	case WithinNotWithin:
		return "not_within"
	default:
		return "unknown"
	}
}
