package docid

// TwoPhaseIterator splits matching into a cheap approximation and an
// expensive per-document confirmation.
type TwoPhaseIterator interface {
	// Approximation returns a superset of the matching documents.
	Approximation() Iterator
	// Matches confirms the current document of the approximation.
	Matches() (bool, error)
	// MatchCost estimates the cost of one Matches call.
	MatchCost() float32
}

// MatchFunc adapts a confirmation function to a TwoPhaseIterator.
type MatchFunc struct {
	Approx Iterator
	Match  func(doc int) (bool, error)
	Cost   float32
}

func (m *MatchFunc) Approximation() Iterator { return m.Approx }

func (m *MatchFunc) Matches() (bool, error) { return m.Match(m.Approx.DocID()) }

func (m *MatchFunc) MatchCost() float32 { return m.Cost }

// Confirmed iterates over the confirmed matches of a TwoPhaseIterator.
// A confirmation error stops iteration and is reported by Err.
type Confirmed struct {
	tp     TwoPhaseIterator
	approx Iterator
	err    error
}

// AsIterator turns a two-phase iterator into a plain iterator over matches.
func AsIterator(tp TwoPhaseIterator) *Confirmed {
	return &Confirmed{tp: tp, approx: tp.Approximation()}
}

// TwoPhase returns the underlying two-phase iterator.
func (c *Confirmed) TwoPhase() TwoPhaseIterator { return c.tp }

func (c *Confirmed) DocID() int {
	if c.err != nil {
		return NoMoreDocs
	}
	return c.approx.DocID()
}

func (c *Confirmed) NextDoc() int {
	if c.err != nil {
		return NoMoreDocs
	}
	return c.confirm(c.approx.NextDoc())
}

func (c *Confirmed) Advance(target int) int {
	if c.err != nil {
		return NoMoreDocs
	}
	return c.confirm(c.approx.Advance(target))
}

func (c *Confirmed) confirm(doc int) int {
	for ; doc != NoMoreDocs; doc = c.approx.NextDoc() {
		ok, err := c.tp.Matches()
		if err != nil {
			c.err = err
			return NoMoreDocs
		}
		if ok {
			return doc
		}
	}
	return NoMoreDocs
}

func (c *Confirmed) Cost() int64 { return c.approx.Cost() }

// Err returns the confirmation error that ended iteration, if any.
func (c *Confirmed) Err() error {
	if c.err != nil {
		return c.err
	}
	return Err(c.approx)
}
