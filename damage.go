package coreterm

// DamageKind distinguishes the two queued damage record shapes from the
// per-cell `clean` bit, which is inherent in each Cell's dirty flag.
type DamageKind int

const (
	// DamageScroll records a forward scroll (content moved toward row 0).
	DamageScroll DamageKind = iota
	// DamageScrollReverse records a backward scroll (content moved away
	// from row 0, i.e. IL/SD).
	DamageScrollReverse
)

// DamageRecord is a queued region move the render coordinator can satisfy
// with a memmove/blit instead of a full per-cell repaint.
type DamageRecord struct {
	Kind  DamageKind
	Top   int
	Bottom int
	Lines int
}

// queueDamage appends a scroll damage record. The render coordinator
// drains these via DrainDamage before falling back to per-cell repaint.
func (g *Grid) queueDamage(d DamageRecord) {
	g.damage = append(g.damage, d)
}

// DrainDamage returns and clears all queued scroll damage records. Scroll
// damage must be applied before per-cell damage within a frame (§5
// ordering rule).
func (g *Grid) DrainDamage() []DamageRecord {
	d := g.damage
	g.damage = nil
	return d
}
