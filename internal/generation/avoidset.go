package generation

// AvoidSet is the ordered, append-only list of abbreviations rejected in one session.
type AvoidSet struct {
	items []string
	seen  map[string]struct{}
}

func NewAvoidSet() *AvoidSet {
	return &AvoidSet{seen: make(map[string]struct{})}
}

func (set *AvoidSet) Contains(abbreviation string) bool {
	_, ok := set.seen[abbreviation]
	return ok
}

// Append adds abbreviation at the end and reports whether it was new.
func (set *AvoidSet) Append(abbreviation string) bool {
	if set.Contains(abbreviation) {
		return false
	}
	set.seen[abbreviation] = struct{}{}
	set.items = append(set.items, abbreviation)
	return true
}

func (set *AvoidSet) Len() int {
	return len(set.items)
}

// Items returns a copy, oldest first.
func (set *AvoidSet) Items() []string {
	items := make([]string, len(set.items))
	copy(items, set.items)
	return items
}
