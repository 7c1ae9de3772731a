package schedule

// SystemSet groups systems that share a run criteria, labels, and ordering
// edges. Adding a set to a stage is equivalent to adding each member
// individually with the set's metadata merged in.
type SystemSet struct {
	criteria RunCriteria
	labels   []Label
	before   []Label
	after    []Label
	systems  []*Descriptor
}

// NewSystemSet creates an empty system set.
func NewSystemSet() *SystemSet {
	return &SystemSet{}
}

// WithRunCriteria gates every member on the given predicate. Member-level
// criteria still apply; both must pass.
func (s *SystemSet) WithRunCriteria(criteria RunCriteria) *SystemSet {
	s.criteria = Both(s.criteria, criteria)
	return s
}

// WithLabel attaches a shared label to every member.
func (s *SystemSet) WithLabel(label Label) *SystemSet {
	s.labels = append(s.labels, label)
	return s
}

// Before orders every member before systems carrying label.
func (s *SystemSet) Before(label Label) *SystemSet {
	s.before = append(s.before, label)
	return s
}

// After orders every member after systems carrying label.
func (s *SystemSet) After(label Label) *SystemSet {
	s.after = append(s.after, label)
	return s
}

// WithSystem adds a member to the set.
func (s *SystemSet) WithSystem(d *Descriptor) *SystemSet {
	s.systems = append(s.systems, d)
	return s
}

// resolve merges the set's metadata into each member and returns them.
func (s *SystemSet) resolve() []*Descriptor {
	for _, d := range s.systems {
		d.labels = append(d.labels, s.labels...)
		d.before = append(d.before, s.before...)
		d.after = append(d.after, s.after...)
		d.criteria = Both(d.criteria, s.criteria)
	}
	return s.systems
}
