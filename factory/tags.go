package factory

// Tag is an auxiliary named value attached to a registered product.
type Tag struct {
	Name  string
	Value any
}

// Tags is an ordered list of tags. Names are unique in generated code, a
// later entry with the same name shadows an earlier one.
type Tags []Tag

// Len returns the number of tags.
func (t Tags) Len() int {
	return len(t)
}

// Contains reports whether a tag named name exists.
func (t Tags) Contains(name string) bool {
	_, ok := t.Value(name)
	return ok
}

// Value returns the value of the tag named name.
func (t Tags) Value(name string) (any, bool) {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Name == name {
			return t[i].Value, true
		}
	}
	return nil, false
}

// Names returns the tag names in declaration order.
func (t Tags) Names() []string {
	names := make([]string, 0, len(t))
	for _, tag := range t {
		names = append(names, tag.Name)
	}
	return names
}

// TagValue returns the value of the tag named name converted to V.
// The second result is false when the tag is missing or holds another type.
func TagValue[V any](tags Tags, name string) (V, bool) {
	var zero V
	v, ok := tags.Value(name)
	if !ok {
		return zero, false
	}
	typed, ok := v.(V)
	if !ok {
		return zero, false
	}
	return typed, true
}
