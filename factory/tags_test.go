package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTags(t *testing.T) {
	tags := Tags{
		{Name: "priority", Value: 1},
		{Name: "label", Value: "fast"},
		{Name: "priority", Value: 2},
	}

	assert.Equal(t, 3, tags.Len())
	assert.True(t, tags.Contains("label"))
	assert.False(t, tags.Contains("missing"))
	assert.Equal(t, []string{"priority", "label", "priority"}, tags.Names())

	v, ok := tags.Value("priority")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	p, ok := TagValue[int](tags, "priority")
	assert.True(t, ok)
	assert.Equal(t, 2, p)

	_, ok = TagValue[int](tags, "label")
	assert.False(t, ok)
	_, ok = TagValue[string](tags, "missing")
	assert.False(t, ok)

	var empty Tags
	assert.Zero(t, empty.Len())
	assert.Empty(t, empty.Names())
}
