package factory

import (
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	name string
	size int
}

func (w *widget) Init(args ...any) error {
	if len(args) != 1 {
		return errors.Newf("want 1 argument, got %d", len(args))
	}
	n, ok := args[0].(int)
	if !ok {
		return errors.New("size must be an int")
	}
	w.size = n
	return nil
}

type part interface{}

func widgetRegistry(t *testing.T, built *int32) *Registry[string, part] {
	t.Helper()
	r := NewRegistry[string, part]()
	for _, name := range []string{"bolt", "nut"} {
		name := name
		require.NoError(t, r.Register(Entry[string, part]{
			Key:      name,
			TypeName: "example.com/parts." + name,
			New: func() (part, error) {
				if built != nil {
					atomic.AddInt32(built, 1)
				}
				return &widget{name: name}, nil
			},
			Tags: Tags{{Name: "metric", Value: true}},
		}))
	}
	return r
}

func TestFactory_Create(t *testing.T) {
	f := New(widgetRegistry(t, nil))

	p, err := f.Create("bolt")
	require.NoError(t, err)
	assert.Equal(t, "bolt", p.(*widget).name)

	_, err = f.Create("screw")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrKeyNotFound))
	assert.Contains(t, err.Error(), "screw")
}

func TestFactory_CreateWithArgs(t *testing.T) {
	f := New(widgetRegistry(t, nil))

	p, err := f.Create("nut", 12)
	require.NoError(t, err)
	assert.Equal(t, 12, p.(*widget).size)

	_, err = f.Create("nut", "big")
	assert.Error(t, err)
}

func TestFactory_ArgsWithoutInitializer(t *testing.T) {
	r := NewRegistry[int, animal]()
	require.NoError(t, r.Register(Entry[int, animal]{Key: 1, New: func() (animal, error) { return dog{}, nil }}))

	_, err := New(r).Create(1, "unused")
	assert.True(t, errors.Is(err, ErrUnexpectedArgs))
}

func TestFactory_TryCreate(t *testing.T) {
	f := New(widgetRegistry(t, nil))

	p, ok := f.TryCreate("bolt")
	assert.True(t, ok)
	assert.NotNil(t, p)

	p, ok = f.TryCreate("washer")
	assert.False(t, ok)
	assert.Nil(t, p)
}

func TestFactory_MustCreate(t *testing.T) {
	f := New(widgetRegistry(t, nil))
	assert.NotPanics(t, func() { f.MustCreate("nut") })
	assert.Panics(t, func() { f.MustCreate("washer") })
}

func TestFactory_CreateAll(t *testing.T) {
	f := New(widgetRegistry(t, nil))
	all, err := f.CreateAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "bolt", all[0].(*widget).name)
	assert.Equal(t, "nut", all[1].(*widget).name)
}

func TestFactory_Tags(t *testing.T) {
	f := New(widgetRegistry(t, nil))
	tags, ok := f.Tags("bolt")
	require.True(t, ok)
	v, ok := TagValue[bool](tags, "metric")
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = f.Tags("washer")
	assert.False(t, ok)
}

func TestFactory_WithCache(t *testing.T) {
	var built int32
	f := New(widgetRegistry(t, &built)).WithCache()
	assert.True(t, f.Cached())
	assert.Same(t, f, f.WithCache())

	a, err := f.Create("bolt")
	require.NoError(t, err)
	b, err := f.Create("bolt")
	require.NoError(t, err)
	assert.Same(t, a.(*widget), b.(*widget))
	assert.EqualValues(t, 1, atomic.LoadInt32(&built))

	c, err := f.Create("bolt", 3)
	require.NoError(t, err)
	assert.NotSame(t, a.(*widget), c.(*widget))
	assert.EqualValues(t, 2, atomic.LoadInt32(&built))
}

type holder struct {
	arg any
}

func (h *holder) Init(args ...any) error {
	h.arg = args[0]
	return nil
}

func TestFactory_WithCacheKeysArgumentTypes(t *testing.T) {
	r := NewRegistry[string, part]()
	require.NoError(t, r.Register(Entry[string, part]{
		Key:      "k",
		TypeName: "example.com/parts.holder",
		New:      func() (part, error) { return &holder{}, nil },
	}))
	f := New(r).WithCache()

	a, err := f.Create("k", int(1))
	require.NoError(t, err)
	b, err := f.Create("k", int64(1))
	require.NoError(t, err)
	assert.NotSame(t, a.(*holder), b.(*holder))
	assert.Equal(t, int64(1), b.(*holder).arg)

	c, err := f.Create("k", int(1))
	require.NoError(t, err)
	assert.Same(t, a.(*holder), c.(*holder))
}

func TestCacheKey(t *testing.T) {
	assert.NotEqual(t, cacheKey("k", []any{int(1)}), cacheKey("k", []any{int64(1)}))
	assert.NotEqual(t, cacheKey("k", []any{"1"}), cacheKey("k", []any{1}))
	assert.NotEqual(t, cacheKey[any](int(1), nil), cacheKey[any](int8(1), nil))
	assert.Equal(t, cacheKey("k", []any{1, "a"}), cacheKey("k", []any{1, "a"}))
}

func TestFactory_WithCreatorDropsCache(t *testing.T) {
	f := New(widgetRegistry(t, nil)).WithCache()
	custom := f.WithCreator(func(e Entry[string, part], args []any) (part, error) {
		return &widget{name: "custom-" + e.Key + strconv.Itoa(len(args))}, nil
	})
	assert.False(t, custom.Cached())

	p, err := custom.Create("nut")
	require.NoError(t, err)
	assert.Equal(t, "custom-nut0", p.(*widget).name)

	restored := custom.WithCreator(nil)
	p, err = restored.Create("nut")
	require.NoError(t, err)
	assert.Equal(t, "nut", p.(*widget).name)
}

func TestFactory_ConstructorError(t *testing.T) {
	r := NewRegistry[string, part]()
	boom := errors.New("boom")
	require.NoError(t, r.Register(Entry[string, part]{
		Key: "bad", TypeName: "example.com/parts.bad",
		New: func() (part, error) { return nil, boom },
	}))
	f := New(r).WithCache()

	_, err := f.Create("bad")
	assert.True(t, errors.Is(err, boom))
	_, ok := f.TryCreate("bad")
	assert.False(t, ok)
}

type forKey string

func TestFor_UsesProcessRegistry(t *testing.T) {
	MustRegister(Entry[forKey, animal]{Key: "dog", New: func() (animal, error) { return dog{}, nil }})
	f := For[forKey, animal]()
	assert.Same(t, Products[forKey, animal](), f.Registry())
	assert.True(t, f.Contains("dog"))
	assert.Equal(t, []forKey{"dog"}, f.Keys())
}

func TestMust(t *testing.T) {
	assert.Equal(t, 3, Must(3, nil))
	assert.PanicsWithError(t, "boom", func() { Must(0, errors.New("boom")) })
}
