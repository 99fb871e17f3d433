package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-ctx/framework/container"
)

func TestBindings_MissIsNil(t *testing.T) {
	b := container.NewBindings()

	v, err := b.Get("example.Unbound")
	assert.NoError(t, err)
	assert.Nil(t, v)

	v, err = b.Create("example.Unbound")
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestBindings_Transient(t *testing.T) {
	b := container.NewBindings()
	n := 0
	id := container.BindType(b, func(*container.Bindings) (*widget, error) {
		n++
		return &widget{id: n}, nil
	})

	a, err := b.Get(id)
	require.NoError(t, err)
	c, err := b.Get(id)
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, n)
}

func TestBindings_Singleton(t *testing.T) {
	b := container.NewBindings()
	n := 0
	id := container.SingletonType(b, func(*container.Bindings) (*widget, error) {
		n++
		return &widget{id: n}, nil
	})

	a, err := b.Get(id)
	require.NoError(t, err)
	c, err := b.Get(id)
	require.NoError(t, err)
	assert.Same(t, a, c)

	// Create bypasses the memoized value
	fresh, err := b.Create(id)
	require.NoError(t, err)
	assert.NotSame(t, a, fresh)
	assert.Equal(t, 2, n)
}

func TestBindings_InstanceReplacesFactory(t *testing.T) {
	b := container.NewBindings()
	id := container.BindType(b, func(*container.Bindings) (*widget, error) { return &widget{id: 1}, nil })

	fixed := &widget{id: 99}
	b.Instance(id, fixed)

	got, err := b.Get(id)
	require.NoError(t, err)
	assert.Same(t, fixed, got)
	assert.True(t, b.Bound(id))
	assert.Equal(t, []container.TypeIdentity{id}, b.Keys())
}

func TestBindings_FactoryResolvesOtherBindings(t *testing.T) {
	b := container.NewBindings()
	gid := container.InstanceOf(b, &gadget{name: "dep"})
	container.BindType(b, func(b *container.Bindings) (*widget, error) {
		dep, err := b.Get(gid)
		if err != nil {
			return nil, err
		}
		return &widget{id: len(dep.(*gadget).name)}, nil
	})

	w, err := b.Get(container.IdentityOf[*widget]())
	require.NoError(t, err)
	assert.Equal(t, 3, w.(*widget).id)
}

func TestBindings_AliasAndNamedLookups(t *testing.T) {
	b := container.NewBindings()
	id := container.InstanceOf(b, &gadget{name: "g"})
	b.Alias(id, "gadget")

	byAlias, err := b.GetNamed("gadget")
	require.NoError(t, err)
	byID, err := b.CreateNamed(string(id))
	require.NoError(t, err)
	assert.Same(t, byAlias, byID)

	assert.Panics(t, func() { b.Alias(id, string(id)) })
}

func TestBindings_FactoryErrorIsInstantiationFailure(t *testing.T) {
	b := container.NewBindings()
	boom := errors.New("boom")
	id := container.SingletonType(b, func(*container.Bindings) (*widget, error) { return nil, boom })

	_, err := b.Get(id)
	require.ErrorIs(t, err, container.ErrInstantiation)
	require.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, container.ErrNoSuchConstructor))
}
