package container_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-ctx/framework/container"
)

func TestIdentityOf(t *testing.T) {
	tests := []struct {
		name string
		got  container.TypeIdentity
		want container.TypeIdentity
	}{
		{"pointer", container.IdentityOf[*widget](), "*github.com/km-arc/go-ctx/framework/container_test.widget"},
		{"value", container.IdentityOf[widget](), "github.com/km-arc/go-ctx/framework/container_test.widget"},
		{"interface", container.IdentityOf[io.Writer](), "io.Writer"},
		{"builtin", container.IdentityOf[int](), "int"},
		{"slice", container.IdentityOf[[]string](), "[]string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestTypeKey(t *testing.T) {
	assert.Equal(t, container.IdentityOf[*gadget](), container.TypeKey(&gadget{}))
	assert.Equal(t, container.TypeIdentity(""), container.TypeKey(nil))
}

func TestTypeIdentity_Short(t *testing.T) {
	assert.Equal(t, "*container_test.widget", container.IdentityOf[*widget]().Short())
	assert.Equal(t, "io.Writer", container.IdentityOf[io.Writer]().Short())
}

func TestRegistry_Resolve(t *testing.T) {
	reg := container.NewRegistry()
	id := container.Register(reg, func() *widget { return &widget{} })
	reg.Alias(id, "widget")

	got, err := reg.Resolve("widget")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = reg.Resolve(string(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, bad := range []string{"", "   ", "widgets"} {
		_, err := reg.Resolve(bad)
		assert.ErrorIs(t, err, container.ErrInvalidTypeName, "name %q", bad)
	}
}

func TestRegistry_DeclareKeepsConstructor(t *testing.T) {
	reg := container.NewRegistry()
	id := container.Register(reg, func() *widget { return &widget{} })
	reg.Declare(id)

	_, ok := reg.Constructor(id)
	assert.True(t, ok)
	assert.True(t, reg.Known(id))
}

func TestRegistry_DeclaredHasNoConstructor(t *testing.T) {
	reg := container.NewRegistry()
	id := container.Declare[clock](reg)

	_, ok := reg.Constructor(id)
	assert.False(t, ok)
	assert.True(t, reg.Known(id))
	assert.Equal(t, []string{string(id)}, reg.Names())
}

func TestRegistry_AliasToItselfPanics(t *testing.T) {
	reg := container.NewRegistry()
	id := container.Register(reg, func() *widget { return &widget{} })
	assert.Panics(t, func() { reg.Alias(id, string(id)) })
}

func TestRegistry_NilConstructorPanics(t *testing.T) {
	reg := container.NewRegistry()
	assert.Panics(t, func() { reg.RegisterFunc("example.X", nil) })
}

func TestRegistry_DeferredLoaderRunsOnce(t *testing.T) {
	reg := container.NewRegistry()
	loads := 0
	reg.Defer("widget", func() {
		loads++
		id := container.Register(reg, func() *widget { return &widget{} })
		reg.Alias(id, "widget")
	})

	id, err := reg.Resolve("widget")
	require.NoError(t, err)
	_, ok := reg.Constructor(id)
	assert.True(t, ok)

	_, err = reg.Resolve("widget")
	require.NoError(t, err)
	assert.Equal(t, 1, loads)
}
