package container_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-ctx/framework/container"
)

const storeKey container.TypeIdentity = "example.Widget"

func TestInstanceStore_LoadMissing(t *testing.T) {
	s := container.NewInstanceStore()
	_, ok := s.Load(storeKey)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestInstanceStore_ConstructOnce(t *testing.T) {
	s := container.NewInstanceStore()
	calls := 0
	build := func() (any, error) {
		calls++
		return &widget{id: calls}, nil
	}

	v1, constructed, err := s.LoadOrConstruct(storeKey, build)
	require.NoError(t, err)
	assert.True(t, constructed)

	v2, constructed, err := s.LoadOrConstruct(storeKey, build)
	require.NoError(t, err)
	assert.False(t, constructed)

	assert.Same(t, v1, v2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []container.TypeIdentity{storeKey}, s.Identities())
}

func TestInstanceStore_NilBuildStoresNothing(t *testing.T) {
	s := container.NewInstanceStore()
	v, constructed, err := s.LoadOrConstruct(storeKey, func() (any, error) { return nil, nil })
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.False(t, constructed)
	assert.Equal(t, 0, s.Len())
}

func TestInstanceStore_FailureIsRetried(t *testing.T) {
	s := container.NewInstanceStore()
	boom := errors.New("boom")
	attempts := 0
	build := func() (any, error) {
		attempts++
		if attempts == 1 {
			return nil, boom
		}
		return &widget{id: attempts}, nil
	}

	_, _, err := s.LoadOrConstruct(storeKey, build)
	require.ErrorIs(t, err, boom)
	_, ok := s.Load(storeKey)
	assert.False(t, ok, "failed build must leave the key absent")

	v, constructed, err := s.LoadOrConstruct(storeKey, build)
	require.NoError(t, err)
	assert.True(t, constructed)
	assert.Equal(t, 2, v.(*widget).id)
}

func TestInstanceStore_ConcurrentCallersShareOneBuild(t *testing.T) {
	s := container.NewInstanceStore()
	var calls atomic.Int32
	release := make(chan struct{})
	build := func() (any, error) {
		calls.Add(1)
		<-release
		return &widget{}, nil
	}

	const n = 64
	results := make([]any, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := s.LoadOrConstruct(storeKey, build)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := 1; i < n; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestInstanceStore_WaitersShareFailure(t *testing.T) {
	s := container.NewInstanceStore()
	boom := errors.New("boom")
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	build := func() (any, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return nil, boom
	}

	const n = 16
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _, errs[0] = s.LoadOrConstruct(storeKey, build)
	}()
	<-started
	for i := 1; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = s.LoadOrConstruct(storeKey, build)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		assert.ErrorIs(t, err, boom, "caller %d", i)
	}
	assert.Equal(t, 0, s.Len())
}

func TestInstanceStore_DistinctKeysDoNotSerialize(t *testing.T) {
	s := container.NewInstanceStore()
	blockA := make(chan struct{})
	inA := make(chan struct{})

	go func() {
		_, _, _ = s.LoadOrConstruct("example.A", func() (any, error) {
			close(inA)
			<-blockA
			return &widget{}, nil
		})
	}()
	<-inA

	done := make(chan struct{})
	go func() {
		_, _, _ = s.LoadOrConstruct("example.B", func() (any, error) { return &widget{}, nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("build for example.B waited on example.A")
	}
	close(blockA)
}
