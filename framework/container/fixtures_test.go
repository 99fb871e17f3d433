package container_test

import (
	"errors"
	"sync/atomic"

	"github.com/km-arc/go-ctx/framework/container"
)

// ── fixture types ─────────────────────────────────────────────────────────────

type widget struct{ id int }

type gadget struct{ name string }

// clock has no zero-argument constructor; it is only declared.
type clock interface{ Now() int64 }

// flaky fails its first construction and succeeds afterwards.
type flaky struct{ attempt int32 }

var errFlaky = errors.New("flaky: first construction fails")

func newFlakyCtor() func() (*flaky, error) {
	var attempts atomic.Int32
	return func() (*flaky, error) {
		n := attempts.Add(1)
		if n == 1 {
			return nil, errFlaky
		}
		return &flaky{attempt: n}, nil
	}
}

// countingRegistry registers *widget with a constructor that counts calls.
func countingRegistry(counter *atomic.Int32) (*container.Registry, container.TypeIdentity) {
	reg := container.NewRegistry()
	id := container.Register(reg, func() *widget {
		return &widget{id: int(counter.Add(1))}
	})
	return reg, id
}
