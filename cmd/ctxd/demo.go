package main

import (
	"sync/atomic"
	"time"

	"github.com/km-arc/go-ctx/framework/container"
)

// Stopwatch records when it was constructed.
type Stopwatch struct {
	Started time.Time
}

func NewStopwatch() *Stopwatch { return &Stopwatch{Started: time.Now()} }

// Sequence hands out increasing numbers.
type Sequence struct {
	n atomic.Int64
}

func (s *Sequence) Next() int64 { return s.n.Add(1) }

// DemoProvider registers the sample types served by ctxd.
type DemoProvider struct {
	container.BaseProvider
}

func (p *DemoProvider) Register(types *container.Registry, _ *container.Bindings) {
	types.Alias(container.Register(types, NewStopwatch), "stopwatch")
}

// SequenceProvider is deferred: "sequence" is only registered the first
// time someone asks for it.
type SequenceProvider struct {
	container.BaseProvider
}

func (p *SequenceProvider) Register(types *container.Registry, _ *container.Bindings) {
	types.Alias(container.Register(types, func() *Sequence { return &Sequence{} }), "sequence")
}

func (p *SequenceProvider) Provides() []string { return []string{"sequence"} }
func (p *SequenceProvider) IsDeferred() bool   { return true }
