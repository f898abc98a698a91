package anim

import "time"

// A Parallel starts all of its children in the same pass.
//
// Only one child carries the completion: the first, in add order, whose
// duration equals the longest. The others run without one.
type Parallel struct {
	modules []Module
}

// NewParallel creates an empty Parallel.
func NewParallel() *Parallel {
	return new(Parallel)
}

// ParallelOf creates a Parallel holding modules.
func ParallelOf(modules ...Module) *Parallel {
	p := NewParallel()
	for _, m := range modules {
		p.Add(m)
	}
	return p
}

// Add adds m to the group.
func (p *Parallel) Add(m Module) {
	p.modules = append(p.modules, m)
}

// Modules returns the children in add order.
func (p *Parallel) Modules() []Module {
	return p.modules
}

// Duration is the longest child duration, or 0 with no children.
func (p *Parallel) Duration() time.Duration {
	var longest time.Duration
	for _, m := range p.modules {
		if d := m.Duration(); d > longest {
			longest = d
		}
	}
	return longest
}

// Block returns a Block starting every child. With no children the
// completion itself is returned.
func (p *Parallel) Block(completion Block) Block {
	if len(p.modules) == 0 {
		return completion
	}

	return func() {
		longest := p.Duration()
		used := false
		for _, m := range p.modules {
			if !used && m.Duration() == longest {
				used = true
				Play(m, completion)
			} else {
				Play(m, nil)
			}
		}
	}
}

func (*Parallel) module() {}
