package anim

import "time"

// A Serial runs its children one after another in append order. Each child
// starts from inside the completion of the one before it.
type Serial struct {
	modules []Module
}

// NewSerial creates an empty Serial.
func NewSerial() *Serial {
	return new(Serial)
}

// SerialOf creates a Serial holding modules in order.
func SerialOf(modules ...Module) *Serial {
	s := NewSerial()
	for _, m := range modules {
		s.Append(m)
	}
	return s
}

// Append adds m to the end of the sequence.
func (s *Serial) Append(m Module) {
	s.modules = append(s.modules, m)
}

// Modules returns the children in execution order.
func (s *Serial) Modules() []Module {
	return s.modules
}

// Duration is the sum of the children's durations.
func (s *Serial) Duration() time.Duration {
	var sum time.Duration
	for _, m := range s.modules {
		sum += m.Duration()
	}
	return sum
}

// Block chains the children so that completion runs after the last one.
// With no children the completion itself is returned.
func (s *Serial) Block(completion Block) Block {
	next := completion
	for i := len(s.modules) - 1; i >= 0; i-- {
		next = s.modules[i].Block(next)
	}
	return next
}

func (*Serial) module() {}
