/*
Package anim composes independently defined animations into larger timed
sequences.

A Module is anything with a duration that can produce a Block: a deferred
unit of work that starts the animation when invoked. Modules combine through
Serial (one after another) and Parallel (all at once), and composites nest.
Building a Block never starts anything; the whole callback chain is built up
front and the returned Block is the single entry point.

Composites must not be modified once a Block has been built from them.
*/
package anim

import "time"

// Block is a deferred unit of work. A nil Block means there is nothing to run.
type Block func()

// Module is a unit of animation with a duration. The set of implementations
// is closed: *Primitive, *Serial and *Parallel.
type Module interface {
	// Duration is the total time taken by the module and everything nested
	// under it.
	Duration() time.Duration

	// Block returns a Block that starts the animation and invokes completion
	// once it has finished. It returns nil only when there is nothing to run.
	Block(completion Block) Block

	module()
}

// Play builds m and immediately runs it if there is anything to run.
func Play(m Module, completion Block) {
	if b := m.Block(completion); b != nil {
		b()
	}
}
