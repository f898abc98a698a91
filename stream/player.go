package stream

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/matt-g-everett/ledmod/action"
	"github.com/matt-g-everett/ledmod/anim"
)

// ErrUnknownView is returned when a document names a view that is not registered.
var ErrUnknownView = errors.New("unknown view")

// Player builds action documents against the engine's views and plays them.
type Player struct {
	engine  *Engine
	factory *action.Factory
	logger  *slog.Logger
}

// NewPlayer creates a Player for engine.
func NewPlayer(engine *Engine, logger *slog.Logger) *Player {
	p := new(Player)
	p.engine = engine
	p.factory = action.NewFactory(engine)
	p.logger = logger
	return p
}

// Play starts doc and returns the module that was started.
func (p *Player) Play(doc action.Document) (anim.Module, error) {
	v, ok := p.engine.View(doc.View)
	if !ok {
		return nil, fmt.Errorf("%q: %w", doc.View, ErrUnknownView)
	}

	m, err := p.factory.Build(v, doc.Action)
	if err != nil {
		return nil, fmt.Errorf("view %s: %w", doc.View, err)
	}

	p.logger.Info("playing", "view", doc.View, "kind", doc.Action.Kind, "duration", m.Duration())
	anim.Play(m, func() {
		p.logger.Info("finished", "view", doc.View, "kind", doc.Action.Kind)
	})
	return m, nil
}
