package stream

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledmod/action"
)

// Streamer that streams RGB data frames to an ledrx device and takes play
// commands over MQTT.
type Streamer struct {
	config     Config
	client     mqtt.Client
	engine     *Engine
	player     *Player
	layout     Layout
	background colorful.Color
	metrics    *Metrics
	logger     *slog.Logger
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(config Config, client mqtt.Client, engine *Engine, player *Player,
	metrics *Metrics, logger *slog.Logger) (*Streamer, error) {

	background, err := colorful.Hex(config.Strip.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	s := new(Streamer)
	s.config = config
	s.client = client
	s.engine = engine
	s.player = player
	s.layout = config.PixelLayout()
	s.background = background
	s.metrics = metrics
	s.logger = logger
	return s, nil
}

// Frame renders the current presentation of every view.
func (s *Streamer) Frame() *Frame {
	f := NewFrame(s.config.Strip.Pixels)
	f.Render(s.layout, s.background, s.engine.Layers())
	return f
}

// SendFrame sends a frame as binary over MQTT to an ledrx device.
func (s *Streamer) SendFrame() error {
	b, err := s.Frame().MarshalBinary()
	if err != nil {
		return err
	}

	token := s.client.Publish(s.config.Mqtt.Topics.Stream, s.config.Mqtt.QoS, false, b)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish frame: %w", token.Error())
	}
	s.metrics.Frames.Inc()
	return nil
}

func (s *Streamer) handlePlay(client mqtt.Client, msg mqtt.Message) {
	s.logger.Debug("play command", "topic", msg.Topic(), "id", msg.MessageID())

	doc, err := action.Decode(bytes.NewReader(msg.Payload()))
	if err == nil {
		_, err = s.player.Play(doc)
	}
	if err != nil {
		s.metrics.Errors.WithLabelValues("play").Inc()
		s.logger.Error("play command rejected", "topic", msg.Topic(), "error", err)
	}
}

// Subscribe listens for play commands. Call it from the connect handler so
// the subscription survives reconnects.
func (s *Streamer) Subscribe() error {
	token := s.client.Subscribe(s.config.Mqtt.Topics.Play, s.config.Mqtt.QoS, s.handlePlay)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", s.config.Mqtt.Topics.Play, token.Error())
	}
	return nil
}

// Run advances the engine and sends a frame at the configured frame rate
// until ctx is done.
func (s *Streamer) Run(ctx context.Context) error {
	interval := time.Duration(float64(time.Second) / s.config.Strip.FrameRate)
	publishTimer := time.NewTicker(interval)
	defer publishTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-publishTimer.C:
			s.engine.Tick()
			if err := s.SendFrame(); err != nil {
				s.metrics.Errors.WithLabelValues("publish").Inc()
				s.logger.Warn("frame dropped", "error", err)
			}
		}
	}
}
