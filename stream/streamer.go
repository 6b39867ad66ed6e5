package stream

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Renderer renders frames.
type Renderer interface {
	Render(f *Frame)
}

// Commander accepts the commands of the control topic.
type Commander interface {
	Next()
	Pause()
	Resume()
}

// Streamer that streams RGB data frames to an ledrx device.
type Streamer struct {
	client   mqtt.Client
	source   Renderer
	topic    string
	control  string
	pixels   int
	interval time.Duration
	log      *slog.Logger
}

// NewStreamer creates an instance of a Streamer publishing frames rendered
// by source.
func NewStreamer(cfg Config, client mqtt.Client, source Renderer, log *slog.Logger) *Streamer {
	if log == nil {
		log = slog.Default()
	}
	return &Streamer{
		client:   client,
		source:   source,
		topic:    cfg.Mqtt.Topics.Stream,
		control:  cfg.Mqtt.Topics.Control,
		pixels:   cfg.Pixels,
		interval: cfg.FrameInterval(),
		log:      log.With(slog.String("component", "streamer")),
	}
}

// SendFrame renders a frame and sends it as binary over MQTT to an ledrx
// device. Frames are published at QoS 0.
func (s *Streamer) SendFrame() error {
	f := NewFrame(s.pixels)
	s.source.Render(f)
	b, err := f.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	token := s.client.Publish(s.topic, 0, false, b)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish frame: %w", err)
	}
	return nil
}

// Run causes the Streamer to send Frames continuously until ctx is
// cancelled. Failed frames are logged and dropped.
func (s *Streamer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	var failing bool
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		err := s.SendFrame()
		switch {
		case err != nil && !failing:
			s.log.Warn("failed to send frame", slog.Any("error", err))
			failing = true
		case err == nil && failing:
			s.log.Info("sending frames again")
			failing = false
		}
	}
}

// Subscribe subscribes to the control topic, passing commands to cmd. It
// should be called from the client's connect handler so that the
// subscription is renewed on reconnection.
func (s *Streamer) Subscribe(cmd Commander) error {
	if s.control == "" {
		return nil
	}
	token := s.client.Subscribe(s.control, 1, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleControl(cmd, msg.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.control, err)
	}
	s.log.Info("subscribed", slog.String("topic", s.control))
	return nil
}

func (s *Streamer) handleControl(cmd Commander, payload []byte) {
	command := strings.ToLower(strings.TrimSpace(string(payload)))
	switch command {
	case "next":
		cmd.Next()
	case "pause":
		cmd.Pause()
	case "resume":
		cmd.Resume()
	default:
		s.log.Warn("unknown command", slog.String("command", command))
		return
	}
	s.log.Debug("command", slog.String("command", command))
}
