package stream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/go-cmp/cmp"
	"github.com/lucasb-eyer/go-colorful"
)

type token struct {
	err error
}

func (t token) Wait() bool                     { return true }
func (t token) WaitTimeout(time.Duration) bool { return true }
func (t token) Done() <-chan struct{}          { return closed }
func (t token) Error() error                   { return t.err }

var closed = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

type publication struct {
	Topic   string
	QoS     byte
	Payload []byte
}

// fakeClient records publications and subscriptions. Methods that are not
// overridden panic.
type fakeClient struct {
	mqtt.Client

	mu        sync.Mutex
	published []publication
	handlers  map[string]mqtt.MessageHandler
	err       error
}

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload any) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, publication{Topic: topic, QoS: qos, Payload: payload.([]byte)})
	return token{err: c.err}
}

func (c *fakeClient) Subscribe(topic string, _ byte, h mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handlers == nil {
		c.handlers = make(map[string]mqtt.MessageHandler)
	}
	c.handlers[topic] = h
	return token{err: c.err}
}

func (c *fakeClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.published)
}

type message struct {
	mqtt.Message
	payload string
}

func (m message) Payload() []byte { return []byte(m.payload) }

type fill colorful.Color

func (c fill) Render(f *Frame) { f.Fill(colorful.Color(c)) }

type commands []string

func (c *commands) Next()   { *c = append(*c, "next") }
func (c *commands) Pause()  { *c = append(*c, "pause") }
func (c *commands) Resume() { *c = append(*c, "resume") }

func TestSendFrame(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pixels = 2
	client := &fakeClient{}
	s := NewStreamer(cfg, client, fill{R: 1, B: 1}, nil)

	err := s.SendFrame()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []publication{{
		Topic:   cfg.Mqtt.Topics.Stream,
		QoS:     0,
		Payload: []byte{2, 0, 255, 0, 255, 255, 0, 255},
	}}
	if !cmp.Equal(client.published, want) {
		t.Errorf("unexpected publications:\n--- want:\n+++ got:\n%s", cmp.Diff(want, client.published))
	}

	errBroker := errors.New("broker gone")
	client.err = errBroker
	err = s.SendFrame()
	if !errors.Is(err, errBroker) {
		t.Errorf("unexpected error: got:%v want:%v", err, errBroker)
	}
}

func TestStreamerRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pixels = 4
	cfg.FrameRate = 1000
	client := &fakeClient{}
	s := NewStreamer(cfg, client, fill{G: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	deadline := time.After(5 * time.Second)
	for client.count() < 5 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for frames")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestControlTopic(t *testing.T) {
	cfg := DefaultConfig()
	client := &fakeClient{}
	s := NewStreamer(cfg, client, fill{}, nil)
	var got commands
	err := s.Subscribe(&got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := client.handlers[cfg.Mqtt.Topics.Control]
	if h == nil {
		t.Fatal("no subscription to control topic")
	}
	for _, payload := range []string{"next", " PAUSE\n", "explode", "resume"} {
		h(client, message{payload: payload})
	}
	want := commands{"next", "pause", "resume"}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected commands:\n--- want:\n+++ got:\n%s", cmp.Diff(want, got))
	}

	client.err = errors.New("not authorised")
	if err := s.Subscribe(&got); err == nil {
		t.Error("expected subscription error")
	}
}
