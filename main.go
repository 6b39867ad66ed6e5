// The ledanim command streams animated LED frames to an ledrx device over
// MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/matt-g-everett/ledanim/animation"
	"github.com/matt-g-everett/ledanim/api"
	"github.com/matt-g-everett/ledanim/stream"
	"github.com/matt-g-everett/ledanim/util"
)

func main() {
	os.Exit(Main())
}

func Main() int {
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	logLevel := flag.String("log", "info", "log level (debug, info, warn or error)")
	flag.Parse()

	var level slog.Level
	err := level.UnmarshalText([]byte(*logLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		return 2
	}
	h := util.GoID{Handler: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})}
	log := slog.New(h)
	mqtt.ERROR = slog.NewLogLogger(h, slog.LevelError)

	cfg, err := stream.LoadConfig(*configPath)
	if err != nil {
		log.Error("failed to read config", slog.String("path", *configPath), slog.Any("error", err))
		return 1
	}
	log.Debug("config", slog.Int("pixels", cfg.Pixels), slog.Any("effects", cfg.Effects), slog.Duration("frame_interval", cfg.FrameInterval()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, *configPath, cfg, log)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("exiting", slog.Any("error", err))
		return 1
	}
	return 0
}

func run(ctx context.Context, path string, cfg stream.Config, log *slog.Logger) error {
	loop := animation.NewLoop(nil, log)
	driver := animation.NewDriver(loop, cfg.FrameInterval(), log)
	controller := stream.NewController(loop, cfg, log)

	var streamer *stream.Streamer
	options := mqtt.NewClientOptions().
		AddBroker(cfg.Mqtt.URL).
		SetClientID(cfg.Mqtt.ClientID).
		SetUsername(cfg.Mqtt.Username).
		SetPassword(cfg.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(mqtt.Client) {
			log.Info("connected", slog.String("broker", cfg.Mqtt.URL))
			err := streamer.Subscribe(controller)
			if err != nil {
				log.Error("failed to subscribe", slog.Any("error", err))
			}
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn("connection lost", slog.Any("error", err))
		})
	client := mqtt.NewClient(options)
	streamer = stream.NewStreamer(cfg, client, controller, log)

	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Mqtt.URL, err)
	}
	defer client.Disconnect(250)

	controller.Start()
	defer controller.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return driver.Run(ctx) })
	g.Go(func() error { return streamer.Run(ctx) })
	g.Go(func() error { return watch(ctx, path, controller, log) })
	if cfg.Listen != "" {
		srv := api.NewServer(cfg.Listen, controller, cfg.Static, log)
		g.Go(func() error { return srv.Serve(ctx) })
	}
	return g.Wait()
}

// watch reloads the config at path into c whenever the file is rewritten.
// The containing directory is watched so that editors replacing the file
// by rename are seen. Bursts of events are collapsed into a single reload
// once the file has been quiet for debounce.
func watch(ctx context.Context, path string, c *stream.Controller, log *slog.Logger) error {
	const debounce = 200 * time.Millisecond

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer w.Close()
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config path: %w", err)
	}
	err = w.Add(filepath.Dir(abs))
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	reload := time.NewTimer(debounce)
	reload.Stop()
	defer reload.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) == abs && ev.Has(fsnotify.Write|fsnotify.Create) {
				reload.Reset(debounce)
			}
		case <-reload.C:
			cfg, err := stream.LoadConfig(abs)
			if err != nil {
				log.Warn("ignoring config change", slog.Any("error", err))
				continue
			}
			log.Info("reloaded config", slog.String("path", abs))
			c.SetConfig(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher", slog.Any("error", err))
		}
	}
}
