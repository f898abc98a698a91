package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledmod/api"
	"github.com/matt-g-everett/ledmod/logging"
	"github.com/matt-g-everett/ledmod/stream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

type app struct {
	Config   stream.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Client   mqtt.Client
	Engine   *stream.Engine
	Player   *stream.Player
	Streamer *stream.Streamer
}

func newApp(configPath string) (*app, error) {
	a := new(app)

	config, err := stream.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	a.Config = config

	level, err := logging.ParseLevel(config.Log.Level)
	if err != nil {
		return nil, err
	}
	a.Logger = logging.New(level)
	mqtt.ERROR = slog.NewLogLogger(a.Logger.Handler(), slog.LevelError)

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := stream.NewMetrics(a.Registry)

	a.Engine = stream.NewEngine(stream.WithMetrics(metrics), stream.WithLogger(a.Logger))
	views, err := config.NewViews()
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		if err := a.Engine.Register(v); err != nil {
			return nil, err
		}
	}
	a.Player = stream.NewPlayer(a.Engine, a.Logger)

	a.Client = mqtt.NewClient(a.clientOptions().SetOnConnectHandler(a.handleOnConnect))
	a.Streamer, err = stream.NewStreamer(config, a.Client, a.Engine, a.Player, metrics, a.Logger)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) clientOptions() *mqtt.ClientOptions {
	return mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second)
}

func (a *app) handleOnConnect(client mqtt.Client) {
	a.Logger.Info("connected", "broker", a.Config.Mqtt.URL)
	if err := a.Streamer.Subscribe(); err != nil {
		a.Logger.Error("subscribe failed", "error", err)
	}
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect %s: %w", a.Config.Mqtt.URL, token.Error())
	}
	defer a.Client.Disconnect(250)

	server := api.NewApi(a.Engine, a.Player, a.Registry, a.Config.HTTP.Static, a.Logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Streamer.Run(ctx)
	})
	g.Go(func() error {
		return server.Serve(ctx, a.Config.HTTP.Addr)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
