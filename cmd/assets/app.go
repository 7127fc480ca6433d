package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"asset-inventory/internal/assetclient"
	"asset-inventory/internal/auth"
	"asset-inventory/internal/config"
	"asset-inventory/internal/inventory"
	"asset-inventory/internal/logger"
	"asset-inventory/internal/metrics"
)

const cliSubject = "assets-cli"

// app carries what every command needs once the root has been set up
type app struct {
	// flags
	configPath  string
	apiURL      string
	logLevel    string
	metricsFile string

	out    io.Writer
	errOut io.Writer
	in     *bufio.Reader
	now    func() time.Time

	cfg     *config.Config
	log     logger.Logger
	client  *assetclient.Client
	metrics *metrics.Metrics
	store   *inventory.Store
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		out:    out,
		errOut: errOut,
		in:     bufio.NewReader(in),
		now:    time.Now,
	}
}

// setup loads configuration and builds the client and the collection store
func (a *app) setup() error {
	load := config.Load
	if a.configPath != "" {
		load = func() (*config.Config, error) { return config.LoadFile(a.configPath) }
	}
	cfg, err := load()
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	a.cfg = cfg

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.log = log

	opts := []assetclient.Option{
		assetclient.WithTimeout(cfg.Timeout),
		assetclient.WithLogger(log),
	}
	switch {
	case cfg.Token != "":
		opts = append(opts, assetclient.WithTokenSource(auth.StaticToken(cfg.Token)))
	case cfg.JWT.Secret != "" && cfg.JWT.Secret != config.DefaultJWTSecret:
		manager := auth.NewJWTManagerFromConfig(cfg.JWT)
		opts = append(opts, assetclient.WithTokenSource(auth.NewSigningSource(manager, cliSubject, auth.RoleAssetAdmin)))
	}
	if a.metricsFile != "" {
		a.metrics = metrics.NewMetrics()
		opts = append(opts, assetclient.WithObserver(a.metrics))
	}
	a.client = assetclient.New(cfg.APIURL, opts...)

	a.store = inventory.NewStore(a.client,
		inventory.WithNotifier(writerNotifier{w: a.errOut}),
		inventory.WithLogger(log),
		inventory.WithClock(a.now),
	)
	return nil
}

// teardown writes the client metrics, if requested
func (a *app) teardown() error {
	if a.metrics == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.metricsFile, a.metrics.Registry()); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// Confirm asks on the terminal; anything but y/yes declines
func (a *app) Confirm(prompt string) bool {
	fmt.Fprintf(a.errOut, "%s [y/N]: ", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// writerNotifier prints store outcome messages
type writerNotifier struct {
	w io.Writer
}

func (n writerNotifier) Success(message string) { fmt.Fprintln(n.w, "✓ "+message) }
func (n writerNotifier) Failure(message string) { fmt.Fprintln(n.w, "✗ "+message) }
