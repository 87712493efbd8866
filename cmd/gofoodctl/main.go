// Command gofoodctl is a command line client of the gofood API.
// It keeps the session, cart, location and delivery slot in a local state directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rookgm/gofood/config"
	"github.com/rookgm/gofood/internal/cart"
	"github.com/rookgm/gofood/internal/client"
	"github.com/rookgm/gofood/internal/localstore"
	"go.uber.org/zap"
)

// app holds dependencies shared by commands
type app struct {
	cfg    *config.ClientConfig
	store  *localstore.Store
	api    *client.Client
	logger *zap.Logger
	out    io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"signup":   {"signup -name N -email E -password P -phone T", runSignUp},
	"login":    {"login -name N -password P", runLogin},
	"logout":   {"logout", runLogout},
	"menu":     {"menu", runMenu},
	"cart":     {"cart show|add ID [QTY]|update ID QTY|remove ID|clear|checkout [-contact C] [-address A]", runCart},
	"location": {"location show|set -name N -lat LAT -lon LON|clear", runLocation},
	"slot":     {"slot list|set HH:MM|clear", runSlot},
	"orders":   {"orders", runOrders},
	"status":   {"status ORDER_ID FIELD VALUE", runStatus},
	"assign":   {"assign ORDER_ID RIDER_ID", runAssign},
	"finish":   {"finish ORDER_ID", runFinish},
	"watch":    {"watch -role admin|rider|customer [-order ID]", runWatch},
}

// newLogger creates console logger writing to stderr
func newLogger(level string) (*zap.Logger, error) {
	loggerLvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	loggerCfg := zap.NewDevelopmentConfig()
	loggerCfg.Level = loggerLvl

	return loggerCfg.Build()
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: gofoodctl <command> [arguments]")
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		usage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.NewClient(os.Getenv)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	store, err := localstore.Open(cfg.StateDir)
	if err != nil {
		logger.Fatal("Error opening state directory", zap.Error(err))
	}

	api := client.New(cfg.ServerURL, cfg.HTTPTimeout)
	var token string
	if err := store.Get(localstore.KeyToken, &token); err == nil {
		api.SetToken(token)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		cfg:    cfg,
		store:  store,
		api:    api,
		logger: logger,
		out:    os.Stdout,
	}

	if err := cmd.run(ctx, a, os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "gofoodctl %s: %v\n", os.Args[1], err)
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "usage: gofoodctl %s\n", cmd.usage)
		}
		os.Exit(1)
	}
}

var errUsage = errors.New("invalid arguments")

// loadCart opens the persisted cart with the configured policy
func (a *app) loadCart() (*cart.Cart, error) {
	policy, err := cart.ParsePolicy(a.cfg.CartPolicy)
	if err != nil {
		return nil, err
	}
	return cart.Load(a.store, policy)
}
