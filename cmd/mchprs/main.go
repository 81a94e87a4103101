// Command mchprs runs a single plot's redstone simulation and its WorldEdit
// and redpiler command surface, reading commands from standard input until
// interrupted or told to stop.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/mchprs-go/mchprs/server/cmd"
	"github.com/mchprs-go/mchprs/server/cmd/builtin"
	"github.com/mchprs-go/mchprs/server/plot"
	"github.com/mchprs-go/mchprs/server/plotconf"
	"github.com/mchprs-go/mchprs/server/worldedit"
)

func main() {
	confPath := flag.String("config", "config.toml", "path to the server's TOML configuration file")
	plotX := flag.Int("x", 0, "plot x coordinate to load")
	plotZ := flag.Int("z", 0, "plot z coordinate to load")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	if err := run(*confPath, *plotX, *plotZ, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(confPath string, plotX, plotZ int, log *slog.Logger) error {
	conf, err := plotconf.Load(confPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	p, err := plot.Open(conf.DataDir, plotX, plotZ, conf, log)
	if err != nil {
		return fmt.Errorf("open plot (%d, %d): %w", plotX, plotZ, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := &server{plot: p, sessions: worldedit.NewManager(), stop: cancel}
	builtin.Register(srv)

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	console := &consoleSource{id: uuid.New()}
	go runConsole(ctx, console)

	err = <-done
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// server adapts a single Plot and its WorldEdit sessions to the interface
// builtin's commands are written against.
type server struct {
	plot     *plot.Plot
	sessions *worldedit.Manager
	stop     context.CancelFunc
}

func (s *server) Plot() *plot.Plot             { return s.plot }
func (s *server) Sessions() *worldedit.Manager { return s.sessions }

// Stop cancels the plot's run context; Run's own deferred Save and store
// Close handle a clean shutdown from there.
func (s *server) Stop() error {
	s.stop()
	return nil
}

// consoleSource is the cmd.Source backing stdin, a single shared identity
// for every command typed at the console.
type consoleSource struct {
	id uuid.UUID
}

func (c *consoleSource) Name() string      { return "console" }
func (c *consoleSource) Actor() uuid.UUID  { return c.id }
func (c *consoleSource) SendCommandOutput(o *cmd.Output) {
	for _, line := range o.Lines() {
		fmt.Println(line)
	}
	for _, line := range o.Errors() {
		fmt.Fprintln(os.Stderr, line)
	}
}

// runConsole reads command lines from stdin until ctx is cancelled or stdin
// is closed, dispatching each through cmd.ExecuteLine.
func runConsole(ctx context.Context, src *consoleSource) {
	scanner := bufio.NewScanner(os.Stdin)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if line == "" {
				continue
			}
			if line[0] != '/' {
				line = "/" + line
			}
			cmd.ExecuteLine(src, line, nil)
		}
	}
}
