package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alexanderramin/lockedin/internal/cli/formatter"
	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/host"
	"github.com/alexanderramin/lockedin/internal/platform"
	"github.com/alexanderramin/lockedin/internal/service"
	"github.com/spf13/cobra"
)

func newRunCmd(app *App) *cobra.Command {
	var force bool
	var foreground string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the blocking engine",
		Long: "Run the blocking engine. On a terminal this opens an interactive view;\n" +
			"otherwise commands are read line by line from stdin (try 'help').\n" +
			"--foreground names a file or FIFO that receives one package name per\n" +
			"line whenever an app comes to the foreground.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var src *platform.LineSource
			if foreground != "" {
				f, err := os.Open(foreground)
				if err != nil {
					return fmt.Errorf("opening foreground stream: %w", err)
				}
				defer f.Close()
				src = platform.NewLineSource(64)
				go pumpForeground(ctx, f, src)
			}

			if app.interactive() {
				return runInteractive(ctx, app, force, src)
			}
			return runLines(ctx, app, cmd, force, src)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Engage blocking even if setup is incomplete")
	cmd.Flags().StringVar(&foreground, "foreground", "", "File or FIFO streaming foreground package names")

	return cmd
}

// pumpForeground forwards one package per line from r into src and closes
// src at EOF.
func pumpForeground(ctx context.Context, r io.Reader, src *platform.LineSource) {
	defer src.Close()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		pkg := strings.TrimSpace(sc.Text())
		if pkg == "" {
			continue
		}
		if err := src.Push(ctx, pkg); err != nil {
			return
		}
	}
}

func foregroundPorts(ports host.Ports, src *platform.LineSource) host.Ports {
	if src != nil {
		ports.Foreground = src
	}
	return ports
}

func startEngine(ctx context.Context, h *host.Host, force bool) (*service.ReconcileReport, error) {
	report, err := h.Start(ctx, force)
	if errors.Is(err, domain.ErrSetupIncomplete) {
		return nil, fmt.Errorf("%w: run 'lockedin setup complete' or pass --force", err)
	}
	return report, err
}

func reconcileNote(report *service.ReconcileReport) string {
	if report == nil || (report.ClosedRows == 0 && !report.StreakReset) {
		return ""
	}
	note := fmt.Sprintf("Closed %d interrupted session(s)", report.ClosedRows)
	if report.StreakReset {
		note += "; streak reset"
	}
	return formatter.Dim(note)
}

func runLines(ctx context.Context, app *App, cmd *cobra.Command, force bool, src *platform.LineSource) error {
	out := cmd.OutOrStdout()
	term := platform.NewTerminal(out)
	h := app.newHost(foregroundPorts(host.TerminalPorts(term), src))

	report, err := startEngine(ctx, h, force)
	if err != nil {
		return err
	}
	defer h.Stop()

	if note := reconcileNote(report); note != "" {
		fmt.Fprintln(out, note)
	}
	fmt.Fprintln(out, formatter.Dim("lockedin engine running; type 'help' for commands"))
	return h.Serve(ctx, cmd.InOrStdin(), &lockedWriter{term: term})
}

// lockedWriter routes protocol replies through the terminal's lock so they
// never interleave with countdown output.
type lockedWriter struct {
	term *platform.Terminal
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.term.Println(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
