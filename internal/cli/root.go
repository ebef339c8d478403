package cli

import (
	"database/sql"
	"log/slog"

	"github.com/alexanderramin/lockedin/internal/config"
	"github.com/alexanderramin/lockedin/internal/host"
	"github.com/alexanderramin/lockedin/internal/platform"
	"github.com/spf13/cobra"
)

// App holds what every command needs to build the engine.
type App struct {
	DB     *sql.DB
	Config config.Config
	Logger *slog.Logger

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool

	// HostOptions are passed to every host the commands build.
	HostOptions []host.Option
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) newHost(ports host.Ports) *host.Host {
	return host.New(a.DB, a.Config, ports, a.Logger, a.HostOptions...)
}

// terminalHost builds an engine whose output ports write to the command's
// stdout.
func (a *App) terminalHost(cmd *cobra.Command) *host.Host {
	return a.newHost(host.TerminalPorts(platform.NewTerminal(cmd.OutOrStdout())))
}

// NewRootCmd creates the top-level "lockedin" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "lockedin",
		Short:         "Token-gated focus sessions that block distracting apps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRunCmd(app),
		newBootCmd(app),
		newScheduleCmd(app),
		newBlockCmd(app),
		newTokenCmd(app),
		newStatsCmd(app),
		newStreakCmd(app),
		newSetupCmd(app),
		newStatusCmd(app),
		newImportCmd(app),
		newExportCmd(app),
	)

	return root
}
