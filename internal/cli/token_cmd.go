package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/lockedin/internal/cli/formatter"
	"github.com/alexanderramin/lockedin/internal/repository"
	"github.com/spf13/cobra"
)

func newTokenCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the registered physical token",
	}

	cmd.AddCommand(
		newTokenShowCmd(app),
		newTokenRegisterCmd(app),
		newTokenUnregisterCmd(app),
	)

	return cmd
}

func newTokenShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the registered token",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := app.terminalHost(cmd)
			tok, err := h.Tokens.Get(context.Background())
			if errors.Is(err, repository.ErrNotFound) {
				tok, err = nil, nil
			}
			if err != nil {
				return err
			}
			pairs := [][2]string{{"Token", formatter.FormatToken(tok)}}
			if tok != nil {
				pairs = append(pairs, [2]string{"Registered", tok.RegisteredAt.Local().Format("2006-01-02 15:04")})
			}
			pairs = append(pairs, [2]string{"Reader", readerState(h.Dispatcher.IsTokenReaderSupported(), h.Dispatcher.IsTokenReaderEnabled())})
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderKeyValues(pairs))
			return nil
		},
	}
}

func readerState(supported, enabled bool) string {
	switch {
	case !supported:
		return formatter.StyleRed.Render("not supported")
	case !enabled:
		return formatter.StyleYellow.Render("disabled")
	default:
		return formatter.StyleGreen.Render("ready")
	}
}

func newTokenRegisterCmd(app *App) *cobra.Command {
	var nickname string

	cmd := &cobra.Command{
		Use:   "register ID",
		Short: "Register a token by its hex id",
		Long:  "Register a token by its hex id. To register by tapping, use 'register' inside 'lockedin run'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := app.terminalHost(cmd).Tokens.Register(context.Background(), args[0], nickname)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered token %s\n", tok.TokenID)
			return nil
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "", "Label for the token")

	return cmd
}

func newTokenUnregisterCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unregister",
		Short: "Forget the registered token; any token will then start sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.terminalHost(cmd).Tokens.Unregister(context.Background()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token unregistered")
			return nil
		},
	}
}

