package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/zhubert/recall/internal/router"
	"github.com/zhubert/recall/internal/session"
	"github.com/zhubert/recall/internal/timefmt"
	"github.com/zhubert/recall/internal/ui"
)

var listAll bool

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List and manage chat sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, most recently updated first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *session.Store, actor session.Actor) error {
			return listSessions(cmd.Context(), cmd.OutOrStdout(), store, actor, listAll, time.Now())
		})
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *session.Store, _ session.Actor) error {
			return showSession(cmd.Context(), cmd.OutOrStdout(), store, args[0], time.Now())
		})
	},
}

var sessionsCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a session (prompts for a title when none is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *session.Store, actor session.Actor) error {
			return createSession(cmd.Context(), cmd.OutOrStdout(), store, actor, strings.Join(args, " "), promptTitle)
		})
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *session.Store, _ session.Actor) error {
			return deleteSession(cmd.Context(), cmd.OutOrStdout(), store, args[0])
		})
	},
}

var sessionsTouchCmd = &cobra.Command{
	Use:   "touch <id>",
	Short: "Mark a session as just updated, moving it to the top of the list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *session.Store, _ session.Actor) error {
			return touchSession(cmd.Context(), cmd.OutOrStdout(), store, args[0])
		})
	},
}

func init() {
	sessionsListCmd.Flags().BoolVar(&listAll, "all", false, "List sessions for every actor")
	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd, sessionsCreateCmd, sessionsTouchCmd, sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func withStore(fn func(store *session.Store, actor session.Actor) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store, session.Actor{ID: cfg.GetActorID()})
}

func listSessions(ctx context.Context, w io.Writer, store *session.Store, actor session.Actor, all bool, now time.Time) error {
	var (
		sessions []session.Session
		err      error
	)
	if all {
		sessions, err = store.ListAllSessions(ctx)
	} else {
		sessions, err = store.ListSessions(ctx, actor)
	}
	if err != nil {
		return fmt.Errorf("error listing sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions yet.")
		return nil
	}
	fmt.Fprintln(w, sessionTable(sessions, all, now))
	return nil
}

// sessionTable renders sessions as a bordered table. The actor column only
// appears when listing across actors.
func sessionTable(sessions []session.Session, withActor bool, now time.Time) string {
	headers := []string{"Title", "ID", "Updated"}
	if withActor {
		headers = append(headers, "Actor")
	}

	headerStyle := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(ui.ColorText).Padding(0, 1)
	mutedStyle := cellStyle.Foreground(ui.ColorTextMuted)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ui.ColorBorder)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return mutedStyle
			}
		})

	for _, s := range sessions {
		row := []string{displayTitle(s.Title), s.ID, timefmt.Relative(s.UpdatedAt, now)}
		if withActor {
			row = append(row, s.ActorID)
		}
		t.Row(row...)
	}
	return t.String()
}

func displayTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Untitled"
	}
	return title
}

func showSession(ctx context.Context, w io.Writer, store *session.Store, id string, now time.Time) error {
	if err := router.ValidateSessionID(id); err != nil {
		return err
	}
	sess, err := store.GetSession(ctx, id)
	if err != nil {
		return err
	}

	label := lipgloss.NewStyle().Foreground(ui.ColorTextMuted).Width(9)
	fmt.Fprintln(w, lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Render(displayTitle(sess.Title)))
	fields := []struct{ name, value string }{
		{"ID", sess.ID},
		{"Route", router.SessionRoute(sess.ID).Path()},
		{"Actor", sess.ActorID},
		{"Created", timefmt.Relative(sess.CreatedAt, now)},
		{"Updated", timefmt.Relative(sess.UpdatedAt, now)},
	}
	for _, f := range fields {
		fmt.Fprintln(w, label.Render(f.name)+f.value)
	}
	return nil
}

func createSession(ctx context.Context, w io.Writer, store *session.Store, actor session.Actor, title string, prompt func() (string, error)) error {
	title = strings.TrimSpace(title)
	if title == "" && prompt != nil {
		var err error
		if title, err = prompt(); err != nil {
			return err
		}
	}

	sess, err := store.CreateSession(ctx, actor, title)
	if err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}
	fmt.Fprintf(w, "Created %s (%s)\n", displayTitle(sess.Title), router.SessionRoute(sess.ID).Path())
	return nil
}

// promptTitle asks for a session title on the terminal.
func promptTitle() (string, error) {
	var title string
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Session title").
			Placeholder("What is this chat about?").
			Value(&title).
			Validate(requireTitle),
	)).WithTheme(ui.PromptTheme()).Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(title), nil
}

func requireTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("title is required")
	}
	return nil
}

func deleteSession(ctx context.Context, w io.Writer, store *session.Store, id string) error {
	if err := router.ValidateSessionID(id); err != nil {
		return err
	}
	if err := store.DeleteSession(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted %s\n", id)
	return nil
}

func touchSession(ctx context.Context, w io.Writer, store *session.Store, id string) error {
	if err := router.ValidateSessionID(id); err != nil {
		return err
	}
	if err := store.TouchSession(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(w, "Touched %s\n", id)
	return nil
}
