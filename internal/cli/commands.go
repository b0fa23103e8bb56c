package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/idilsaglam/notas/internal/mcpserver"
	"github.com/idilsaglam/notas/internal/model"
	"github.com/idilsaglam/notas/internal/session"
	"github.com/idilsaglam/notas/internal/ui"
)

// -------------- listing ----------------

func (a *App) lsCommand() *cli.Command {
	return &cli.Command{
		Name:         "ls",
		Usage:        "List all notes",
		OnUsageError: usageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := a.setup(cmd, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			rt.Ctl.LoadAll(ctx)
			return printList(rt.Ctl.State().List)
		},
	}
}

func (a *App) searchCommand() *cli.Command {
	return &cli.Command{
		Name:         "search",
		Usage:        "List notes whose title matches a term",
		ArgsUsage:    "<term...>",
		OnUsageError: usageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			term := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
			if term == "" {
				return usage("notas search <term...>")
			}
			rt, err := a.setup(cmd, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			rt.Ctl.Search(ctx, term)
			return printList(rt.Ctl.State().List)
		},
	}
}

// printList draws the list region. Only an error placeholder fails the command.
func printList(v session.ListView) error {
	ui.Panel(ui.ListLines(v))
	if v.Status == session.ListError {
		return cli.Exit("", ExitError)
	}
	return nil
}

// -------------- single note ----------------

func (a *App) showCommand() *cli.Command {
	return &cli.Command{
		Name:         "show",
		Usage:        "Print one note",
		ArgsUsage:    "<id>",
		OnUsageError: usageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return usage("notas show <id>")
			}
			rt, err := a.setup(cmd, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			n, err := open(ctx, rt.Ctl, cmd.Args().First())
			if err != nil {
				return err
			}
			ui.Panel(ui.NoteLines(n))
			return nil
		},
	}
}

func (a *App) addCommand() *cli.Command {
	return &cli.Command{
		Name:         "add",
		Usage:        "Create a note",
		OnUsageError: usageError,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Note title"},
			&cli.StringFlag{Name: "content", Aliases: []string{"m"}, Usage: "Note content"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := a.setup(cmd, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			return report(rt.Ctl.Save(ctx, cmd.String("title"), cmd.String("content")))
		},
	}
}

func (a *App) editCommand() *cli.Command {
	return &cli.Command{
		Name:         "edit",
		Usage:        "Change the title and/or content of a note",
		ArgsUsage:    "<id>",
		OnUsageError: usageError,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title (default: keep)"},
			&cli.StringFlag{Name: "content", Aliases: []string{"m"}, Usage: "New content (default: keep)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return usage("notas edit <id> [--title T] [--content C]")
			}
			if !cmd.IsSet("title") && !cmd.IsSet("content") {
				return usage("notas edit <id>: pass --title and/or --content")
			}
			rt, err := a.setup(cmd, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			n, err := open(ctx, rt.Ctl, cmd.Args().First())
			if err != nil {
				return err
			}
			title, content := n.Title, n.Content
			if cmd.IsSet("title") {
				title = cmd.String("title")
			}
			if cmd.IsSet("content") {
				content = cmd.String("content")
			}
			return report(rt.Ctl.Save(ctx, title, content))
		},
	}
}

func (a *App) rmCommand() *cli.Command {
	return &cli.Command{
		Name:         "rm",
		Usage:        "Delete a note",
		ArgsUsage:    "<id>",
		OnUsageError: usageError,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Do not ask for confirmation"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return usage("notas rm <id> [--yes]")
			}
			rt, err := a.setup(cmd, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			if _, err := open(ctx, rt.Ctl, cmd.Args().First()); err != nil {
				return err
			}
			res := rt.Ctl.Delete(ctx)
			if res.Outcome != session.OutcomeConfirm {
				return report(res)
			}
			accepted := cmd.Bool("yes") || a.confirm(res.Prompt)
			res = rt.Ctl.ConfirmDelete(ctx, accepted)
			if res.Outcome == session.OutcomeNoop {
				ui.Warn("kept")
				return nil
			}
			return report(res)
		},
	}
}

// confirm asks prompt on stdout and reads a y/N answer from stdin.
func (a *App) confirm(prompt string) bool {
	fmt.Fprintf(ui.Stdout, "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(a.stdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// -------------- mcp ----------------

func (a *App) mcpCommand() *cli.Command {
	return &cli.Command{
		Name:         "mcp",
		Usage:        "Serve the notes as MCP tools over stdio",
		OnUsageError: usageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := a.setup(cmd, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			srv := mcpserver.New(rt.Store, a.Version, rt.Log.With().Str("component", "mcp").Logger())
			rt.Log.Info().Str("base_url", rt.Store.BaseURL()).Msg("serving MCP on stdio")
			return srv.Serve(ctx, a.stdin(), ui.Stdout)
		},
	}
}

// -------------- helpers ----------------

// open loads the collection and selects the note with the given id.
func open(ctx context.Context, ctl *session.Controller, arg string) (model.Note, error) {
	ctl.LoadAll(ctx)
	st := ctl.State()
	if st.List.Status == session.ListError {
		return model.Note{}, cli.Exit(st.List.Message, ExitError)
	}
	ctl.Select(model.ParseNoteID(arg))
	n, ok := ctl.State().SelectedNote()
	if !ok {
		return model.Note{}, cli.Exit(fmt.Sprintf("note %s not found", arg), ExitError)
	}
	return n, nil
}

// report prints the notice of a mutation and maps its outcome to an exit code.
func report(res session.Result) error {
	switch res.Outcome {
	case session.OutcomeDone:
		ui.OK(res.Notice.Text)
		return nil
	case session.OutcomeInvalid:
		return cli.Exit(res.Notice.Text, ExitUsage)
	case session.OutcomeFailed:
		return cli.Exit(res.Notice.Text, ExitError)
	}
	return nil
}
