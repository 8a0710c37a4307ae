package main

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/jask/omnibar/internal/engine"
	"github.com/jask/omnibar/internal/history"
	"github.com/jask/omnibar/internal/mcp"
	"github.com/jask/omnibar/internal/tui"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "omnibar",
		Usage:   "Command palette, global search and assistant for the CRM",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "sqlite file for preferences and history (overrides database.path)"},
			&cli.BoolFlag{Name: "ephemeral", Usage: "keep preferences and history in memory"},
		},
		Commands: []*cli.Command{
			tuiCmd(),
			rankCmd(),
			parseCmd(),
			shortcutsCmd(),
			searchesCmd(),
			mcpCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func tuiCmd() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Run the interactive palette",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "route", Usage: "initial route, e.g. /dossiers/42"},
		},
		Action: func(c *cli.Context) error {
			notify := tui.NewNotifier()
			nav := &tui.Navigator{}
			s, err := openSession(c, logFile, func(d *engine.Deps) {
				d.Navigator = nav
				d.OnChange = notify.Notify
			})
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer s.Close()
			if route := c.String("route"); route != "" {
				s.engine.SetRoute(route)
			}
			p := tea.NewProgram(tui.New(s.engine, notify, nav), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

// rankOutput is the JSON shape of the rank command.
type rankOutput struct {
	Query          string           `json:"query"`
	Conversational bool             `json:"conversational"`
	Items          []engine.Item    `json:"items"`
	RecentSearches []history.Search `json:"recent_searches,omitempty"`
}

func rankCmd() *cli.Command {
	return &cli.Command{
		Name:      "rank",
		Usage:     "Rank palette candidates for a query",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "route", Usage: "current route for contextual commands"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "maximum number of items"},
		},
		Action: func(c *cli.Context) error {
			s, err := openSession(c, logStderr, nil)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer s.Close()

			query := strings.Join(c.Args().Slice(), " ")
			res := s.engine.Lookup(c.Context, c.String("route"), query)
			items := engine.Items(res.Items)
			if n := c.Int("limit"); n > 0 && len(items) > n {
				items = items[:n]
			}
			out := rankOutput{Query: res.Query, Conversational: res.Conversational, Items: items}
			if strings.TrimSpace(query) == "" {
				out.RecentSearches = s.engine.RecentSearches()
			}
			return outputJSON(c.App.Writer, out)
		},
	}
}

func parseCmd() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Classify a natural-language request",
		ArgsUsage: "<text>",
		Action: func(c *cli.Context) error {
			text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if text == "" {
				return cli.Exit("text is required", 1)
			}
			s, err := openSession(c, logStderr, nil)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer s.Close()
			return outputJSON(c.App.Writer, s.engine.Classify(c.Context, text))
		},
	}
}

func shortcutsCmd() *cli.Command {
	return &cli.Command{
		Name:      "shortcuts",
		Usage:     "List keyboard shortcuts by category",
		ArgsUsage: "[filter]",
		Action: func(c *cli.Context) error {
			s, err := openSession(c, logStderr, nil)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer s.Close()
			return outputJSON(c.App.Writer, s.engine.Shortcuts(strings.Join(c.Args().Slice(), " ")))
		},
	}
}

func searchesCmd() *cli.Command {
	return &cli.Command{
		Name:  "searches",
		Usage: "List or forget recent searches",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "remove", Usage: "forget a recent search (repeatable)"},
			&cli.BoolFlag{Name: "clear", Usage: "forget all recent searches"},
		},
		Action: func(c *cli.Context) error {
			s, err := openSession(c, logStderr, nil)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer s.Close()
			if c.Bool("clear") {
				s.engine.ClearRecentSearches()
			}
			for _, q := range c.StringSlice("remove") {
				if !s.engine.RemoveRecentSearch(q) {
					return cli.Exit("no recent search "+strconv.Quote(q), 1)
				}
			}
			list := s.engine.RecentSearches()
			if list == nil {
				list = []history.Search{}
			}
			return outputJSON(c.App.Writer, list)
		},
	}
}

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the palette as MCP tools over stdio",
		Action: func(c *cli.Context) error {
			s, err := openSession(c, logStderr, nil)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer s.Close()
			if err := mcp.Run(s.engine, Version); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		},
	}
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
