package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/engine"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/history"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/settings"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/theme"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/workspace"
)

func (a *app) openArchive() (*engine.Archive, error) {
	layout := workspace.New(a.cfg.Workspace.Root)
	store, err := history.Open(a.cfg.History, layout.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return engine.NewArchive(layout, store), nil
}

func (a *app) searchAction(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("usage: search_upp search [--tier simple|advanced] <query>")
	}

	archive, err := a.openArchive()
	if err != nil {
		return err
	}
	defer archive.Close()

	eng, err := engine.NewEngine(a.cfg, archive)
	if err != nil {
		return err
	}

	out, err := eng.Run(c.Context, query, model.Tier(c.String("tier")))
	if err != nil {
		return err
	}

	fmt.Printf("Query #%d: %s\n\n", out.Entry.Index, out.Entry.Query)
	for i, r := range out.Results {
		fmt.Printf("%2d. %s\n    %s\n", i+1, r.Title, r.URL)
	}
	var failed int
	for _, p := range out.Pages {
		if !p.OK() {
			failed++
		}
	}
	fmt.Printf("\nScraped %d pages (%d failed)\n\n", len(out.Pages)-failed, failed)
	fmt.Println(out.Summary)
	return nil
}

func (a *app) historyAction(c *cli.Context) error {
	archive, err := a.openArchive()
	if err != nil {
		return err
	}
	defer archive.Close()

	entries, err := archive.History(c.Context)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No searches yet")
		return nil
	}

	fmt.Printf("%-6s %-20s %s\n", "Index", "Time", "Query")
	fmt.Println(strings.Repeat("-", 80))
	for _, e := range entries {
		fmt.Printf("%-6d %-20s %s\n", e.Index, e.Time.Format(history.TimeLayout), e.Query)
	}
	fmt.Printf("\nTip: Use 'search_upp recap <index>' to see details\n")
	return nil
}

func (a *app) recapAction(c *cli.Context) error {
	index, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return fmt.Errorf("usage: search_upp recap <index>")
	}

	archive, err := a.openArchive()
	if err != nil {
		return err
	}
	defer archive.Close()

	recap, err := archive.Recap(c.Context, index)
	if err != nil {
		return err
	}

	fmt.Printf("Query #%d (%s): %s\n\n", recap.Entry.Index, recap.Entry.Time.Format(history.TimeLayout), recap.Entry.Query)
	if recap.ResultsMissing {
		fmt.Println("Search results are not available for this query.")
	}
	for i, r := range recap.Results {
		fmt.Printf("%2d. %s\n    %s\n", i+1, r.Title, r.URL)
	}
	fmt.Println()
	if recap.SummaryMissing {
		fmt.Println("Summary is not available for this query.")
		return nil
	}
	fmt.Println(recap.Summary)
	return nil
}

func (a *app) settingsShowAction(c *cli.Context) error {
	values, err := a.settings.Load()
	if err != nil {
		return err
	}
	masked := settings.Masked(values)
	keys := make([]string, 0, len(masked))
	for k := range masked {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s=%s\n", k, masked[k])
	}
	return nil
}

func (a *app) settingsSetAction(c *cli.Context) error {
	updates := make(map[string]string, c.Args().Len())
	for _, arg := range c.Args().Slice() {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected KEY=VALUE, got %q", arg)
		}
		updates[strings.TrimSpace(k)] = v
	}
	if len(updates) == 0 {
		return fmt.Errorf("usage: search_upp settings set KEY=VALUE...")
	}
	if err := a.settings.Set(updates); err != nil {
		return err
	}
	fmt.Printf("Saved %d setting(s) to %s\n", len(updates), a.settings.Path())
	return nil
}

func (a *app) themeShowAction(c *cli.Context) error {
	t, err := theme.Load(a.cfg.Theme.Path)
	if err != nil {
		return err
	}
	fmt.Printf("base = %s\nprimaryColor = %s\nbackgroundColor = %s\nsecondaryBackgroundColor = %s\ntextColor = %s\nfont = %s\n",
		t.Base, t.PrimaryColor, t.BackgroundColor, t.SecondaryBackgroundColor, t.TextColor, t.Font)
	return nil
}

func (a *app) themeSetAction(c *cli.Context) error {
	t, err := theme.Load(a.cfg.Theme.Path)
	if err != nil {
		return err
	}
	for flag, dst := range map[string]*string{
		"base":                       &t.Base,
		"primary-color":              &t.PrimaryColor,
		"background-color":           &t.BackgroundColor,
		"secondary-background-color": &t.SecondaryBackgroundColor,
		"text-color":                 &t.TextColor,
		"font":                       &t.Font,
	} {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}
	if err := theme.Modify(a.cfg.Theme.Path, t); err != nil {
		return err
	}
	fmt.Printf("Theme saved to %s\n", a.cfg.Theme.Path)
	return nil
}
