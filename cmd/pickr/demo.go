package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexcabrera/pickr/internal/config"
	"github.com/alexcabrera/pickr/internal/option"
	"github.com/alexcabrera/pickr/internal/pipe"
	"github.com/alexcabrera/pickr/internal/ui/dropdown"
	"github.com/alexcabrera/pickr/internal/ui/form"
	"github.com/alexcabrera/pickr/internal/ui/picker"
	"github.com/alexcabrera/pickr/internal/ui/pubsub"
	"github.com/alexcabrera/pickr/internal/ui/shared"
)

type scenario struct {
	name string
	desc string
	run  func(ctx context.Context, cfg config.Config, w io.Writer) error
}

var scenarios = []scenario{
	{"form", "Several dropdowns in one form with validation", runFormDemo},
	{"search", "A long list with a search field", runSearchDemo},
	{"floating", "A floating panel instead of an anchored list", runFloatingDemo},
	{"loading", "Options fetched while a spinner runs", runLoadingDemo},
	{"empty", "An empty list with a markdown placeholder", runEmptyDemo},
}

func findScenario(name string) (scenario, bool) {
	i := slices.IndexFunc(scenarios, func(s scenario) bool { return s.name == name })
	if i < 0 {
		return scenario{}, false
	}
	return scenarios[i], true
}

func newDemoCmd(cfgPath *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:       "demo [scenario]",
		Short:     "Run a built-in dropdown scenario",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: scenarioNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cfgPath, *debug, func(cfg config.Config) error {
				name := ""
				if len(args) == 1 {
					name = args[0]
				} else {
					var err error
					if name, err = chooseScenario(cmd.Context()); err != nil {
						return err
					}
				}
				sc, ok := findScenario(name)
				if !ok {
					return fmt.Errorf("unknown scenario %q (want one of %v)", name, scenarioNames())
				}
				slog.Info("demo", "scenario", sc.name)
				return sc.run(cmd.Context(), cfg, cmd.OutOrStdout())
			})
		},
	}
}

func scenarioNames() []string {
	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.name
	}
	return names
}

func chooseScenario(ctx context.Context) (string, error) {
	var selected string
	options := make([]huh.Option[string], 0, len(scenarios))
	for _, s := range scenarios {
		options = append(options, huh.NewOption(fmt.Sprintf("%-9s %s", s.name, s.desc), s.name))
	}

	f := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose a scenario").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(huh.ThemeCharm())

	if err := f.RunWithContext(ctx); err != nil {
		return "", err
	}
	return selected, nil
}

// baseOptions applies the config to a demo dropdown.
func baseOptions[V comparable](cfg config.Config, o dropdown.Options[V]) dropdown.Options[V] {
	sorted, order, _ := cfg.SortOrder()
	o.DisableSort = o.DisableSort || !sorted
	if o.SortOrder == "" {
		o.SortOrder = order
	}
	if o.Placeholder == "" {
		o.Placeholder = cfg.Placeholder
	}
	o.SearchPlaceholder = cfg.SearchPlaceholder
	o.Spinner = shared.ParseSpinnerType(cfg.Spinner)
	o.AnimationIn = cfg.AnimationIn
	o.AnimationOut = cfg.AnimationOut
	if o.Width == 0 {
		o.Width = cfg.Width
	}
	return o
}

func countries() []option.Option[string] {
	names := []string{
		"Argentina", "Australia", "Austria", "Belgium", "Brazil", "Canada",
		"Chile", "Denmark", "Egypt", "Finland", "France", "Germany", "Greece",
		"India", "Ireland", "Italy", "Japan", "Kenya", "Mexico", "Netherlands",
		"Norway", "Peru", "Portugal", "Spain", "Sweden", "Vietnam",
	}
	out := make([]option.Option[string], len(names))
	for i, n := range names {
		out[i] = option.New(n, fmt.Sprintf("c%02d", i+1))
	}
	return out
}

func runPicker(ctx context.Context, w io.Writer, opts dropdown.Options[string], load picker.LoadFunc) error {
	dd := dropdown.New(opts)
	defer dd.Close()

	p := picker.New(ctx, dd, load)
	if err := p.Run(pipe.UIOutput()); err != nil {
		return err
	}
	value, label, ok := p.Selected()
	if !ok {
		return errCancelled
	}
	fmt.Fprintf(w, "%s (%s)\n", label, value)
	return nil
}

func runSearchDemo(ctx context.Context, cfg config.Config, w io.Writer) error {
	return runPicker(ctx, w, baseOptions(cfg, dropdown.Options[string]{
		Label:        "Country",
		Data:         countries(),
		EnableSearch: true,
	}), nil)
}

func runFloatingDemo(ctx context.Context, cfg config.Config, w io.Writer) error {
	return runPicker(ctx, w, baseOptions(cfg, dropdown.Options[string]{
		Label:    "Country",
		Data:     countries(),
		Floating: true,
	}), nil)
}

func runLoadingDemo(ctx context.Context, cfg config.Config, w io.Writer) error {
	load := func(ctx context.Context) ([]option.Option[string], error) {
		select {
		case <-time.After(2 * time.Second):
			return countries(), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return runPicker(ctx, w, baseOptions(cfg, dropdown.Options[string]{
		Label: "Country",
	}), load)
}

func runEmptyDemo(ctx context.Context, cfg config.Config, w io.Writer) error {
	return runPicker(ctx, w, baseOptions(cfg, dropdown.Options[string]{
		Label:         "Country",
		Data:          []option.Option[string]{},
		EmptyMarkdown: "**Nothing to pick.** Pass options with `--file`.",
	}), nil)
}

func runFormDemo(ctx context.Context, cfg config.Config, w io.Writer) error {
	events := pubsub.NewBroker[pubsub.DropdownEvent](32)
	defer events.Shutdown()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go logEvents(events.Subscribe(ctx))

	country := dropdown.New(baseOptions(cfg, dropdown.Options[string]{
		Name:         "country",
		Label:        "Country",
		Data:         countries(),
		EnableSearch: true,
		Required:     true,
		Events:       events,
	}))
	size := dropdown.New(baseOptions(cfg, dropdown.Options[int]{
		Name:  "size",
		Label: "Size",
		Data: []option.Option[int]{
			option.New("Small", 1),
			option.New("Medium", 2),
			option.New("Large", 3),
		},
		DisableSort: true,
		Events:      events,
	}))
	color := dropdown.New(baseOptions(cfg, dropdown.Options[string]{
		Name:  "color",
		Label: "Color",
		Data: []option.Option[string]{
			option.New("Red", "red"),
			option.New("Green", "green"),
			option.New("Blue", "blue"),
		},
		SortOrder:            option.Desc,
		DisableSelectionTick: true,
		Events:               events,
	}))

	f := form.New("New order", country, size, color)
	if err := f.Run(ctx); err != nil {
		return err
	}
	if !f.Submitted() {
		return errCancelled
	}

	res := f.Result()
	for _, name := range slices.Sorted(maps.Keys(res)) {
		fmt.Fprintf(w, "%s=%v\n", name, res[name])
	}
	return nil
}

func logEvents(ch <-chan pubsub.Event[pubsub.DropdownEvent]) {
	for e := range ch {
		slog.Debug("dropdown event", "type", e.Type, "field", e.Payload.Name, "value", e.Payload.Value)
	}
}
