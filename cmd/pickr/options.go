package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/alexcabrera/pickr/internal/config"
	"github.com/alexcabrera/pickr/internal/option"
	"github.com/alexcabrera/pickr/internal/pipe"
	"github.com/alexcabrera/pickr/internal/ui/dropdown"
	"github.com/alexcabrera/pickr/internal/ui/shared"
)

var errUnknownValue = errors.New("value is not one of the options")

func bindPickFlags(fl *pflag.FlagSet, f *pickFlags) {
	fl.StringVarP(&f.label, "label", "l", "", "field label")
	fl.StringVarP(&f.placeholder, "placeholder", "p", "", "text shown when nothing is selected")
	fl.StringVar(&f.value, "value", "", "initially selected value")
	fl.BoolVarP(&f.search, "search", "s", false, "enable the search field")
	fl.StringVar(&f.searchPlaceholder, "search-placeholder", "", "search field placeholder")
	fl.StringVar(&f.sort, "sort", "", "sort order: asc, desc or none")
	fl.BoolVar(&f.floating, "floating", false, "show the list as a floating panel")
	fl.BoolVar(&f.required, "required", false, "keep the picker open until a value is chosen")
	fl.StringVar(&f.helperText, "helper-text", "", "text shown when a required value is missing")
	fl.BoolVar(&f.noTick, "no-tick", false, "hide the tick next to the selected option")
	fl.StringVar(&f.emptyText, "empty-text", "", "text shown when no options match")
	fl.StringVarP(&f.file, "file", "f", "", "read options from a file")
	fl.IntVar(&f.width, "width", 0, "trigger width in cells")
}

// readOptions collects options from the file, the arguments or stdin, in
// that order of precedence. Values are kept exactly as written.
func readOptions(args []string, file string) ([]option.Option[string], error) {
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read options file: %w", err)
		}
		return option.Parse(data)
	case len(args) > 0:
		return option.ParseLines(strings.NewReader(strings.Join(args, "\n")))
	case pipe.IsStdinPiped():
		data, err := pipe.ReadStdin()
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return option.Parse(data)
	default:
		return nil, fmt.Errorf("%w: pass label=value arguments, --file or pipe them on stdin", option.ErrNoOptions)
	}
}

// buildOptions merges config and flags into dropdown options. Flags win
// when set.
func buildOptions(cfg config.Config, fl *pflag.FlagSet, f pickFlags, data []option.Option[string]) (dropdown.Options[string], error) {
	str := func(name, flag, fallback string) string {
		if fl.Changed(name) {
			return flag
		}
		return fallback
	}
	boolean := func(name string, flag, fallback bool) bool {
		if fl.Changed(name) {
			return flag
		}
		return fallback
	}

	if fl.Changed("sort") {
		cfg.Sort = f.sort
	}
	sorted, order, err := cfg.SortOrder()
	if err != nil {
		return dropdown.Options[string]{}, fmt.Errorf("--sort: %w", err)
	}

	width := cfg.Width
	if fl.Changed("width") {
		width = f.width
	}

	opts := dropdown.Options[string]{
		Name:                 "value",
		Label:                f.label,
		Placeholder:          str("placeholder", f.placeholder, cfg.Placeholder),
		Width:                width,
		Data:                 data,
		Required:             f.required,
		HelperText:           str("helper-text", f.helperText, cfg.HelperText),
		ErrorColor:           lipgloss.Color(cfg.ErrorColor),
		EnableSearch:         boolean("search", f.search, cfg.Search),
		SearchPlaceholder:    str("search-placeholder", f.searchPlaceholder, cfg.SearchPlaceholder),
		DisableSort:          !sorted,
		SortOrder:            order,
		Floating:             boolean("floating", f.floating, cfg.Floating),
		DisableSelectionTick: boolean("no-tick", f.noTick, cfg.DisableTick),
		EmptyText:            str("empty-text", f.emptyText, cfg.EmptyText),
		Spinner:              shared.ParseSpinnerType(cfg.Spinner),
		MaxRows:              cfg.MaxRows,
		AnimationIn:          cfg.AnimationIn,
		AnimationOut:         cfg.AnimationOut,
	}

	if f.value != "" {
		if _, ok := option.Find(data, f.value); !ok {
			return opts, fmt.Errorf("--value %q: %w", f.value, errUnknownValue)
		}
		v := f.value
		opts.Value = &v
	}
	return opts, nil
}
