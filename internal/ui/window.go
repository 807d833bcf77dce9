// Package ui implements the single-window country finder interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/Parsherm/country-finder/internal/domain"
	"github.com/Parsherm/country-finder/internal/logger"
)

// Lookup is the country lookup contract this window drives.
type Lookup interface {
	Lookup(ctx context.Context, name string) (*domain.Country, error)
}

// FlagFetcher downloads the raw flag image for a record.
type FlagFetcher interface {
	FetchFlag(ctx context.Context, url string) ([]byte, error)
}

// Window is the application's only window: an entry, a search button, the
// result text and flag image, and a clear button.
type Window struct {
	win    fyne.Window
	lookup Lookup
	flags  FlagFetcher
	log    *slog.Logger

	entry     *widget.Entry
	searchBtn *widget.Button
	clearBtn  *widget.Button
	result    *widget.Label
	flag      *canvas.Image
	flagNote  *widget.Label
}

// New builds the window. Lookups run synchronously in the event handler;
// blocking the interface during a fetch is acceptable at this scale.
func New(a fyne.App, lookup Lookup, flags FlagFetcher) *Window {
	w := &Window{
		win:    a.NewWindow("Country Finder"),
		lookup: lookup,
		flags:  flags,
		log:    logger.WithComponent("ui"),
	}

	w.entry = widget.NewEntry()
	w.entry.SetPlaceHolder("e.g. Japan")
	w.entry.OnSubmitted = func(string) { w.search() }
	w.searchBtn = widget.NewButton("Search", w.search)
	w.clearBtn = widget.NewButton("Clear", w.clear)

	w.result = widget.NewLabel("")
	w.result.Wrapping = fyne.TextWrapWord

	w.flag = canvas.NewImageFromResource(nil)
	w.flag.FillMode = canvas.ImageFillContain
	w.flag.SetMinSize(fyne.NewSize(120, 80))
	w.flagNote = widget.NewLabel("")
	w.flagNote.Alignment = fyne.TextAlignCenter

	searchRow := container.NewBorder(nil, nil,
		widget.NewLabel("Enter Country Name:"), w.searchBtn, w.entry)
	bottomRow := container.NewHBox(layout.NewSpacer(), w.clearBtn)

	w.win.SetContent(container.NewBorder(
		searchRow, bottomRow, nil, nil,
		container.NewVBox(w.result, w.flag, w.flagNote),
	))
	w.win.Resize(fyne.NewSize(500, 400))
	w.win.SetFixedSize(true)

	return w
}

// ShowAndRun shows the window and runs the event loop until it is closed.
func (w *Window) ShowAndRun() {
	w.win.ShowAndRun()
}

// search performs a lookup for the entered name and renders the result.
// The window stays usable after any failure.
func (w *Window) search() {
	name := strings.TrimSpace(w.entry.Text)
	if name == "" {
		dialog.ShowInformation("Input Error", "Please enter a valid country", w.win)
		return
	}

	ctx := context.Background()
	country, err := w.lookup.Lookup(ctx, name)
	if err != nil {
		w.log.Warn("lookup failed", "country", name, "error", err)
		w.clear()
		if errors.Is(err, domain.ErrNotFound) {
			dialog.ShowError(fmt.Errorf("country '%s' not found", name), w.win)
		} else {
			dialog.ShowError(err, w.win)
		}
		return
	}

	w.result.SetText(formatCountry(country))
	w.showFlag(ctx, country.FlagURL)
}

// showFlag downloads and displays the flag, falling back to a placeholder
// note when the image cannot be loaded.
func (w *Window) showFlag(ctx context.Context, url string) {
	if url == "" {
		w.setFlagUnavailable()
		return
	}
	data, err := w.flags.FetchFlag(ctx, url)
	if err != nil {
		w.log.Warn("failed to load flag", "url", url, "error", err)
		w.setFlagUnavailable()
		return
	}
	w.flag.Resource = fyne.NewStaticResource("flag.png", data)
	w.flag.Refresh()
	w.flagNote.SetText("")
}

func (w *Window) setFlagUnavailable() {
	w.flag.Resource = nil
	w.flag.Refresh()
	w.flagNote.SetText("[Flag not available]")
}

// clear resets the output fields.
func (w *Window) clear() {
	w.result.SetText("")
	w.flag.Resource = nil
	w.flag.Refresh()
	w.flagNote.SetText("")
}

// formatCountry renders the record as the multi-line result text.
func formatCountry(c *domain.Country) string {
	orNA := func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	}
	return fmt.Sprintf(
		"Country: %s\nCapital: %s\nRegion: %s\nPopulation: %s\nLanguages: %s\nCurrencies: %s",
		c.Name,
		orNA(c.Capital),
		orNA(c.Region),
		formatPopulation(c.Population),
		orNA(c.Languages),
		orNA(c.Currency),
	)
}

// formatPopulation inserts thousands separators.
func formatPopulation(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
