package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"sunglow/internal/colorx"
	"sunglow/internal/config"
	"sunglow/internal/platform"
)

const (
	settingsTitle  = "Sunglow settings"
	swatchWidth    = 120
	swatchHeight   = 80
	swatchColumns  = 3
	dialogWidth    = 420
	dialogHeight   = 360
	openFolderText = "Open config folder"
)

var (
	swatchLabelColor    = colorx.White.NRGBA()
	swatchSelectedColor = colorx.Resolve("gold").NRGBA()
)

// fixedSizeLayout gives its first object a fixed size.
type fixedSizeLayout struct {
	width  float32
	height float32
}

func (l *fixedSizeLayout) Layout(objects []fyne.CanvasObject, _ fyne.Size) {
	if len(objects) > 0 {
		objects[0].Resize(fyne.NewSize(l.width, l.height))
		objects[0].Move(fyne.NewPos(0, 0))
	}
}

func (l *fixedSizeLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(l.width, l.height)
}

// swatch previews a palette as the radial gradient the background draws.
type swatch struct {
	widget.BaseWidget
	palette  colorx.Palette
	selected bool
	onTapped func(colorx.Palette)
}

func newSwatch(p colorx.Palette, selected bool, onTapped func(colorx.Palette)) *swatch {
	s := &swatch{palette: p, selected: selected, onTapped: onTapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *swatch) setSelected(v bool) {
	if s.selected == v {
		return
	}
	s.selected = v
	s.Refresh()
}

func (s *swatch) CreateRenderer() fyne.WidgetRenderer {
	gradient := canvas.NewRadialGradient(s.palette.Inner.NRGBA(), s.palette.Outer.NRGBA())
	gradient.CenterOffsetY = 0.3

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeWidth = 3

	label := canvas.NewText(s.palette.Name, swatchLabelColor)
	label.Alignment = fyne.TextAlignCenter
	label.TextStyle = fyne.TextStyle{Bold: true}

	r := &swatchRenderer{
		swatch:   s,
		border:   border,
		gradient: gradient,
		label:    label,
		content:  container.NewStack(gradient, border, container.NewCenter(label)),
	}
	r.Refresh()
	return r
}

func (s *swatch) Tapped(*fyne.PointEvent) {
	if s.onTapped != nil {
		s.onTapped(s.palette)
	}
}

type swatchRenderer struct {
	swatch   *swatch
	border   *canvas.Rectangle
	gradient *canvas.RadialGradient
	label    *canvas.Text
	content  fyne.CanvasObject
}

func (r *swatchRenderer) Layout(size fyne.Size) { r.content.Resize(size) }

func (r *swatchRenderer) MinSize() fyne.Size { return fyne.NewSize(swatchWidth, swatchHeight) }

func (r *swatchRenderer) Refresh() {
	if r.swatch.selected {
		r.border.StrokeColor = swatchSelectedColor
	} else {
		r.border.StrokeColor = color.Transparent
	}
	r.border.Refresh()
	r.gradient.Refresh()
}

func (r *swatchRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content}
}

func (r *swatchRenderer) Destroy() {}

// paletteChooser is the settings dialog's content: one swatch per palette
// plus the time-of-day option. Picking one saves it to the config file.
type paletteChooser struct {
	path     string
	logger   *slog.Logger
	swatches []*swatch
	status   *widget.Label
	save     func(path, theme string) error
}

func newPaletteChooser(current, path string, logger *slog.Logger) *paletteChooser {
	c := &paletteChooser{
		path:   path,
		logger: logger,
		status: widget.NewLabel(fmt.Sprintf("Current theme: %s", current)),
		save:   config.SaveTheme,
	}
	for _, p := range colorx.Palettes {
		c.swatches = append(c.swatches, newSwatch(p, p.Name == current, c.choose))
	}
	return c
}

func (c *paletteChooser) choose(p colorx.Palette) {
	c.apply(p.Name)
}

func (c *paletteChooser) apply(theme string) {
	if err := c.save(c.path, theme); err != nil {
		c.logger.Error("save theme", "theme", theme, "err", err)
		c.status.SetText(fmt.Sprintf("Could not save: %v", err))
		return
	}
	for _, s := range c.swatches {
		s.setSelected(s.palette.Name == theme)
	}
	c.logger.Info("theme saved", "theme", theme, "path", c.path)
	c.status.SetText(fmt.Sprintf("Current theme: %s", theme))
}

func (c *paletteChooser) content() fyne.CanvasObject {
	cells := make([]fyne.CanvasObject, 0, len(c.swatches))
	for _, s := range c.swatches {
		cells = append(cells, container.New(&fixedSizeLayout{width: swatchWidth, height: swatchHeight}, s))
	}

	autoButton := widget.NewButton("Follow the time of day", func() { c.apply(config.ThemeAuto) })
	openButton := widget.NewButton(openFolderText, func() {
		if err := platform.Open(filepath.Dir(c.path)); err != nil {
			c.logger.Error("open config folder", "err", err)
		}
	})

	title := widget.NewLabel(settingsTitle)
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	pathLabel := widget.NewLabel(c.path)
	pathLabel.Truncation = fyne.TextTruncateEllipsis

	return container.NewVBox(
		title,
		container.NewCenter(container.NewGridWithColumns(swatchColumns, cells...)),
		autoButton,
		c.status,
		pathLabel,
		openButton,
	)
}

// runConfigMode shows the palette chooser until the window is closed.
func runConfigMode(cfg *config.Config, path string, logger *slog.Logger) {
	a := app.NewWithID("org.sunglow.settings")
	w := a.NewWindow(settingsTitle)
	w.Resize(fyne.NewSize(dialogWidth, dialogHeight))
	w.SetFixedSize(true)
	w.CenterOnScreen()

	chooser := newPaletteChooser(cfg.Colors.Theme, path, logger)
	w.SetContent(container.NewPadded(chooser.content()))
	w.ShowAndRun()
}
