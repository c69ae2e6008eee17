package main

import (
	"bytes"
	"image"
	"image/color"

	"github.com/ebitenui/ebitenui"
	eimage "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/tileforge/geom"
	"github.com/milk9111/tileforge/prefabs"
	"golang.org/x/image/font/gofont/goregular"
)

// solidNineSlice returns a solid color *image.NineSlice for widget backgrounds.
func solidNineSlice(c color.Color) *eimage.NineSlice {
	return eimage.NewNineSliceColor(c)
}

func newEditorTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(color.RGBA{40, 40, 40, 255}),
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover:   solidNineSlice(color.RGBA{200, 200, 200, 255}),
				Pressed: solidNineSlice(color.RGBA{160, 160, 160, 255}),
			},
			TextFace: fontFace,
			TextColor: &widget.ButtonTextColor{
				Idle: color.Black,
			},
		},
	}
}

// Palette is the toolbar of descriptor buttons.
type Palette struct {
	container *widget.Container
	group     *widget.RadioGroup
	buttons   []*widget.Button
}

// SetActive highlights the button of descriptor id. It is a no-op when
// that button is already active.
func (p *Palette) SetActive(id int) {
	if id < 0 || id >= len(p.buttons) || p.group.Active() == p.buttons[id] {
		return
	}
	p.group.SetActive(p.buttons[id])
}

// Contains reports whether the screen position is over the toolbar.
func (p *Palette) Contains(pos geom.Vector2) bool {
	pt := image.Pt(int(pos.X), int(pos.Y))
	return pt.In(p.container.GetWidget().Rect)
}

func buildEditorUI(spec *prefabs.PaletteSpec, onSelect func(id int), onSave func(), initial int) (*ebitenui.UI, *Palette) {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newEditorTheme(&fontFace)

	palette := buildPaletteBar(ui.PrimaryTheme, &fontFace, spec, onSelect, onSave, initial)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	palette.container.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	root.AddChild(palette.container)
	ui.Container = root
	return ui, palette
}

func buildPaletteBar(theme *widget.Theme, fontFace *text.Face, spec *prefabs.PaletteSpec, onSelect func(id int), onSave func(), initial int) *Palette {
	buttonTextColor := &widget.ButtonTextColor{
		Idle:     color.Black,
		Hover:    color.Black,
		Pressed:  color.RGBA{0, 0, 200, 255},
		Disabled: color.Gray{Y: 128},
	}

	toolbar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(220, 48),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{220, 220, 240, 255})),
	)

	buttons := make([]*widget.Button, len(spec.Descriptors))
	for _, d := range spec.Descriptors {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(d.Name, fontFace, buttonTextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(64, 40),
			),
		)
		buttons[d.ID] = btn
	}

	elements := make([]widget.RadioGroupElement, 0, len(buttons))
	for _, b := range buttons {
		toolbar.AddChild(b)
		elements = append(elements, b)
	}

	save := widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("Save", fontFace, buttonTextColor),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(64, 40),
		),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if onSave != nil {
				onSave()
			}
		}),
	)
	toolbar.AddChild(save)

	group := widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if onSelect == nil {
				return
			}
			for id, b := range buttons {
				if args.Active == b {
					onSelect(id)
					return
				}
			}
		}),
	)

	p := &Palette{container: toolbar, group: group, buttons: buttons}
	p.SetActive(initial)
	return p
}
