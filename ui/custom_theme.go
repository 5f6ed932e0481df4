package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// customTheme wraps the default theme with custom font sizes
type customTheme struct {
	baseFontSize float32
	variant      fyne.ThemeVariant
}

// newCustomTheme creates a new custom theme with the specified font size
func newCustomTheme(baseFontSize int, isDark bool) fyne.Theme {
	variant := theme.VariantLight
	if isDark {
		variant = theme.VariantDark
	}

	return &customTheme{
		baseFontSize: float32(baseFontSize),
		variant:      variant,
	}
}

func (t *customTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	// Keep disabled inputs readable while a send is in flight
	if name == theme.ColorNameDisabled {
		return theme.DefaultTheme().Color(theme.ColorNameForeground, t.variant)
	}
	return theme.DefaultTheme().Color(name, t.variant)
}

func (t *customTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *customTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *customTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return t.baseFontSize
	case theme.SizeNameHeadingText:
		return t.baseFontSize * 1.5
	case theme.SizeNameSubHeadingText:
		return t.baseFontSize * 1.2
	case theme.SizeNameCaptionText:
		return t.baseFontSize * 0.85
	default:
		return theme.DefaultTheme().Size(name)
	}
}
