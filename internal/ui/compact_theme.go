package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/czteam/czdownloader/internal/config"
)

// CompactTheme is a compact theme with reduced padding that always renders
// the variant chosen in settings, ignoring the OS preference.
type CompactTheme struct {
	variant fyne.ThemeVariant
}

// NewCompactTheme creates a compact theme for the given color scheme
func NewCompactTheme(t config.Theme) fyne.Theme {
	return &CompactTheme{variant: VariantFor(t)}
}

// VariantFor maps a settings theme to a Fyne variant
func VariantFor(t config.Theme) fyne.ThemeVariant {
	if t == config.ThemeDark {
		return theme.VariantDark
	}
	return theme.VariantLight
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return color.RGBA{R: 39, G: 174, B: 96, A: 255}
	case theme.ColorNameError:
		return color.RGBA{R: 231, G: 76, B: 60, A: 255}
	case theme.ColorNameWarning:
		return color.RGBA{R: 243, G: 156, B: 18, A: 255}
	case theme.ColorNamePrimary:
		return color.RGBA{R: 52, G: 152, B: 219, A: 255}
	case theme.ColorNameBackground:
		if t.variant == theme.VariantDark {
			return color.RGBA{R: 44, G: 62, B: 80, A: 255}
		}
		return color.RGBA{R: 248, G: 249, B: 250, A: 255}
	case theme.ColorNameForeground:
		if t.variant == theme.VariantDark {
			return color.RGBA{R: 236, G: 240, B: 241, A: 255}
		}
		return color.RGBA{R: 44, G: 62, B: 80, A: 255}
	}

	return theme.DefaultTheme().Color(name, t.variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 16
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameInputRadius:
		return 3
	case theme.SizeNameSelectionRadius:
		return 2
	}

	return theme.DefaultTheme().Size(name)
}
