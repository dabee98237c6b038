package compiler

import (
	"strings"

	"github.com/kai-65537/AOLOT-scoreboard/internal/errors"
	"github.com/kai-65537/AOLOT-scoreboard/internal/schema"
)

// fontOverride holds whichever font fields a section sets
type fontOverride struct {
	family *string
	size   *int
	color  *string
}

func compileGlobal(raw any, present bool) (schema.GlobalSettings, error) {
	settings := schema.GlobalSettings{
		BackgroundColor: schema.DefaultBackgroundColor,
		Font: schema.Font{
			Family: schema.DefaultFontFamily,
			Size:   schema.DefaultFontSize,
			Color:  schema.DefaultFontColor,
		},
	}
	if !present {
		return settings, nil
	}

	values, ok := raw.(map[string]any)
	if !ok {
		return settings, errors.Schemaf(globalKey, "", "[global] must be a table")
	}
	f := newFields(globalKey, values)

	override, err := parseFontOverride(f)
	if err != nil {
		return settings, err
	}
	settings.Font = mergeFont(settings.Font, override)
	if err := validateFont(globalKey, settings.Font); err != nil {
		return settings, err
	}

	if bg, ok, err := f.optString("background_color"); err != nil {
		return settings, err
	} else if ok {
		settings.BackgroundColor = strings.TrimSpace(bg)
	}
	if err := validateColor(globalKey, "background_color", settings.BackgroundColor); err != nil {
		return settings, err
	}

	return settings, nil
}

// parseFontOverride reads an optional font table from f
func parseFontOverride(f fields) (fontOverride, error) {
	var o fontOverride
	font, ok, err := f.sub("font")
	if err != nil || !ok {
		return o, err
	}

	if family, ok, err := font.optString("family"); err != nil {
		return o, err
	} else if ok {
		o.family = &family
	}
	if size, ok, err := font.optInt("size"); err != nil {
		return o, err
	} else if ok {
		o.size = &size
	}
	if color, ok, err := font.optString("color"); err != nil {
		return o, err
	} else if ok {
		color = strings.TrimSpace(color)
		o.color = &color
	}
	return o, nil
}

// mergeFont applies each set override field over base independently
func mergeFont(base schema.Font, o fontOverride) schema.Font {
	if o.family != nil {
		base.Family = *o.family
	}
	if o.size != nil {
		base.Size = *o.size
	}
	if o.color != nil {
		base.Color = *o.color
	}
	return base
}

func validateFont(subject string, font schema.Font) error {
	if strings.TrimSpace(font.Family) == "" {
		return errors.Schemaf(subject, "font.family", "cannot be empty")
	}
	if font.Size <= 0 {
		return errors.Schemaf(subject, "font.size", "must be > 0")
	}
	return validateColor(subject, "font.color", font.Color)
}

// validateColor requires #RRGGBB with hex digits in either case
func validateColor(subject, field, color string) error {
	if !isHexColor(color) {
		return errors.Schemaf(subject, field, "'%s' must be #RRGGBB", color)
	}
	return nil
}

func isHexColor(color string) bool {
	c := strings.TrimSpace(color)
	if len(c) != 7 || c[0] != '#' {
		return false
	}
	for i := 1; i < len(c); i++ {
		ch := c[i]
		switch {
		case ch >= '0' && ch <= '9':
		case ch >= 'a' && ch <= 'f':
		case ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}
