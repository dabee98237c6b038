package compiler

import (
	"path/filepath"
	"strings"

	"github.com/kai-65537/AOLOT-scoreboard/internal/errors"
	"github.com/kai-65537/AOLOT-scoreboard/internal/schema"
)

// typeSpec is the canonical result of decoding the `type` field
type typeSpec struct {
	name     string
	rounding *string
}

func compileComponent(id string, raw any, globalFont schema.Font, baseDir string) (schema.Component, error) {
	component := schema.Component{ID: id}

	if strings.TrimSpace(id) == "" {
		return component, errors.Schemaf("", "id", "component id cannot be empty")
	}
	values, ok := raw.(map[string]any)
	if !ok {
		return component, errors.Schemaf(id, "", "component must be a table")
	}
	f := newFields(id, values)

	position, err := compilePosition(f)
	if err != nil {
		return component, err
	}
	component.Position = position

	if component.Alignment, err = compileAlignment(f); err != nil {
		return component, err
	}

	override, err := parseFontOverride(f)
	if err != nil {
		return component, err
	}
	component.Font = mergeFont(globalFont, override)
	if err := validateFont(id, component.Font); err != nil {
		return component, err
	}

	spec, err := resolveType(id, values["type"], f.has("type"))
	if err != nil {
		return component, err
	}
	if err := checkFieldCombinations(f, spec); err != nil {
		return component, err
	}

	component.Kind, err = compileKind(f, spec, baseDir)
	return component, err
}

func compilePosition(f fields) (schema.Position, error) {
	pos, ok, err := f.sub("position")
	if err != nil {
		return schema.Position{}, err
	}
	if !ok {
		return schema.Position{}, errors.Schemaf(f.subject, "position", "is required (position = { x = 0, y = 0 })")
	}
	x, err := pos.reqInt("x")
	if err != nil {
		return schema.Position{}, err
	}
	y, err := pos.reqInt("y")
	if err != nil {
		return schema.Position{}, err
	}
	if x < 0 || x >= schema.CanvasWidth || y < 0 || y >= schema.CanvasHeight {
		return schema.Position{}, errors.Schemaf(f.subject, "position", "(%d, %d) is outside %dx%d",
			x, y, schema.CanvasWidth, schema.CanvasHeight)
	}
	return schema.Position{X: x, Y: y}, nil
}

func compileAlignment(f fields) (schema.Alignment, error) {
	raw, ok, err := f.optString("alignment")
	if err != nil || !ok {
		return schema.AlignNone, err
	}
	switch schema.Alignment(raw) {
	case schema.AlignCenter:
		return schema.AlignCenter, nil
	}
	return schema.AlignNone, errors.Schemaf(f.subject, "alignment", "unsupported alignment '%s' (expected 'center')", raw)
}

// resolveType decodes `type`, which is either a bare string or a table
// with name/kind and an optional rounding.
func resolveType(id string, raw any, present bool) (typeSpec, error) {
	if !present {
		return typeSpec{}, errors.Schemaf(id, "type", "is required")
	}
	switch v := raw.(type) {
	case string:
		return typeFromString(v), nil
	case map[string]any:
		return typeFromTable(id, v)
	}
	return typeSpec{}, errors.Schemaf(id, "type", "must be a string or table")
}

func typeFromString(name string) typeSpec {
	return typeSpec{name: name}
}

func typeFromTable(id string, values map[string]any) (typeSpec, error) {
	f := fields{subject: id, prefix: "type.", values: values}

	name, ok, err := f.optString("name")
	if err != nil {
		return typeSpec{}, err
	}
	if !ok {
		if name, ok, err = f.optString("kind"); err != nil {
			return typeSpec{}, err
		}
	}
	if !ok {
		return typeSpec{}, errors.Schemaf(id, "type", "table requires 'name' or 'kind' as a string")
	}

	spec := typeSpec{name: name}
	if rounding, ok, err := f.optString("rounding"); err != nil {
		return typeSpec{}, err
	} else if ok {
		spec.rounding = &rounding
	}
	return spec, nil
}

// canonicalType maps accepted spellings onto schema type names
func canonicalType(name string) (string, bool) {
	switch name {
	case schema.TypeNumber, schema.TypeTimer, schema.TypeLabel, schema.TypeImage, schema.TypeImageToggle:
		return name, true
	case "image_toggle":
		return schema.TypeImageToggle, true
	}
	return "", false
}

// checkFieldCombinations rejects fields that only make sense on another kind
func checkFieldCombinations(f fields, spec typeSpec) error {
	name, ok := canonicalType(spec.name)
	if !ok {
		return errors.UnsupportedType(f.subject, spec.name)
	}
	if f.has("edit") && name != schema.TypeLabel {
		return errors.Schemaf(f.subject, "edit", "is only supported for label components")
	}
	if (f.has("rounding") || spec.rounding != nil) && name != schema.TypeTimer {
		return errors.Schemaf(f.subject, "rounding", "is only supported for timer components")
	}
	if f.has("keybind") && (name == schema.TypeLabel || name == schema.TypeImage) {
		return errors.Schemaf(f.subject, "keybind", "is not supported for %s components", name)
	}
	return nil
}

func compileKind(f fields, spec typeSpec, baseDir string) (schema.Kind, error) {
	name, _ := canonicalType(spec.name)
	switch name {
	case schema.TypeNumber:
		return compileNumber(f)
	case schema.TypeTimer:
		return compileTimer(f, spec)
	case schema.TypeLabel:
		return compileLabel(f)
	case schema.TypeImage:
		return compileImage(f, baseDir)
	case schema.TypeImageToggle:
		return compileImageToggle(f, baseDir)
	}
	return nil, errors.UnsupportedType(f.subject, spec.name)
}

func compileNumber(f fields) (schema.Kind, error) {
	def, ok, err := f.optInt("default")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Schemaf(f.subject, "default", "must be an integer")
	}

	number := &schema.Number{Default: def}
	binds, err := compileKeybinds(f, numberActions)
	if err != nil || binds == nil {
		return number, err
	}
	number.Keybind = &schema.NumberKeybind{
		Increase: binds["increase"],
		Decrease: binds["decrease"],
		Reset:    binds["reset"],
	}
	return number, nil
}

func compileTimer(f fields, spec typeSpec) (schema.Kind, error) {
	raw, ok, err := f.optString("default")
	if err != nil {
		return nil, errors.Schemaf(f.subject, "default", "must be a timer string HH:MM:SS")
	}
	if !ok {
		return nil, errors.Schemaf(f.subject, "default", "must be a timer string HH:MM:SS")
	}
	ms, err := ParseTimerDefault(raw)
	if err != nil {
		return nil, errors.Schemaf(f.subject, "default", "%v", err)
	}

	// the type table's rounding wins over a sibling field
	roundingName := "standard"
	if spec.rounding != nil {
		roundingName = *spec.rounding
	} else if sibling, ok, err := f.optString("rounding"); err != nil {
		return nil, err
	} else if ok {
		roundingName = sibling
	}
	rounding, err := schema.ParseRounding(roundingName)
	if err != nil {
		return nil, errors.Schemaf(f.subject, "rounding", "%v", err)
	}

	timer := &schema.Timer{DefaultMs: ms, Rounding: rounding}
	binds, err := compileKeybinds(f, timerActions)
	if err != nil || binds == nil {
		return timer, err
	}
	timer.Keybind = &schema.TimerKeybind{
		Start:    binds["start"],
		Stop:     binds["stop"],
		Reset:    binds["reset"],
		Increase: binds["increase"],
		Decrease: binds["decrease"],
	}
	return timer, nil
}

func compileLabel(f fields) (schema.Kind, error) {
	def, ok, err := f.optString("default")
	if err != nil || !ok {
		return nil, errors.Schemaf(f.subject, "default", "must be a string")
	}
	if strings.ContainsAny(def, "\r\n") {
		return nil, errors.Schemaf(f.subject, "default", "must be a single-line string")
	}
	edit, _, err := f.optBool("edit")
	if err != nil {
		return nil, err
	}
	return &schema.Label{Default: def, Edit: edit}, nil
}

func compileImage(f fields, baseDir string) (schema.Kind, error) {
	source, ok, err := f.optString("source")
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(source) == "" {
		return nil, errors.Schemaf(f.subject, "source", "image requires source")
	}
	width, height, err := compileSize(f)
	if err != nil {
		return nil, err
	}
	opacity, err := compileOpacity(f)
	if err != nil {
		return nil, err
	}
	return &schema.Image{
		Source:  ResolveSource(baseDir, source),
		Width:   width,
		Height:  height,
		Opacity: opacity,
	}, nil
}

func compileImageToggle(f fields, baseDir string) (schema.Kind, error) {
	raw, ok := f.values["sources"]
	if !ok {
		return nil, errors.Schemaf(f.subject, "sources", "image-toggle requires a non-empty sources array")
	}
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return nil, errors.Schemaf(f.subject, "sources", "image-toggle requires a non-empty sources array")
	}
	sources := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, errors.Schemaf(f.subject, "sources", "entry %d must be a non-empty string", i)
		}
		sources = append(sources, ResolveSource(baseDir, s))
	}

	width, height, err := compileSize(f)
	if err != nil {
		return nil, err
	}
	opacity, err := compileOpacity(f)
	if err != nil {
		return nil, err
	}

	toggle := &schema.ImageToggle{
		Sources: sources,
		Width:   width,
		Height:  height,
		Opacity: opacity,
	}
	binds, err := compileKeybinds(f, imageToggleActions)
	if err != nil || binds == nil {
		return toggle, err
	}
	toggle.Keybind = &schema.ImageToggleKeybind{
		Forward:  binds["forward"],
		Backward: binds["backward"],
	}
	return toggle, nil
}

func compileSize(f fields) (int, int, error) {
	size, ok, err := f.sub("size")
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 0, 0, errors.Schemaf(f.subject, "size", "requires size.width and size.height")
	}
	width, err := size.reqInt("width")
	if err != nil {
		return 0, 0, err
	}
	height, err := size.reqInt("height")
	if err != nil {
		return 0, 0, err
	}
	if width <= 0 || height <= 0 {
		return 0, 0, errors.Schemaf(f.subject, "size", "width and height must be > 0")
	}
	return width, height, nil
}

func compileOpacity(f fields) (float64, error) {
	opacity, ok, err := f.optFloat("opacity")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 1.0, nil
	}
	if !(opacity >= 0.0 && opacity <= 1.0) {
		return 0, errors.Schemaf(f.subject, "opacity", "must be between 0.0 and 1.0")
	}
	return opacity, nil
}

// ResolveSource makes an image path absolute against baseDir so later
// use does not depend on the working directory.
func ResolveSource(baseDir, source string) string {
	if filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(baseDir, source)
}
