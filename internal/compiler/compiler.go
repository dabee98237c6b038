// Package compiler turns a TOML scoreboard document into a validated
// schema.Scoreboard.
//
// Compilation is all-or-nothing: the first rule violation stops the run
// and is returned as a single *errors.Error naming the offending
// component and field. The global section is checked first, then
// components in the order they appear in the document; the resulting
// component list is always sorted by id, so the same document and base
// directory always compile to the same schema.
//
// A document looks like:
//
//	[global]
//	background_color = "#101010"
//	font = { family = "Segoe UI", size = 28, color = "#FFFFFF" }
//
//	[home_score]
//	type = "number"
//	default = 0
//	position = { x = 80, y = 40 }
//	keybind.increase = { key = "Q", ctrl = true }
//
//	[game_clock]
//	type = { name = "timer", rounding = "basketball" }
//	default = "00:12:00"
//	position = { x = 320, y = 40 }
//	alignment = "center"
package compiler

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/kai-65537/AOLOT-scoreboard/internal/errors"
	"github.com/kai-65537/AOLOT-scoreboard/internal/schema"
)

// globalKey is the one reserved top-level key
const globalKey = "global"

// Compile parses document and validates it against the scoreboard rules.
// Relative image paths are resolved against baseDir, which defaults to
// the working directory when empty.
func Compile(document string, baseDir string) (*schema.Scoreboard, error) {
	base, err := absBaseDir(baseDir)
	if err != nil {
		return nil, err
	}

	var root map[string]any
	if err := toml.Unmarshal([]byte(document), &root); err != nil {
		return nil, parseError(err)
	}

	global, err := compileGlobal(root[globalKey], root != nil && hasKey(root, globalKey))
	if err != nil {
		return nil, err
	}

	sb := &schema.Scoreboard{
		Global:     global,
		Components: make([]schema.Component, 0, len(root)),
	}
	for _, id := range documentOrder(document, root) {
		if id == globalKey {
			continue
		}
		component, err := compileComponent(id, root[id], global.Font, base)
		if err != nil {
			return nil, err
		}
		sb.Components = append(sb.Components, component)
	}

	sb.SortComponents()
	return sb, nil
}

// CompileFile reads and compiles the document at path, resolving image
// paths against the document's directory.
func CompileFile(path string) (*schema.Scoreboard, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, fmt.Sprintf("resolving config path %s", path))
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NotFoundf("config file %s does not exist", absPath)
		}
		return nil, errors.Wrap(err, errors.ErrInternal, fmt.Sprintf("reading config %s", absPath))
	}
	return Compile(string(content), filepath.Dir(absPath))
}

// CompileString compiles inline document text relative to the working directory
func CompileString(document string) (*schema.Scoreboard, error) {
	return Compile(document, "")
}

func absBaseDir(baseDir string) (string, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrInternal, "resolving working directory")
		}
		return wd, nil
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput, fmt.Sprintf("resolving base directory %s", baseDir))
	}
	return abs, nil
}

func parseError(err error) *errors.Error {
	var decodeErr *toml.DecodeError
	if stderrors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return &errors.Error{
			Kind:    errors.ErrParse,
			Message: fmt.Sprintf("document parse error at line %d, column %d", row, col),
			Err:     err,
		}
	}
	return errors.Parse(err)
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

// documentOrder lists the top-level keys of root in the order they first
// appear in the document text. Keys the scan misses are appended sorted.
func documentOrder(document string, root map[string]any) []string {
	seen := make(map[string]bool, len(root))
	order := make([]string, 0, len(root))
	add := func(name string) {
		if _, ok := root[name]; ok && !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}

	p := unstable.Parser{}
	p.Reset([]byte(document))
	inTable := false
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			inTable = true
			add(firstKeyPart(expr))
		case unstable.KeyValue:
			if !inTable {
				add(firstKeyPart(expr))
			}
		}
	}

	rest := make([]string, 0)
	for name := range root {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func firstKeyPart(expr *unstable.Node) string {
	it := expr.Key()
	if !it.Next() {
		return ""
	}
	return string(it.Node().Data)
}
