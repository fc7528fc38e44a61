// Package timeutc reports clock reads and time zones that would make calendar
// dates depend on the host's local zone.
//
// Two forms are flagged:
//
//	time.Now()          // use time.Now().UTC()
//	time.Local          // use time.UTC
//
// A //nolint or //nolint:timeutc comment on the same or previous line
// suppresses a report.
package timeutc

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer is the timeutc analyzer.
var Analyzer = &analysis.Analyzer{
	Name:     "timeutc",
	Doc:      "checks that clock reads and time zones are pinned to UTC",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

const (
	msgNow   = "time.Now() should be followed by .UTC()"
	msgLocal = "time.Local makes dates depend on the host zone; use time.UTC"
)

func run(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	// time.Now() calls that are the receiver of .UTC()
	pinned := make(map[*ast.CallExpr]bool)
	insp.Preorder([]ast.Node{(*ast.SelectorExpr)(nil)}, func(n ast.Node) {
		sel := n.(*ast.SelectorExpr)
		if sel.Sel.Name != "UTC" {
			return
		}
		if call, ok := sel.X.(*ast.CallExpr); ok && isTimeFunc(pass, call.Fun, "Now") {
			pinned[call] = true
		}
	})

	nolint := nolintLines(pass)
	report := func(n ast.Node, msg string) {
		pos := pass.Fset.Position(n.Pos())
		if nolint[lineKey{pos.Filename, pos.Line}] || nolint[lineKey{pos.Filename, pos.Line - 1}] {
			return
		}
		pass.Reportf(n.Pos(), "%s", msg)
	}

	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil), (*ast.SelectorExpr)(nil)}, func(n ast.Node) {
		switch n := n.(type) {
		case *ast.CallExpr:
			if isTimeFunc(pass, n.Fun, "Now") && !pinned[n] {
				report(n, msgNow)
			}
		case *ast.SelectorExpr:
			if isTimeObject(pass, n, "Local") {
				report(n, msgLocal)
			}
		}
	})

	return nil, nil
}

// isTimeFunc reports whether expr names the function time.<name>.
func isTimeFunc(pass *analysis.Pass, expr ast.Expr, name string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	return ok && fn.Name() == name && fn.Pkg() != nil && fn.Pkg().Path() == "time"
}

// isTimeObject reports whether sel refers to the package-level time.<name>.
func isTimeObject(pass *analysis.Pass, sel *ast.SelectorExpr, name string) bool {
	if sel.Sel.Name != name {
		return false
	}
	obj := pass.TypesInfo.Uses[sel.Sel]
	return obj != nil && obj.Pkg() != nil && obj.Pkg().Path() == "time" && obj.Parent() == obj.Pkg().Scope()
}

type lineKey struct {
	file string
	line int
}

// nolintLines collects the lines carrying a nolint directive that covers timeutc.
func nolintLines(pass *analysis.Pass) map[lineKey]bool {
	lines := make(map[lineKey]bool)
	for _, f := range pass.Files {
		for _, cg := range f.Comments {
			for _, c := range cg.List {
				if !coversTimeutc(c.Text) {
					continue
				}
				pos := pass.Fset.Position(c.Pos())
				lines[lineKey{pos.Filename, pos.Line}] = true
			}
		}
	}
	return lines
}

func coversTimeutc(text string) bool {
	text = strings.TrimPrefix(text, "//")
	if !strings.HasPrefix(text, "nolint") {
		return false
	}
	rest := strings.TrimPrefix(text, "nolint")
	if !strings.HasPrefix(rest, ":") {
		return true
	}
	linters, _, _ := strings.Cut(strings.TrimPrefix(rest, ":"), " ")
	for _, l := range strings.Split(linters, ",") {
		if l == "timeutc" {
			return true
		}
	}
	return false
}
