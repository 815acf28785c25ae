// Package noosexit reports direct os.Exit calls in the main function of a
// main package. Exiting straight from main skips deferred cleanup and makes
// the entrypoint untestable, so binaries route failures through their run
// functions and log.Fatal instead.
package noosexit

import (
	"go/ast"
	"go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer is the exported analyzer instance.
var Analyzer = &analysis.Analyzer{
	Name:     "noosexit",
	Doc:      "forbid direct calls to os.Exit in main function of package main",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

const modulePath = "github.com/keyloom/website"

func run(pass *analysis.Pass) (any, error) {
	if pass.Pkg == nil || pass.Pkg.Name() != "main" {
		return nil, nil
	}
	// Synthetic packages built by the analysis driver, and anything outside
	// this module, are not ours to police.
	if !strings.HasPrefix(pass.Pkg.Path(), modulePath) {
		return nil, nil
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		fn := n.(*ast.FuncDecl)
		if fn.Recv != nil || fn.Name.Name != "main" || fn.Body == nil {
			return
		}
		// Generated test mains live outside cmd/; only the real
		// entrypoints are checked.
		if !underCmd(pass, fn) {
			return
		}
		checkBody(pass, fn.Body)
	})
	return nil, nil
}

func underCmd(pass *analysis.Pass, fn *ast.FuncDecl) bool {
	name := filepath.ToSlash(pass.Fset.Position(fn.Pos()).Filename)
	return strings.Contains(name, "/cmd/")
}

func checkBody(pass *analysis.Pass, body *ast.BlockStmt) {
	ast.Inspect(body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if isOSExit(pass, call) {
			pass.Reportf(call.Lparen, "direct call to os.Exit in main function of package main is forbidden")
		}
		return true
	})
}

// isOSExit resolves the callee through the type info, so aliased imports of
// the os package are caught too.
func isOSExit(pass *analysis.Pass, call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	obj, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok {
		return false
	}
	pkg := obj.Pkg()
	return pkg != nil && pkg.Path() == "os" && obj.Name() == "Exit"
}
