// The staticlint command bundles the project's analyzer set into one
// multichecker binary:
//
//   - the stock golang.org/x/tools analysis passes
//   - every SA analyzer from staticcheck, plus a hand-picked few from the
//     simple and stylecheck classes
//   - bodyclose, exportloopref, nilerr and asciicheck
//   - the in-tree noosexit analyzer, which keeps os.Exit out of the
//     entrypoints in cmd/
//
// Run it over the whole repository:
//
//	go run ./cmd/staticlint ./...
//
// A finding is fixed in the code, not silenced in the checker.
package main

import (
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/asmdecl"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/composite"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/deepequalerrors"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/ifaceassert"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilfunc"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/shift"
	"golang.org/x/tools/go/analysis/passes/sortslice"
	"golang.org/x/tools/go/analysis/passes/stringintconv"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/testinggoroutine"
	"golang.org/x/tools/go/analysis/passes/tests"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"golang.org/x/tools/go/analysis/passes/unsafeptr"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"

	"github.com/gostaticanalysis/nilerr"
	"github.com/kyoh86/exportloopref"
	asciicheck "github.com/tdakkota/asciicheck"
	"github.com/timakin/bodyclose/passes/bodyclose"

	"github.com/keyloom/website/cmd/staticlint/noosexit"
)

func main() {
	all := standardPasses()
	all = append(all, staticcheckSet()...)
	all = append(all,
		bodyclose.Analyzer,
		exportloopref.Analyzer,
		nilerr.Analyzer,
		asciicheck.NewAnalyzer(),
		noosexit.Analyzer,
	)
	multichecker.Main(all...)
}

// standardPasses is the stock x/tools set the repository builds clean under.
func standardPasses() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		asmdecl.Analyzer,
		assign.Analyzer,
		atomic.Analyzer,
		bools.Analyzer,
		composite.Analyzer,
		copylock.Analyzer,
		deepequalerrors.Analyzer,
		errorsas.Analyzer,
		httpresponse.Analyzer,
		ifaceassert.Analyzer,
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		nilfunc.Analyzer,
		nilness.Analyzer,
		printf.Analyzer,
		shadow.Analyzer,
		shift.Analyzer,
		sortslice.Analyzer,
		stringintconv.Analyzer,
		structtag.Analyzer,
		testinggoroutine.Analyzer,
		tests.Analyzer,
		unmarshal.Analyzer,
		unreachable.Analyzer,
		unsafeptr.Analyzer,
		unusedresult.Analyzer,
	}
}

// staticcheckSet enables the whole SA class and a conservative pick from the
// simple and stylecheck classes.
func staticcheckSet() []*analysis.Analyzer {
	picked := map[string]bool{
		"S1000":  true, // plain receive instead of single-case select
		"S1009":  true, // redundant nil check before len
		"ST1005": true, // error strings are not capitalized
	}
	var out []*analysis.Analyzer
	for _, v := range staticcheck.Analyzers {
		if strings.HasPrefix(v.Analyzer.Name, "SA") {
			out = append(out, v.Analyzer)
		}
	}
	for _, v := range simple.Analyzers {
		if picked[v.Analyzer.Name] {
			out = append(out, v.Analyzer)
		}
	}
	for _, v := range stylecheck.Analyzers {
		if picked[v.Analyzer.Name] {
			out = append(out, v.Analyzer)
		}
	}
	return out
}
