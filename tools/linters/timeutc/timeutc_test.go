package timeutc_test

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/rezkam/cadence/tools/linters/timeutc"
)

func TestAnalyzer(t *testing.T) {
	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, timeutc.Analyzer, "a")
}
