// Command timeutc runs the timeutc analyzer, e.g. go vet -vettool=$(which timeutc) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/rezkam/cadence/tools/linters/timeutc"
)

func main() {
	singlechecker.Main(timeutc.Analyzer)
}
