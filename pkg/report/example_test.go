package report_test

import (
	"fmt"

	"github.com/matzehuels/splitgraph/pkg/report"
)

func ExampleFormat_OutputPath() {
	for _, name := range []string{"html", "svg", "pdf"} {
		f, _ := report.ParseFormat(name)
		fmt.Println(f.Mode(), f.OutputPath("dist/split-chunks-report.html"))
	}
	// Output:
	// html dist/split-chunks-report.html
	// image dist/split-chunks-report.svg
	// image dist/split-chunks-report.pdf
}
