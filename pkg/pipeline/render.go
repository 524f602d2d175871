package pipeline

import (
	"context"

	"github.com/matzehuels/splitgraph/pkg/graph"
	"github.com/matzehuels/splitgraph/pkg/report"
)

// Emit serializes doc in the configured format.
func Emit(ctx context.Context, doc *graph.Document, opts Options) ([]byte, error) {
	f, err := report.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	styles := graph.DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	emitter, err := report.New(f, styles)
	if err != nil {
		return nil, err
	}
	return emitter.Emit(ctx, doc)
}
