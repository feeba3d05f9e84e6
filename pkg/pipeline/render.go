package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/corral/pkg/bipartite"
	corralio "github.com/matzehuels/corral/pkg/io"
	"github.com/matzehuels/corral/pkg/render"
	"github.com/matzehuels/corral/pkg/render/nodelink"
)

// Render generates artifacts for res in the requested formats. An
// infeasible result still renders: the diagram is a note naming the
// blocked pair and the JSON document records it.
func Render(ctx context.Context, res *bipartite.Result, cfg bipartite.Config, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	dot := nodelink.ToDOT(res, nodelink.Options{
		Projections: opts.Projections,
		Detailed:    opts.Detailed,
	})

	// SVG is rendered at most once and shared by svg, pdf and png.
	var svg []byte
	renderSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = nodelink.RenderSVG(ctx, dot)
		return svg, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatJSON:
			data, err = corralio.MarshalRealization(res, cfg)
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = renderSVG()
		case FormatPDF, FormatPNG:
			data, err = renderSVG()
			if err == nil {
				data, err = render.Convert(data, format)
			}
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
