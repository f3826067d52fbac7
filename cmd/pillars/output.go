package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Veraticus/four-pillars/internal/cli"
	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/model"
	"github.com/Veraticus/four-pillars/internal/report"
)

// Output formats.
const (
	formatText     = "text"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

type outputOptions struct {
	format string
	style  string
	render bool
}

func writeResult(w io.Writer, result *model.ClassificationResult, opts outputOptions) error {
	switch opts.format {
	case formatText, "":
		_, err := fmt.Fprint(w, cli.RenderSummary(result))
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case formatMarkdown:
		md := report.Markdown(result)
		if opts.render {
			rendered, err := report.Render(md, opts.style, report.DefaultWidth)
			if err != nil {
				return err
			}
			md = rendered
		}
		_, err := fmt.Fprint(w, md)
		return err
	default:
		return fmt.Errorf("%w: format must be text, json or markdown, got %q", common.ErrInvalidConfig, opts.format)
	}
}
