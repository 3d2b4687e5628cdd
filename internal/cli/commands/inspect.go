package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/tltv/timeline-flow/internal/cli/config"
	"github.com/tltv/timeline-flow/internal/timeline"
)

// inspectReport is the serializable shape of one tiling.
type inspectReport struct {
	Resolution           string      `json:"resolution" yaml:"resolution"`
	Start                string      `json:"start" yaml:"start"`
	End                  string      `json:"end" yaml:"end"`
	Timezone             string      `json:"timezone" yaml:"timezone"`
	Locale               string      `json:"locale" yaml:"locale"`
	FirstDayOfWeek       int         `json:"first_day_of_week" yaml:"first_day_of_week"`
	LeafCount            int         `json:"leaf_count" yaml:"leaf_count"`
	ResolutionBlockCount int         `json:"resolution_block_count" yaml:"resolution_block_count"`
	FirstShortLength     int         `json:"first_short_length" yaml:"first_short_length"`
	LastShortLength      int         `json:"last_short_length" yaml:"last_short_length"`
	Rows                 []rowReport `json:"rows" yaml:"rows"`
}

type rowReport struct {
	Kind string      `json:"kind" yaml:"kind"`
	Runs []runReport `json:"runs" yaml:"runs"`
}

type runReport struct {
	Label    string  `json:"label" yaml:"label"`
	Length   int     `json:"length" yaml:"length"`
	WidthPct float64 `json:"width_pct" yaml:"width_pct"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Tile the configured range and print its structure",
		Long: `Tile the configured date range at the configured resolution and print
the resulting block structure: leaf and resolution-block counts, short
first/last blocks, and the year/month/day aggregation rows.`,
		Example: `  # Nine months of 2020, day by day
  timeline-flow inspect --resolution day --start 2020-04-01 --end 2020-12-01

  # Machine-readable
  timeline-flow inspect --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format (table|json|yaml), default from --output")

	return cmd
}

func runInspect(cmd *cobra.Command, format string) error {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	logger := config.GetLogger(cmd.Context())

	report, err := buildInspectReport(cfg)
	if err != nil {
		return err
	}
	logger.Debug("tiled range",
		"leaves", report.LeafCount,
		"blocks", report.ResolutionBlockCount)

	out := cmd.OutOrStdout()
	switch resolveFormat(format, cfg.OutputFormat) {
	case "json":
		return renderJSON(out, report)
	case "yaml":
		return renderYAML(out, report)
	default:
		renderInspectTable(out, report)
		return nil
	}
}

func buildInspectReport(cfg *config.Config) (*inspectReport, error) {
	bundle, err := cfg.Bundle()
	if err != nil {
		return nil, err
	}
	res, err := cfg.ParsedResolution()
	if err != nil {
		return nil, err
	}
	start, end := cfg.RangeIn(bundle.Location())

	tiling, err := timeline.Tile(timeline.Request{
		Resolution:     res,
		Start:          start,
		End:            end,
		FirstDayOfWeek: cfg.FirstDayOfWeek,
		Locale:         bundle,
	})
	if err != nil {
		return nil, err
	}

	report := &inspectReport{
		Resolution:           res.String(),
		Start:                bundle.FormatDate(start, "yyyy-MM-dd HH:mm:ss"),
		End:                  bundle.FormatDate(end, "yyyy-MM-dd HH:mm:ss"),
		Timezone:             bundle.TimeZone(),
		Locale:               bundle.Tag().String(),
		FirstDayOfWeek:       tiling.FirstDayOfWeek,
		LeafCount:            tiling.Result.LeafCount,
		ResolutionBlockCount: tiling.Result.ResolutionBlockCount,
		FirstShortLength:     tiling.Result.FirstShortLength,
		LastShortLength:      tiling.Result.LastShortLength,
	}

	months := bundle.MonthNames()
	rows := []struct {
		kind string
		row  *timeline.AggregationRow
	}{
		{"year", &tiling.Year},
		{"month", &tiling.Month},
		{"day", &tiling.Day},
	}
	for _, r := range rows {
		if len(r.row.Runs) == 0 {
			continue
		}
		rep := rowReport{Kind: r.kind}
		for _, run := range r.row.Runs {
			label := run.Label
			if r.kind == "month" && run.Index >= 0 && run.Index < len(months) {
				label = months[run.Index]
			}
			rep.Runs = append(rep.Runs, runReport{
				Label:    label,
				Length:   run.Length,
				WidthPct: timeline.WidthPct(run.Length, tiling.Result.LeafCount),
			})
		}
		report.Rows = append(report.Rows, rep)
	}
	return report, nil
}

// resolveFormat picks the output format: the inspect flag wins, then the
// global output setting, then TTY auto-detection.
func resolveFormat(flag, global string) string {
	for _, f := range []string{flag, global} {
		switch f {
		case "table", "json", "yaml":
			return f
		}
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "table"
	}
	return "json"
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	return enc.Encode(v)
}

func renderInspectTable(w io.Writer, report *inspectReport) {
	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.SetStyle(table.StyleLight)
	summary.AppendRows([]table.Row{
		{"resolution", report.Resolution},
		{"range", fmt.Sprintf("%s .. %s (%s)", report.Start, report.End, report.Timezone)},
		{"locale", report.Locale},
		{"first day of week", report.FirstDayOfWeek},
		{"leaves", report.LeafCount},
		{"resolution blocks", report.ResolutionBlockCount},
		{"short first/last", fmt.Sprintf("%d / %d", report.FirstShortLength, report.LastShortLength)},
	})
	summary.Render()

	for _, row := range report.Rows {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle(row.Kind)
		t.AppendHeader(table.Row{"label", "length", "width %"})
		for _, run := range row.Runs {
			t.AppendRow(table.Row{run.Label, run.Length, fmt.Sprintf("%.2f", run.WidthPct)})
		}
		t.Render()
	}
}
