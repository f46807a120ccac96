package bench

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/amp-labs/amp-flat/cli"
	"github.com/dustin/go-humanize"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for an unsupported report format.
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects how a Report is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatProm Format = "prom"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatJSON, FormatYAML, FormatProm:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (known: text, json, yaml, prom)", ErrUnknownFormat, name)
	}
}

// Decode lets envconfig parse FLATBENCH_FORMAT through ParseFormat.
func (f *Format) Decode(value string) error {
	parsed, err := ParseFormat(value)
	if err != nil {
		return err
	}

	*f = parsed

	return nil
}

// Report is the outcome of one Runner.Run.
type Report struct {
	RunID     string        `json:"runId"     yaml:"runId"`
	StartedAt time.Time     `json:"startedAt" yaml:"startedAt"`
	Duration  time.Duration `json:"durationNs" yaml:"duration"`
	Seed      uint64        `json:"seed"      yaml:"seed"`
	Size      int           `json:"size"      yaml:"size"`
	Ops       int           `json:"ops"       yaml:"ops"`
	Workers   int           `json:"workers"   yaml:"workers"`
	Results   []Result      `json:"results"   yaml:"results"`

	// Metrics holds the run's Prometheus registry contents.
	Metrics []*dto.MetricFamily `json:"-" yaml:"-"`
}

// RenderOptions tweaks rendering.
type RenderOptions struct {
	// NoBanner prints the text report header as plain lines.
	NoBanner bool
}

// Render writes the report to w in the given format. The format name is
// matched case-insensitively.
func (r *Report) Render(w io.Writer, format Format, opts RenderOptions) error {
	format, err := ParseFormat(string(format))
	if err != nil {
		return err
	}

	switch format {
	case FormatText:
		return r.renderText(w, opts)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2) //nolint:mnd

		if err := enc.Encode(r); err != nil {
			return err
		}

		return enc.Close()
	case FormatProm:
		for _, family := range r.Metrics {
			if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
				return fmt.Errorf("writing metric family %s: %w", family.GetName(), err)
			}
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func (r *Report) renderText(w io.Writer, opts RenderOptions) error {
	header := fmt.Sprintf("flatbench run %s\n%s entries, %s ops per phase, seed %d, %d workers",
		r.RunID, humanize.Comma(int64(r.Size)), humanize.Comma(int64(r.Ops)), r.Seed, r.Workers)

	if opts.NoBanner {
		header += "\n"
	} else {
		header = cli.Banner(header, cli.DefaultWidth, cli.AlignCenter)
	}

	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint:mnd

	if _, err := fmt.Fprintln(tw, "CONTAINER\tOPERATION\tOPS\tTIME/OP\tTOTAL\tENTRIES"); err != nil {
		return err
	}

	previous := ""

	for _, res := range r.Results {
		if previous != "" && previous != res.Container {
			if _, err := fmt.Fprintln(tw, "\t\t\t\t\t"); err != nil {
				return err
			}
		}

		previous = res.Container

		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			res.Container,
			res.Operation,
			humanize.Comma(int64(res.Ops)),
			humanize.SIWithDigits(res.NsPerOp/float64(time.Second), 2, "s"), //nolint:mnd
			res.Elapsed.Round(time.Microsecond),
			humanize.Comma(int64(res.Entries)),
		); err != nil {
			return err
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if !opts.NoBanner {
		if _, err := io.WriteString(w, cli.Divider(cli.DefaultWidth)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "finished in %s\n", r.Duration.Round(time.Millisecond))

	return err
}
