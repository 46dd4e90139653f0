// Package console prints every observed publication as a table.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/ports"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/analysis"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/syncengine"
)

type Console struct {
	Source   ports.StateSource
	Settings *domain.SettingsStore
	Out      io.Writer
}

func New(source ports.StateSource, settings *domain.SettingsStore, out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{Source: source, Settings: settings, Out: out}
}

// Run renders publications until ctx is done.
func (c *Console) Run(ctx context.Context) error {
	return syncengine.Follow(ctx, c.Source, func(v domain.StateView) error {
		out, err := Render(analysis.Summarize(v, c.Settings.Get()))
		if err != nil {
			return err
		}
		_, err = io.WriteString(c.Out, out)
		return err
	})
}

// Render formats one summary.
func Render(s analysis.Summary) (string, error) {
	var b strings.Builder

	if s.Degraded {
		b.WriteString(pterm.Yellow("waiting for adapters...") + "\n\n")
		return b.String(), nil
	}

	fmt.Fprintf(&b, "%s %d  %s %s\n",
		pterm.LightCyan("round"), s.Round,
		pterm.Gray("adapters"), strings.Join(s.Adapters, ", "))

	if len(s.Networks) == 0 {
		b.WriteString(pterm.Gray("no network is seen by every adapter") + "\n\n")
		return b.String(), nil
	}

	data := pterm.TableData{{"Network", "Trend", "Last dBm", "Distance", "Flags"}}
	for _, r := range s.Networks {
		data = append(data, []string{
			string(r.ID),
			colorTrend(r.Trend, r.Direction),
			fmt.Sprintf("%.1f", r.LastValue),
			distance(r),
			flags(r),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", fmt.Errorf("render table: %w", err)
	}
	b.WriteString(table)
	b.WriteString("\n\n")
	return b.String(), nil
}

func colorTrend(t domain.Trend, direction string) string {
	switch t {
	case domain.TrendRising:
		return pterm.Green(direction)
	case domain.TrendFalling:
		return pterm.Red(direction)
	case domain.TrendStationary:
		return pterm.Blue(direction)
	}
	return pterm.Gray(direction)
}

func distance(r domain.NetworkReport) string {
	if !r.DistanceKnown {
		return "n/a"
	}
	return fmt.Sprintf("%.1f m", r.Distance)
}

func flags(r domain.NetworkReport) string {
	var f []string
	if r.Jump {
		f = append(f, "jump")
	}
	if r.Divergence {
		f = append(f, "divergence")
	}
	return strings.Join(f, " ")
}
