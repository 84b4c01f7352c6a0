package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gitlisted/tracing-framework/internal/db"
)

var statsCmd = &cobra.Command{
	Use:   "stats [flags] FILE",
	Short: "Report indexing statistics",
	Long:  `Stats loads a trace and reports per-zone scope and reconciliation counters`,
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().String("format", "text", "output format (text|json)")
}

type zoneStatsPayload struct {
	Zone            string `json:"zone"`
	ZoneID          string `json:"zone_id"`
	Type            string `json:"type"`
	Events          int    `json:"events"`
	Scopes          int    `json:"scopes"`
	OpenScopes      int    `json:"open_scopes"`
	OutOfOrder      int    `json:"out_of_order"`
	Reconciled      int    `json:"reconciled"`
	MaxPending      int    `json:"max_pending"`
	UnmatchedLeaves int    `json:"unmatched_leaves"`
}

type statsPayload struct {
	File    string             `json:"file"`
	Batches int                `json:"batches"`
	Events  int                `json:"events"`
	Unzoned int                `json:"unzoned"`
	Zones   []zoneStatsPayload `json:"zones"`
}

func runStats(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	switch format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be text or json)", format)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close(cmd)

	database, err := s.load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	payload := buildStatsPayload(args[0], database.Stats())

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	renderStatsText(cmd.OutOrStdout(), payload, s.color)
	return nil
}

func buildStatsPayload(file string, st db.Stats) statsPayload {
	payload := statsPayload{
		File:    file,
		Batches: st.Batches,
		Events:  st.Events,
		Unzoned: st.Unzoned,
		Zones:   make([]zoneStatsPayload, 0, len(st.Zones)),
	}
	for _, zs := range st.Zones {
		payload.Zones = append(payload.Zones, zoneStatsPayload{
			Zone:            zs.Zone.String(),
			ZoneID:          zs.Zone.ID.String(),
			Type:            zs.Zone.Type.String(),
			Events:          zs.Index.Inserted,
			Scopes:          zs.Index.Scopes,
			OpenScopes:      zs.Index.OpenScopes,
			OutOfOrder:      zs.Index.OutOfOrder,
			Reconciled:      zs.Index.Reconciled,
			MaxPending:      zs.Index.MaxPending,
			UnmatchedLeaves: zs.Index.UnmatchedLeaves,
		})
	}
	return payload
}

func renderStatsText(out io.Writer, payload statsPayload, colored bool) {
	heading := lipgloss.NewStyle()
	label := lipgloss.NewStyle()
	if colored {
		heading = heading.Bold(true).Foreground(lipgloss.Color("6"))
		label = label.Foreground(lipgloss.Color("7"))
	}
	p := message.NewPrinter(language.English)
	row := func(name string, value int) {
		fmt.Fprintf(out, "  %s %s\n", label.Render(fmt.Sprintf("%-18s", name)), p.Sprintf("%d", value))
	}

	fmt.Fprintln(out, heading.Render(payload.File))
	row("batches", payload.Batches)
	row("events", payload.Events)
	row("unzoned events", payload.Unzoned)
	row("zones", len(payload.Zones))
	for _, z := range payload.Zones {
		fmt.Fprintln(out)
		fmt.Fprintln(out, heading.Render(fmt.Sprintf("zone %s (%s)", z.Zone, z.Type)))
		row("events", z.Events)
		row("scopes", z.Scopes)
		row("open scopes", z.OpenScopes)
		row("out of order", z.OutOfOrder)
		row("reconciled", z.Reconciled)
		row("max pending", z.MaxPending)
		row("unmatched leaves", z.UnmatchedLeaves)
	}
}
