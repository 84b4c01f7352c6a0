package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitlisted/tracing-framework/internal/db"
	"github.com/gitlisted/tracing-framework/internal/event"
	"github.com/gitlisted/tracing-framework/internal/treefmt"
)

var treeCmd = &cobra.Command{
	Use:   "tree [flags] FILE",
	Short: "Print the scope tree of each zone",
	Long:  `Tree loads a trace and prints the reconstructed scope tree of every zone, or of the zone selected with --zone`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

func init() {
	treeCmd.Flags().String("zone", "", "only print this zone (name or name@location)")
	treeCmd.Flags().Int("max-depth", -1, "maximum printed depth (0 = unlimited, default from config)")
}

func runTree(cmd *cobra.Command, args []string) error {
	zoneRef, err := cmd.Flags().GetString("zone")
	if err != nil {
		return fmt.Errorf("failed to get zone flag: %w", err)
	}
	maxDepth, err := cmd.Flags().GetInt("max-depth")
	if err != nil {
		return fmt.Errorf("failed to get max-depth flag: %w", err)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close(cmd)

	if maxDepth < 0 {
		maxDepth = s.cfg.Output.MaxDepth
	}

	database, err := s.load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	zones, err := selectZones(database, zoneRef)
	if err != nil {
		return err
	}

	opts := treefmt.Options{Color: s.color, MaxDepth: maxDepth}
	return s.timer.Measure("print", func() (string, error) {
		out := cmd.OutOrStdout()
		for i, z := range zones {
			if i > 0 {
				fmt.Fprintln(out)
			}
			if err := treefmt.Write(out, database.Index(z), opts); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("%d zones", len(zones)), nil
	})
}

// selectZones resolves ref against the database; an empty ref selects all.
func selectZones(database *db.Database, ref string) ([]*event.Zone, error) {
	if ref == "" {
		return database.Zones(), nil
	}
	name, location := db.ParseZoneRef(ref)
	z := database.Zone(name)
	if z == nil || (location != "" && z.Location != location) {
		names := make([]string, 0)
		for _, known := range database.Zones() {
			names = append(names, known.String())
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown zone %q (known: %s)", ref, strings.Join(names, ", "))
	}
	return []*event.Zone{z}, nil
}
