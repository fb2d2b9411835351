// FILE: chassis/cmd/chassis/app/settings.go
package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"chassis"
)

// newSettingsCmd creates the settings inspection command.
func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show every resolved field and the source it came from",
		Long: `Settings resolves every declared field against the current environment,
configuration file, and defaults, and renders a table naming the winning
source for each value. Secret-bearing fields are masked.`,
		RunE: runSettings,
	}
	cmd.Flags().String("group", "", "Limit output to a single field group")
	return cmd
}

func runSettings(cmd *cobra.Command, _ []string) error {
	b, err := newBuilder(cmd)
	if err != nil {
		return err
	}
	src, err := b.Sources()
	if err != nil && !errors.Is(err, chassis.ErrConfigNotFound) {
		return err
	}

	registry, err := chassis.DefaultRegistry()
	if err != nil {
		return err
	}

	groupFilter, err := cmd.Flags().GetString("group")
	if err != nil {
		return err
	}

	groups := registry.Groups()
	if groupFilter != "" {
		g, ok := registry.Group(groupFilter)
		if !ok {
			return fmt.Errorf("unknown group %q", groupFilter)
		}
		groups = []chassis.Group{g}
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Options(
		tablewriter.WithHeader([]string{"Field", "Kind", "Value", "Source"}),
		tablewriter.WithRendition(
			tw.Rendition{
				Borders: tw.Border{
					Left:   tw.State(1),
					Top:    tw.State(1),
					Right:  tw.State(1),
					Bottom: tw.State(1),
				},
			},
		),
		tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
	)

	var firstErr error
	for _, g := range groups {
		for _, f := range g.Fields() {
			value, origin, resolveErr := src.ResolveOrigin(f)

			rendered := ""
			if resolveErr != nil {
				rendered = fmt.Sprintf("!! %v", resolveErr)
				if firstErr == nil {
					firstErr = resolveErr
				}
			} else {
				rendered = renderValue(f, value)
			}

			if err := table.Append([]string{f.Key(), f.Kind().String(), rendered, string(origin)}); err != nil {
				return fmt.Errorf("failed to append row: %w", err)
			}
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	// A rendered table plus a non-zero exit keeps the command useful for
	// diagnosing exactly which field is broken.
	return firstErr
}

// renderValue formats a resolved value for display, masking secrets.
func renderValue(f chassis.Field, value any) string {
	name := f.Name()
	if strings.Contains(name, "secret") || strings.Contains(name, "password") {
		if s, ok := value.(string); ok && s != "" {
			return "********"
		}
	}

	switch v := value.(type) {
	case []string:
		return strings.Join(v, ", ")
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
