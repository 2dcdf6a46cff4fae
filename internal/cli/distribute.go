package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"agentlists/contexts/list-distribution/list-service/adapters/spreadsheet"
	"agentlists/contexts/list-distribution/list-service/application/commands"
	"agentlists/contexts/list-distribution/list-service/domain/entities"
	"agentlists/contexts/list-distribution/list-service/domain/services"
	"agentlists/contexts/list-distribution/list-service/ports"

	"github.com/spf13/cobra"
)

func newDistributeCmd(env *environment) *cobra.Command {
	var file string
	var agentCount int

	cmd := &cobra.Command{
		Use:   "distribute",
		Short: "Preview how a contact file would be split between agents",
		Long: `Parses, normalizes and validates a CSV or XLSX file exactly like an upload,
then splits it between N synthetic agents and prints the plan.
Nothing is stored.`,
		Example: `  agentlistsctl distribute --file contacts.csv --agents 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if agentCount <= 0 {
				return errors.New("--agents must be positive")
			}
			format, err := commands.ResolveFormat(file)
			if err != nil {
				return err
			}
			info, err := env.fs.Stat(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}

			rows, err := spreadsheet.NewParser(env.fs).Parse(cmd.Context(), ports.StagedFile{Path: file, Size: info.Size()}, format)
			if err != nil {
				return err
			}
			batch, err := services.Validate(services.NormalizeAll(rows))
			if err != nil {
				return err
			}

			agents := make([]entities.AgentRef, agentCount)
			for i := range agents {
				agents[i] = entities.AgentRef{
					ID:     fmt.Sprintf("agent-%d", i+1),
					Name:   fmt.Sprintf("Agent %d", i+1),
					Active: true,
				}
			}
			records, err := services.Distribute(batch, agents)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d records from %s across %d agents\n", len(records), file, agentCount)
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "AGENT\tITEMS\tROWS")
			cursor := 0
			for _, share := range services.DistributionSummary(records, agents) {
				rowsLabel := "-"
				if share.ItemsAssigned > 0 {
					first := records[cursor].RowNumber
					last := records[cursor+share.ItemsAssigned-1].RowNumber
					rowsLabel = fmt.Sprintf("%d-%d", first, last)
				}
				cursor += share.ItemsAssigned
				fmt.Fprintf(w, "%s\t%d\t%s\n", share.AgentName, share.ItemsAssigned, rowsLabel)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV, XLSX or XLS file to preview")
	cmd.Flags().IntVarP(&agentCount, "agents", "n", 5, "number of synthetic agents")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
