package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newAgentsCmd(env *environment) *cobra.Command {
	agentsCmd := &cobra.Command{
		Use:   "agents",
		Short: "Inspect agents",
	}

	var activeOnly bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List agents, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			modules, _, closeAll, err := env.openModules(ctx, false)
			if err != nil {
				return err
			}
			defer closeAll()

			list := modules.Agents.Queries.ListAgents
			if activeOnly {
				list = modules.Agents.Queries.ListActive
			}
			agents, err := list(ctx)
			if err != nil {
				return fmt.Errorf("list agents: %w", err)
			}
			if len(agents) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No agents found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tMOBILE\tACTIVE")
			for _, agent := range agents {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%t\n",
					agent.ID, agent.Name, agent.Email, agent.Mobile.CountryCode, agent.Mobile.Number, agent.Active)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().BoolVar(&activeOnly, "active", false, "only active agents, in distribution order")

	agentsCmd.AddCommand(listCmd)
	return agentsCmd
}
