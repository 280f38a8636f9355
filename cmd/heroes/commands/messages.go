package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (c *cli) messagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Print the message log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, e := range c.client.Messages.Entries() {
				if _, err := fmt.Fprintf(out, "%s  %s\n", e.At.Local().Format(time.RFC3339), e.Text); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the message log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.client.Messages.Clear()
			return nil
		},
	})
	return cmd
}
