package commands

import (
	"fmt"
	"strings"

	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
	"github.com/Adda-Baaj/tour-of-heroes/pkg/heroes"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every hero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), c.client.Heroes.List(cmd.Context()))
		},
	}
}

// get <id>...: ids are fetched concurrently and printed in argument order.
func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>...",
		Short: "Fetch heroes by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, len(args))
			for i, raw := range args {
				id, err := parseID(raw)
				if err != nil {
					return err
				}
				ids[i] = id
			}

			results := make([]*domain.Hero, len(ids))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(8)
			for i, id := range ids {
				i, id := i, id
				g.Go(func() error {
					results[i] = c.client.Heroes.Get(ctx, id)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			var missing []string
			found := make([]domain.Hero, 0, len(results))
			for i, h := range results {
				if h == nil {
					missing = append(missing, fmt.Sprintf("id=%d", ids[i]))
					continue
				}
				found = append(found, *h)
			}

			out := cmd.OutOrStdout()
			switch {
			case len(ids) == 1 && len(found) == 1:
				if err := writeJSON(out, found[0]); err != nil {
					return err
				}
			case len(found) > 0:
				if err := writeJSON(out, found); err != nil {
					return err
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("%w: %s", errNotFound, strings.Join(missing, ", "))
			}
			return nil
		},
	}
}

func (c *cli) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Print heroes whose name matches term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), c.client.Heroes.Search(cmd.Context(), args[0]))
		},
	}
}

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a hero",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("hero name must not be empty")
			}
			return c.printHero(cmd, c.client.Heroes.Add(cmd.Context(), domain.Hero{Name: name}))
		},
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a hero",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.printHero(cmd, c.client.Heroes.Delete(cmd.Context(), heroes.ID(id)))
		},
	}
}

func (c *cli) updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <name>",
		Short: "Rename a hero",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[1])
			if name == "" {
				return fmt.Errorf("hero name must not be empty")
			}
			return c.printHero(cmd, c.client.Heroes.Update(cmd.Context(), domain.Hero{ID: id, Name: name}))
		},
	}
}

func (c *cli) printHero(cmd *cobra.Command, hero *domain.Hero) error {
	if hero == nil {
		return errNotFound
	}
	return writeJSON(cmd.OutOrStdout(), hero)
}
