package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netscope/pkg/source"
)

// networksCommand lists the configured network catalog.
func (c *CLI) networksCommand() *cobra.Command {
	var stored bool

	cmd := &cobra.Command{
		Use:     "networks",
		Aliases: []string{"ls"},
		Short:   "List configured networks",
		Long: `List the networks in the [[networks]] section of the config file.

With --stored, the names of networks in the configured MongoDB collection are
listed as well. They can be opened as mongo:<name>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := c.Config.Catalog()
			if stored {
				more, err := c.storedNetworks(cmd.Context())
				if err != nil {
					return err
				}
				entries = append(entries, more...)
			}

			if len(entries) == 0 {
				printInfo("No networks configured")
				printDetail("Add [[networks]] entries to %s", c.configFile())
				return nil
			}

			fmt.Println(networksTable(entries))
			printNewline()
			printNextStep("Explore one", fmt.Sprintf("%s view %s", appName, entries[0].Name))
			return nil
		},
	}

	cmd.Flags().BoolVar(&stored, "stored", false, "also list networks stored in MongoDB")
	return cmd
}

func (c *CLI) storedNetworks(ctx context.Context) ([]source.Entry, error) {
	m := c.Config.Mongo
	if m.URI == "" {
		printWarning("mongo.uri is not set; skipping stored networks")
		return nil, nil
	}
	ms, err := source.NewMongoSource(ctx, source.MongoConfig{URI: m.URI, Database: m.Database, Collection: m.Collection})
	if err != nil {
		return nil, err
	}
	defer ms.Close(context.Background())

	names, err := ms.Names(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]source.Entry, len(names))
	for i, n := range names {
		entries[i] = source.Entry{Name: source.PrefixMongo + n, Source: source.PrefixMongo + n}
	}
	return entries, nil
}

// networksTable renders catalog entries as a table.
func networksTable(entries []source.Entry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Name, source.KindOf(e.Source), e.Source}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Network", "Kind", "Source").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleTableHdr
			case col == 0:
				return StyleHighlight
			case col == 1:
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}
