package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netscope/pkg/engine"
	"github.com/matzehuels/netscope/pkg/errors"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
	cardTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	cardHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Underline(true)
)

// inspectCommand prints a network summary or the card of one node.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		opts   loadOpts
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <network> [node]",
		Short: "Show a network's nodes or the card of one node",
		Long: `Inspect loads a network and lists its nodes with their label, normalized
anchor and neighbor count. Given a node id, it prints that node's card: the
label followed by its neighbors in label order.

<network> is a catalog name or a source reference (path, URL, mongo:<name>).`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: c.completeNetworks,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, doc, err := c.loadEngine(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			if len(args) == 2 {
				card, ok := e.CardFor(args[1])
				if !ok {
					return errors.New(errors.ErrCodeNotFound, "node %q not found in %s", args[1], displayName(doc, args[0]))
				}
				if asJSON {
					return writeJSON(card)
				}
				fmt.Println(renderCard(card))
				return nil
			}

			if asJSON {
				return writeJSON(nodeSummaries(e))
			}
			printKeyValue("Network", displayName(doc, args[0]))
			printKeyValue("Scale", strconv.FormatFloat(e.Scale(), 'g', 4, 64))
			printStats(e.Network().Len(), len(e.Network().Edges), e.Settled())
			printNewline()
			fmt.Println(nodesTable(nodeSummaries(e)))
			return nil
		},
	}

	addLoadFlags(cmd, &opts)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// nodeSummary is one row of the inspect table.
type nodeSummary struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Radius    float64 `json:"r"`
	Neighbors int     `json:"neighbors"`
}

func nodeSummaries(e *engine.Engine) []nodeSummary {
	net := e.Network()
	out := make([]nodeSummary, net.Len())
	for i := range net.Nodes {
		n := &net.Nodes[i]
		out[i] = nodeSummary{
			ID:        n.ID,
			Label:     n.DisplayLabel(),
			X:         n.Anchor.X,
			Y:         n.Anchor.Y,
			Radius:    n.Radius,
			Neighbors: e.Degree(n.ID),
		}
	}
	return out
}

func nodesTable(nodes []nodeSummary) string {
	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		rows[i] = []string{
			n.ID,
			n.Label,
			fmt.Sprintf("%.1f, %.1f", n.X, n.Y),
			strconv.FormatFloat(n.Radius, 'f', 1, 64),
			strconv.Itoa(n.Neighbors),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Label", "Anchor", "Radius", "Neighbors").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleTableHdr
			case col == 0:
				return StyleHighlight
			case col >= 2:
				return StyleNumber
			}
			return StyleValue
		}).
		Render()
}

// renderCard draws a node card: the label, the neighbor header and one
// line per neighbor.
func renderCard(card engine.Card) string {
	var b strings.Builder
	b.WriteString(cardTitleStyle.Render(card.Label))
	b.WriteString("\n")
	b.WriteString(cardHeaderStyle.Render(card.Header()))
	for _, l := range card.Lines() {
		b.WriteString("\n")
		b.WriteString(StyleValue.Render(l))
	}
	return cardStyle.Render(b.String())
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
