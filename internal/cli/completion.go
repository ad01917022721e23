package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netscope/pkg/config"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for netscope.

To load completions:

Bash:
  $ source <(netscope completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ netscope completion bash > /etc/bash_completion.d/netscope
  # macOS:
  $ netscope completion bash > $(brew --prefix)/etc/bash_completion.d/netscope

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ netscope completion zsh > "${fpath[1]}/_netscope"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ netscope completion fish | source

  # To load completions for each session, execute once:
  $ netscope completion fish > ~/.config/fish/completions/netscope.fish

PowerShell:
  PS> netscope completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> netscope completion powershell > netscope.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeNetworks completes the first argument with catalog network names.
// Completion runs without the root pre-run hook, so the config is read here.
func (c *CLI) completeNetworks(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	var names []string
	for _, n := range cfg.Networks {
		if strings.HasPrefix(n.Name, toComplete) {
			names = append(names, n.Name+"\t"+n.Source)
		}
	}
	// Fall back to file completion for direct references.
	return names, cobra.ShellCompDirectiveDefault
}
