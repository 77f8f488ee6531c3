package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NU-CEM/singing-materials-online/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

Contexts allow you to manage multiple API configurations,
similar to kubectl's context management.

Configuration is stored in ~/.singing-materials/sonify/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context with the specified name.

Example:
  sonify config add-context myctx --api-key YOUR_API_KEY
  sonify config add-context lab --api-key KEY --output-dir s3://bucket/sounds --player wav`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		apiKey, err := cmd.Flags().GetString("api-key")
		if err != nil {
			return fmt.Errorf("failed to read 'api-key' flag: %w", err)
		}
		if apiKey == "" {
			return fmt.Errorf("--api-key is required")
		}

		baseURL, err := cmd.Flags().GetString("base-url")
		if err != nil {
			return fmt.Errorf("failed to read 'base-url' flag: %w", err)
		}
		timeout, err := cmd.Flags().GetInt("timeout")
		if err != nil {
			return fmt.Errorf("failed to read 'timeout' flag: %w", err)
		}
		maxRetries, err := cmd.Flags().GetInt("max-retries")
		if err != nil {
			return fmt.Errorf("failed to read 'max-retries' flag: %w", err)
		}
		cache, err := cmd.Flags().GetString("cache-dir")
		if err != nil {
			return fmt.Errorf("failed to read 'cache-dir' flag: %w", err)
		}
		outputDir, err := cmd.Flags().GetString("output-dir")
		if err != nil {
			return fmt.Errorf("failed to read 'output-dir' flag: %w", err)
		}
		player, err := cmd.Flags().GetString("player")
		if err != nil {
			return fmt.Errorf("failed to read 'player' flag: %w", err)
		}
		if player != "" {
			if _, ok := players[player]; !ok {
				return fmt.Errorf("unknown player %q (available: %s)", player, playerNames())
			}
		}

		ctx := &cli.Context{
			APIKey:     apiKey,
			BaseURL:    baseURL,
			Timeout:    timeout,
			MaxRetries: maxRetries,
			CacheDir:   cache,
			OutputDir:  outputDir,
			Player:     player,
		}

		cfg := getConfig()
		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}

		cli.PrintSuccess("Context %q added successfully", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg := getConfig()
		if err := cfg.DeleteContext(name); err != nil {
			return err
		}

		cli.PrintSuccess("Context %q deleted", name)
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg := getConfig()
		if err := cfg.UseContext(name); err != nil {
			return err
		}

		cli.PrintSuccess("Switched to context %q", name)
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context",
	Short: "Display the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		if cfg.CurrentContext == "" {
			fmt.Println("No current context set")
			return nil
		}

		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"get-contexts"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		if len(cfg.Contexts) == 0 {
			fmt.Println("No contexts configured")
			return nil
		}

		t := cli.Table{
			Title:   "Contexts",
			Headers: []string{"CURRENT", "NAME", "BASE_URL", "PLAYER", "OUTPUT_DIR"},
		}
		for _, name := range cfg.ListContexts() {
			ctx := cfg.Contexts[name]
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			t.Rows = append(t.Rows, []string{
				current,
				name,
				orDefault(ctx.BaseURL),
				orDefault(ctx.Player),
				orDefault(ctx.OutputDir),
			})
		}
		return cli.Output(t, cli.OutputOptions{Format: cli.FormatTable})
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		fmt.Printf("Config file: %s\n", cfg.Path())
		fmt.Printf("Current context: %s\n", cfg.CurrentContext)
		fmt.Printf("Contexts: %d\n", len(cfg.Contexts))

		if len(cfg.Contexts) > 0 {
			fmt.Println("\nContext details:")
			for _, name := range cfg.ListContexts() {
				ctx := cfg.Contexts[name]
				fmt.Printf("\n  %s:\n", name)
				fmt.Printf("    API Key: %s\n", cli.MaskAPIKey(ctx.APIKey))
				if ctx.BaseURL != "" {
					fmt.Printf("    Base URL: %s\n", ctx.BaseURL)
				}
				if ctx.Timeout > 0 {
					fmt.Printf("    Timeout: %ds\n", ctx.Timeout)
				}
				if ctx.MaxRetries > 0 {
					fmt.Printf("    Max Retries: %d\n", ctx.MaxRetries)
				}
				if ctx.CacheDir != "" {
					fmt.Printf("    Cache Dir: %s\n", ctx.CacheDir)
				}
				if ctx.OutputDir != "" {
					fmt.Printf("    Output Dir: %s\n", ctx.OutputDir)
				}
				if ctx.Player != "" {
					fmt.Printf("    Player: %s\n", ctx.Player)
				}
			}
		}

		return nil
	},
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}

func init() {
	// add-context flags
	configAddContextCmd.Flags().String("api-key", "", "Materials Project API key (required)")
	configAddContextCmd.Flags().String("base-url", "", "API base URL")
	configAddContextCmd.Flags().Int("timeout", 0, "Request timeout in seconds")
	configAddContextCmd.Flags().Int("max-retries", 0, "Maximum retries")
	configAddContextCmd.Flags().String("cache-dir", "", `Response cache directory ("off" disables)`)
	configAddContextCmd.Flags().String("output-dir", "", "Directory or s3://bucket/prefix for WAV files and plots")
	configAddContextCmd.Flags().String("player", "", "Default audio player")

	// Add subcommands
	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configGetContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configViewCmd)
}
