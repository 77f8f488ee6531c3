package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NU-CEM/singing-materials-online/pkg/cli"
	"github.com/NU-CEM/singing-materials-online/pkg/kv"
	"github.com/NU-CEM/singing-materials-online/pkg/materials"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the API response cache",
	Long: `Band structures, densities of states and formulas fetched from the
Materials Project are cached on disk for 30 days.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCacheForCommand()
		if err != nil || store == nil {
			return err
		}
		defer store.Close()

		keys, err := kv.Keys(cmd.Context(), store, materials.CachePrefix)
		if err != nil {
			return err
		}
		if isJSONOutput() {
			names := make([]string, len(keys))
			for i, k := range keys {
				names[i] = k.String()
			}
			return outputResult(names, outputFile, true)
		}
		if len(keys) == 0 {
			fmt.Println("Cache is empty")
			return nil
		}
		t := cli.Table{
			Title:   "Cached responses",
			Headers: []string{"KIND", "MATERIAL"},
			Footer:  fmt.Sprintf("%d entries", len(keys)),
		}
		for _, k := range keys {
			if len(k) == 3 {
				t.Rows = append(t.Rows, []string{k[1], k[2]})
			} else {
				t.Rows = append(t.Rows, []string{k.String(), ""})
			}
		}
		return cli.Output(t, cli.OutputOptions{Format: cli.FormatTable})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [mp-id...]",
	Short: "Remove cached entries, all of them or those of the given materials",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCacheForCommand()
		if err != nil || store == nil {
			return err
		}
		defer store.Close()

		if len(args) > 0 {
			cached := materials.NewCached(nil, store, nil)
			for _, id := range args {
				if err := cached.Invalidate(cmd.Context(), id); err != nil {
					return err
				}
			}
			cli.PrintSuccess("Cleared cache for %d materials", len(args))
			return nil
		}

		n, err := kv.Purge(cmd.Context(), store, materials.CachePrefix)
		if err != nil {
			return err
		}
		cli.PrintSuccess("Removed %d cached entries", n)
		return nil
	},
}

func openCacheForCommand() (*kv.Badger, error) {
	c, err := getContext()
	if err != nil {
		return nil, err
	}
	store, err := openCache(c)
	if err != nil {
		return nil, err
	}
	if store == nil {
		fmt.Println("Cache is disabled")
	}
	return store, nil
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
