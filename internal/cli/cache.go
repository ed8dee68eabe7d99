package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the roster cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// fileCacheDir resolves the file cache directory from the config.
func (c *CLI) fileCacheDir() (string, config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return "", cfg, err
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, cfg, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", cfg, fmt.Errorf("get cache dir: %w", err)
	}
	return dir, cfg, nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached rosters",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, cfg, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend != config.CacheFile {
				printWarning("cache backend is %q; only the file cache can be cleared here", cfg.Cache.Backend)
				return nil
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached rosters", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
}
