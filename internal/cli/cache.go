package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcelayout/pkg/cache"
	"github.com/matzehuels/forcelayout/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc, err := newCache(ctx, c.cfg.Cache, false)
			if err != nil {
				return err
			}
			defer cc.Close()

			var count int
			switch cc := cc.(type) {
			case *cache.FileCache:
				count, err = cc.Clear()
				if err == nil {
					printSuccess("Cleared %d cached layouts", count)
					printDetail("Directory: %s", cc.Dir())
				}
			case *cache.RedisCache:
				count, err = cc.Clear(ctx, c.cfg.Cache.Prefix+"layout:*")
				if err == nil {
					printSuccess("Cleared %d cached layouts", count)
					printDetail("Redis: %s", c.cfg.Cache.RedisAddr)
				}
			default:
				printInfo("Caching is disabled")
			}
			return err
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where layouts are cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.cfg.Cache.Backend {
			case config.BackendRedis:
				fmt.Println("redis://" + c.cfg.Cache.RedisAddr)
			case config.BackendNone:
				printInfo("Caching is disabled")
			default:
				dir, err := cacheDir(c.cfg.Cache)
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Println(dir)
			}
			return nil
		},
	}
}
