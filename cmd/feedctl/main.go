// Command feedctl administers a promptfeed store: seeding demo content,
// inspecting users and orphaned generations, and checking prompts and the generator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promptfeed/internal/bootstrap"
	"promptfeed/internal/cache"
	"promptfeed/internal/config"
	"promptfeed/internal/notifications"
	"promptfeed/internal/repository"
	"promptfeed/internal/seed"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRuntime loads the config and opens the store and Redis. The caller must
// defer closeRuntime.
func newRuntime() (*config.Config, *bootstrap.Runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	rt, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing runtime: %w", err)
	}
	return cfg, rt, nil
}

func closeRuntime(rt *bootstrap.Runtime) {
	_ = rt.Store.Close()
	_ = cache.Close()
}

var rootCmd = &cobra.Command{
	Use:          "feedctl",
	Short:        "Administer a promptfeed store",
	SilenceUsage: true,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add demo posts, likes and comments",
	RunE: func(cmd *cobra.Command, args []string) error {
		posts, _ := cmd.Flags().GetInt("posts")
		comments, _ := cmd.Flags().GetInt("comments")
		seedValue, _ := cmd.Flags().GetInt64("seed")

		_, rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		factory := seed.NewFactory(
			repository.NewPostRepository(rt.Store),
			repository.NewCommentRepository(rt.Store),
			seed.Options{Posts: posts, MaxCommentsPerPost: comments, Seed: seedValue},
		)
		created, err := factory.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("seeding: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %d demo posts\n", len(created))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the store with the seed document",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("reset discards every post and comment; rerun with --force")
		}

		_, rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		if err := rt.Store.Save(cmd.Context(), seed.Document()); err != nil {
			return fmt.Errorf("resetting store: %w", err)
		}
		cache.InvalidateUsers(cmd.Context())

		fmt.Fprintln(cmd.OutOrStdout(), "Store reset to seed data")
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		users, err := repository.NewUserRepository(rt.Store).List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, u := range users {
			fmt.Fprintf(out, "%-4s %-16s %s\n", u.ID, u.Username, u.DisplayName)
		}
		return nil
	},
}

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List generated images that could not be saved as posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt64("limit")

		_, rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		out := cmd.OutOrStdout()
		n := notifications.NewNotifier(rt.Redis)
		if !n.Enabled() {
			fmt.Fprintln(out, "Redis is not configured; orphaned generations are only written to the error log")
			return nil
		}

		orphans, err := n.ListOrphans(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(orphans) == 0 {
			fmt.Fprintln(out, "No orphaned generations")
			return nil
		}
		for _, o := range orphans {
			fmt.Fprintf(out, "%s  author=%s  %s\n    prompt: %s\n    reason: %s\n",
				o.RecordedAt.Format(time.RFC3339), o.AuthorID, o.ImageURL, o.Prompt, o.Reason)
		}
		return nil
	},
}

var validatePromptCmd = &cobra.Command{
	Use:   "validate-prompt <prompt>",
	Short: "Check a prompt against the length rules and denylist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := bootstrap.NewPromptValidator(cfg).Validate(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Prompt is valid")
		return nil
	},
}

var checkGeneratorCmd = &cobra.Command{
	Use:   "check-generator",
	Short: "Run a test generation against the configured endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		client := bootstrap.NewGenerator(cfg)
		if !client.TestConnection(cmd.Context()) {
			return fmt.Errorf("test generation against %s failed", cfg.GenerationBaseURL)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generator at %s is working (model %s)\n", cfg.GenerationBaseURL, client.DefaultModel())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().IntP("posts", "p", 10, "Number of demo posts")
	seedCmd.Flags().IntP("comments", "c", 3, "Maximum comments per post")
	seedCmd.Flags().Int64("seed", 0, "Random seed for demo content")
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().Bool("force", false, "Confirm discarding all posts and comments")
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(orphansCmd)
	orphansCmd.Flags().Int64P("limit", "n", 50, "Maximum number of orphans to show")
	rootCmd.AddCommand(validatePromptCmd)
	rootCmd.AddCommand(checkGeneratorCmd)
}
