package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "kokoro",
	Short: "kokoro - a persona chat agent that thinks, speaks and remembers",
	Long: `kokoro talks to a language model in three steps for every message:
it thinks about the input, answers in character, then summarizes the exchange.
Thoughts, chats and summaries are kept under the logs directory and fed back
into later turns. With tts.enabled the answer is read aloud.

Run without arguments to start the interactive chat.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat (default)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

var sayCmd = &cobra.Command{
	Use:   "say <text>",
	Short: "Read text aloud with the configured voice",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSay(cmd.Context(), args)
	},
}

var (
	historyReset bool
	historyCount int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the saved conversation history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistory(cmd.Context(), cmd.OutOrStdout(), historyReset, historyCount)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (JSON or YAML, default $KOKORO_CONFIG or ./config/config.json)")

	historyCmd.Flags().BoolVar(&historyReset, "reset", false, "delete the saved history")
	historyCmd.Flags().IntVarP(&historyCount, "count", "n", 10, "number of exchanges to show")

	rootCmd.AddCommand(chatCmd, sayCmd, historyCmd)
}

func main() {
	// .env は任意
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
