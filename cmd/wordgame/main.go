// cmd/wordgame/main.go
//
// Entry point for the wordgame binary.
//   - wordgame serve: HTTP API (see internal/httpserver).
//   - wordgame play:  terminal game against local lists or the word service.
//
// Configuration is loaded once in PersistentPreRunE (.env, optional YAML,
// environment) and shared by every subcommand.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordgame/internal/config"
	"github.com/robalobadob/wordgame/internal/words"
)

var (
	cfg     *config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:          "wordgame",
	Short:        "Guess the secret word in a limited number of tries",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		return setupLogging(cfg.Log, verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	playCmd.Flags().BoolVar(&playRemote, "remote", false, "Use the remote word service (falls back to local lists)")
	playCmd.Flags().StringVar(&playAnswer, "answer", "", "Fixed secret word")
	_ = playCmd.Flags().MarkHidden("answer")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging configures the global zerolog logger.
func setupLogging(lc config.LogConfig, verbose bool) error {
	lvl, err := zerolog.ParseLevel(lc.Level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", lc.Level, err)
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if lc.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return nil
}

// loadWords loads the local lists and, when remote is set, puts the word
// service in front of them.
func loadWords(c *config.Config, remote bool) (*words.List, words.Provider, error) {
	list, err := words.Load(words.Options{
		Length:      c.Game.WordLength,
		AnswersFile: c.Words.AnswersFile,
		AllowedFile: c.Words.AllowedFile,
	})
	if err != nil {
		return nil, nil, err
	}
	answers, allowed := list.Stats()
	log.Info().Int("answers", answers).Int("allowed", allowed).Msg("word lists loaded")

	if !remote {
		return list, list, nil
	}
	rem := words.NewRemote(words.RemoteOptions{
		BaseURL:  c.Words.RemoteURL,
		Length:   c.Game.WordLength,
		Timeout:  c.Words.RemoteTimeout,
		Attempts: c.Words.RemoteAttempts,
	})
	log.Info().Str("url", c.Words.RemoteURL).Msg("using remote word service")
	return list, words.Fallback{Primary: rem, Secondary: list}, nil
}
