package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordgame/internal/game"
	"github.com/robalobadob/wordgame/internal/play"
)

var (
	playRemote bool
	playAnswer string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a round in the terminal",
	RunE:  runPlay,
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func usage(w io.Writer, length, attempts int) {
	fmt.Fprintf(w, "guess the %d-letter word in %d tries\n", length, attempts)
	io.WriteString(w, "type a word and press enter to guess\n")
	io.WriteString(w, "help - show this message\n")
	io.WriteString(w, "exit - give up\n")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	_, provider, err := loadWords(cfg, playRemote || cfg.Words.RemoteURL != "")
	if err != nil {
		return err
	}
	sess, err := play.NewSession(ctx, provider, provider, play.Options{
		Length:   cfg.Game.WordLength,
		Attempts: cfg.Game.Attempts,
		Answer:   playAnswer,
	})
	if err != nil {
		return err
	}

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mguess>\033[0m ",
		HistoryFile:     filepath.Join(os.TempDir(), "wordgame.history"),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	out := l.Stdout()
	usage(out, sess.Round().Length(), sess.Round().Attempts)
	fmt.Fprintln(out, play.Board(sess.Round()))

	for !sess.Round().Phase.Finished() {
		line, err := l.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "help":
			usage(out, sess.Round().Length(), sess.Round().Attempts)
			continue
		case "exit", "bye":
			fmt.Fprintf(out, "The word was %s\n", sess.Round().Answer)
			return nil
		}
		if _, err := game.ParseWord(line, sess.Round().Length()); err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		renders := sess.Type(ctx, line)
		fmt.Fprintln(out, play.Board(sess.Round()))
		if msg := play.Message(renders[len(renders)-1]); msg != "" {
			fmt.Fprintln(out, msg)
		}
		fmt.Fprintln(out, play.Letters(sess.Round()))
	}
	return nil
}
