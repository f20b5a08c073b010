// internal/play/board.go
//
// Terminal rendering for a round. Rows are drawn as coloured tiles;
// Letters summarises what is known about each letter.

package play

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/wordgame/internal/game"
)

var (
	tile = lipgloss.NewStyle().Bold(true).Padding(0, 1).
		Foreground(lipgloss.Color("#ffffff"))

	exactTile   = tile.Background(lipgloss.Color("#538d4e"))
	presentTile = tile.Background(lipgloss.Color("#b59f3b"))
	absentTile  = tile.Background(lipgloss.Color("#3a3a3c"))
	typedTile   = tile.Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#565758"))
	emptyTile   = tile.Foreground(lipgloss.Color("#565758"))

	messageStyle = lipgloss.NewStyle().Italic(true)
)

func styleFor(m game.LetterResult) lipgloss.Style {
	switch m {
	case game.Exact:
		return exactTile
	case game.Present:
		return presentTile
	}
	return absentTile
}

// Board draws a round as rows of coloured tiles.
func Board(r game.Round) string {
	rows := make([]string, 0, r.Attempts)
	for _, row := range r.Rows {
		cells := make([]string, len(row.Guess))
		for i := 0; i < len(row.Guess); i++ {
			cells[i] = styleFor(row.Marks[i]).Render(string(row.Guess[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	if !r.Phase.Finished() && len(rows) < r.Attempts {
		cells := make([]string, r.Length())
		for i := range cells {
			if i < len(r.Current) {
				cells[i] = typedTile.Render(string(r.Current[i]))
			} else {
				cells[i] = emptyTile.Render("_")
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	for len(rows) < r.Attempts {
		cells := make([]string, r.Length())
		for i := range cells {
			cells[i] = emptyTile.Render("·")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Letters summarises the best result seen for every guessed letter, A-Z order.
func Letters(r game.Round) string {
	var best [26]game.LetterResult
	rank := map[game.LetterResult]int{"": 0, game.Absent: 1, game.Present: 2, game.Exact: 3}
	for _, row := range r.Rows {
		for i := 0; i < len(row.Guess); i++ {
			j := row.Guess[i] - 'A'
			if rank[row.Marks[i]] > rank[best[j]] {
				best[j] = row.Marks[i]
			}
		}
	}
	var b strings.Builder
	for j, m := range best {
		if m == "" {
			continue
		}
		b.WriteString(styleFor(m).Render(string(rune('A' + j))))
	}
	return b.String()
}

// Message returns the status line for a render, or "" when there is nothing to say.
func Message(rnd game.Render) string {
	var s string
	switch rnd.Kind {
	case game.RenderInvalid:
		s = fmt.Sprintf("%s is not in the word list", rnd.Guess)
	case game.RenderError:
		s = fmt.Sprintf("could not check %s: %v", rnd.Guess, rnd.Err)
	case game.RenderWon:
		s = "You win!"
	case game.RenderLost:
		s = fmt.Sprintf("You lose. The word was %s", rnd.Answer)
	default:
		return ""
	}
	return messageStyle.Render(s)
}
