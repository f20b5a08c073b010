// assets/embed.go
//
// Embedded default word lists. One word per line; blank lines and lines
// starting with '#' are skipped. Case is normalised by the words package.

package assets

import (
	"bufio"
	"embed"
	"strings"
)

// FS holds the embedded word lists.
//
//go:embed allowed.txt answers.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// AnswersList returns the embedded answer words.
func AnswersList() ([]string, error) {
	return readLines("answers.txt")
}

// AllowedList returns the embedded extra guess words (answers excluded).
func AllowedList() ([]string, error) {
	return readLines("allowed.txt")
}
