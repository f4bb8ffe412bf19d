package deskkit

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// DirSource finds a directory argument when none was given on the command
// line: the first line of piped stdin, otherwise the clipboard.
type DirSource struct {
	stdin     *os.File
	clipboard func() (string, error)
}

func NewDirSource() *DirSource {
	return &DirSource{stdin: os.Stdin, clipboard: clipboard.ReadAll}
}

func (s *DirSource) Get() (string, error) {
	if s.stdin != nil {
		if stat, err := s.stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
			return firstLine(s.stdin)
		}
	}

	c, err := s.clipboard()
	if err != nil {
		return "", err
	}
	return firstLine(strings.NewReader(c))
}

func firstLine(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line, nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", errors.New("no directory given")
}
