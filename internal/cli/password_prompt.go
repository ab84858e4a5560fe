package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// errNotTerminal means stdin is a pipe or file; nothing is echoed back, so
// the line is read as is.
var errNotTerminal = errors.New("stdin is not a terminal")

// readPassword reads one line from stdin with terminal echo switched off.
func readPassword(stdin *os.File) (string, error) {
	if stdin == nil {
		return "", errors.New("stdin unavailable")
	}

	restore, err := disableEcho(stdin)
	switch {
	case errors.Is(err, errNotTerminal):
		restore = func() {}
	case err != nil:
		return "", fmt.Errorf("disable echo: %w", err)
	}
	defer restore()

	return readPasswordLine(stdin)
}

func readPasswordLine(input io.Reader) (string, error) {
	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
