package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// confirm asks a yes/no question. Anything but y or yes, including end of
// input, counts as no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	response := strings.ToLower(strings.TrimSpace(line))
	return response == "y" || response == "yes"
}
