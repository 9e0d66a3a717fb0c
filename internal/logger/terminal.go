package logger

import "golang.org/x/term"

// isTerminal reports whether fd refers to a terminal. It decides whether
// the text handler emits ANSI colors.
func isTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}
