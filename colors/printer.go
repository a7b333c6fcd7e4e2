package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// wrap surrounds s with c and a reset
func (c COLOR) wrap(s string) string {
	return string(c) + s + string(RESET)
}

// Printf writes to stdout; debug traces use it
func (c COLOR) Printf(format string, args ...any) {
	c.Fprintf(os.Stdout, format, args...)
}

func (c COLOR) Println(args ...any) {
	c.Fprintln(os.Stdout, args...)
}

func (c COLOR) Fprintf(w io.Writer, format string, args ...any) {
	io.WriteString(w, c.Sprintf(format, args...))
}

// Fprintln colors the text but leaves the newline outside the escape
// sequence so line-oriented readers see clean line ends.
func (c COLOR) Fprintln(w io.Writer, args ...any) {
	line := fmt.Sprintln(args...)
	io.WriteString(w, c.wrap(strings.TrimSuffix(line, "\n"))+"\n")
}

func (c COLOR) Fprint(w io.Writer, args ...any) {
	io.WriteString(w, c.Sprint(args...))
}

func (c COLOR) Sprintf(format string, args ...any) string {
	return c.wrap(fmt.Sprintf(format, args...))
}

func (c COLOR) Sprint(args ...any) string {
	return c.wrap(fmt.Sprint(args...))
}

// StripANSI removes CSI escape sequences (ESC '[' ... final letter) from s.
func StripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\033' || i+1 >= len(s) || s[i+1] != '[' {
			b.WriteByte(s[i])
			continue
		}
		i += 2
		for i < len(s) && !isFinalByte(s[i]) {
			i++
		}
	}
	return b.String()
}

func isFinalByte(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}
