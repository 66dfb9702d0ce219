// Package action implements the callback payload protocol: a newline
// separated list of lines where every line starting with '#' is a command
// "#<name>[ <arg>...]". Lines without the sentinel are ignored.
//
// Arguments are split on single spaces and cannot themselves contain spaces.
package action

import (
	"strings"
)

// Sentinel marks a payload line as a command.
const Sentinel = '#'

// MaxCallbackData is the platform's limit on inline button callback data, in bytes.
const MaxCallbackData = 64

// Command is one parsed payload line.
type Command struct {
	Name Name
	Args []string
}

// New builds a command.
func New(name Name, args ...string) Command {
	return Command{Name: name, Args: args}
}

// String renders the command as a single payload line.
func (c Command) String() string {
	var b strings.Builder
	b.WriteByte(Sentinel)
	b.WriteString(string(c.Name))
	for _, arg := range c.Args {
		b.WriteByte(' ')
		b.WriteString(arg)
	}
	return b.String()
}

// Encode joins commands into one payload, executed in the given order.
func Encode(cmds ...Command) string {
	lines := make([]string, len(cmds))
	for i, c := range cmds {
		lines[i] = c.String()
	}
	return strings.Join(lines, "\n")
}

// Parse decodes every command line of raw, in order. Empty input yields nil.
func Parse(raw string) []Command {
	if raw == "" {
		return nil
	}

	var cmds []Command
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if len(line) == 0 || line[0] != Sentinel {
			continue
		}

		tokens := strings.Split(line[1:], " ")
		cmds = append(cmds, Command{
			Name: Name(tokens[0]),
			Args: tokens[1:],
		})
	}
	return cmds
}

// Fits reports whether payload can be used as button callback data.
func Fits(payload string) bool {
	return len(payload) <= MaxCallbackData
}
