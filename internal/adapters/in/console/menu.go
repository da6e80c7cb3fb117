package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	helpCommand = "Help"
	exitCommand = "Exit"
)

// Handler runs one menu command. args is the rest of the command line with
// surrounding spaces removed.
type Handler func(ctx context.Context, args string)

type action struct {
	name        string
	args        string
	description string
	handler     Handler
}

// Menu reads commands line by line and dispatches them to registered handlers.
// Help and Exit are built in.
type Menu struct {
	input   *bufio.Scanner
	output  io.Writer
	actions []action
	byName  map[string]int
}

// NewMenu creates a menu reading from input and writing to output.
func NewMenu(input io.Reader, output io.Writer) *Menu {
	return &Menu{
		input:  bufio.NewScanner(input),
		output: output,
		byName: make(map[string]int),
	}
}

// AddAction registers a command. A second registration under the same name
// replaces the first.
func (m *Menu) AddAction(name, args, description string, handler Handler) {
	a := action{name: name, args: args, description: description, handler: handler}
	if i, ok := m.byName[name]; ok {
		m.actions[i] = a
		return
	}
	m.byName[name] = len(m.actions)
	m.actions = append(m.actions, a)
}

// ReadLine returns the next input line in NFC form. ok is false at end of input.
func (m *Menu) ReadLine() (string, bool) {
	if !m.input.Scan() {
		return "", false
	}
	return norm.NFC.String(m.input.Text()), true
}

// Printf writes to the menu output.
func (m *Menu) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(m.output, format, args...)
}

// Println writes one line to the menu output.
func (m *Menu) Println(line string) {
	_, _ = fmt.Fprintln(m.output, line)
}

// Run processes commands until Exit, end of input or ctx cancellation.
func (m *Menu) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		line, ok := m.ReadLine()
		if !ok {
			return m.input.Err()
		}

		name, args, _ := strings.Cut(strings.TrimSpace(line), " ")
		switch name {
		case "":
			continue
		case exitCommand:
			return nil
		case helpCommand:
			m.printHelp()
			continue
		}

		i, found := m.byName[name]
		if !found {
			m.Println("Invalid command")
			continue
		}
		m.actions[i].handler(ctx, strings.TrimSpace(args))
	}
	return ctx.Err()
}

func (m *Menu) printHelp() {
	for _, a := range m.actions {
		if a.args != "" {
			m.Printf("%s %s: %s\n", a.name, a.args, a.description)
		} else {
			m.Printf("%s: %s\n", a.name, a.description)
		}
	}
	m.Printf("%s: Show instructions\n", helpCommand)
	m.Printf("%s: Exit program\n", exitCommand)
}
