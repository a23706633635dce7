package commands

import (
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/redox-os-tools/disk-installer/lib/log"
	"github.com/redox-os-tools/disk-installer/lib/text"
)

func isSorted(commands []Command) bool {
	return sort.SliceIsSorted(commands, func(i, j int) bool {
		return commands[i].Command < commands[j].Command
	})
}

func printCommands(writer io.Writer, commands []Command) {
	sorted := isSorted(commands)
	if !sorted {
		fmt.Fprintln(writer, "NOTE: COMMANDS ARE NOT SORTED!")
	}
	var columns text.ColumnCollector
	for _, command := range commands {
		if command.CmdFunc == nil {
			continue
		}
		if command.Args == "" {
			columns.AddFields(" ", command.Command)
		} else {
			columns.AddFields(" ", command.Command, command.Args)
		}
	}
	columns.WriteLeftAligned(writer)
	if !sorted {
		fmt.Fprintln(writer, "NOTE: COMMANDS ARE NOT SORTED!")
	}
}

// findCommand returns the runnable command named name, or nil.
func findCommand(commands []Command, name string) *Command {
	for index := range commands {
		command := &commands[index]
		if command.CmdFunc != nil && command.Command == name {
			return command
		}
	}
	return nil
}

func (command *Command) acceptsArgs(numArgs int) bool {
	if numArgs < command.MinArgs {
		return false
	}
	return command.MaxArgs < 0 || numArgs <= command.MaxArgs
}

func runCommands(commands []Command, args []string, printUsage func(),
	logger log.DebugLogger) int {
	if len(args) < 1 {
		printUsage()
		return 2
	}
	command := findCommand(commands, args[0])
	if command == nil {
		fmt.Fprintf(flag.CommandLine.Output(), "unknown command: %s\n",
			args[0])
		printUsage()
		return 2
	}
	if !command.acceptsArgs(len(args) - 1) {
		printUsage()
		return 2
	}
	if err := command.CmdFunc(args[1:], logger); err != nil {
		fmt.Fprintln(flag.CommandLine.Output(), err)
		return 1
	}
	return 0
}
