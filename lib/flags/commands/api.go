package commands

import (
	"flag"
	"io"

	"github.com/redox-os-tools/disk-installer/lib/log"
)

type CommandFunc func([]string, log.DebugLogger) error

type Command struct {
	Command string
	Args    string
	MinArgs int
	MaxArgs int
	CmdFunc CommandFunc
}

func PrintCommands(writer io.Writer, commands []Command) {
	printCommands(writer, commands)
}

// RunCommands will run the command named by the first non-flag argument and
// returns the exit code for the process.
func RunCommands(commands []Command, printUsage func(),
	logger log.DebugLogger) int {
	return runCommands(commands, flag.Args(), printUsage, logger)
}

// RunCommandsWithArgs is similar to RunCommands except that args is used
// instead of the non-flag arguments of the command line.
func RunCommandsWithArgs(commands []Command, args []string, printUsage func(),
	logger log.DebugLogger) int {
	return runCommands(commands, args, printUsage, logger)
}
