package loadflags

import (
	"flag"
)

// LoadForCli will load flag values from /etc/config/<progName>/flags.default
// and flags.extra and then from the same files in <progName> under
// $XDG_CONFIG_HOME (default: $HOME/.config). Missing files are ignored.
// Errors in the system files are only reported as warnings.
func LoadForCli(progName string) error {
	return loadForCli(progName)
}

// LoadFlagsFromFile will load flag values into flagSet from filename, which
// contains name=value lines. Missing files are ignored.
func LoadFlagsFromFile(flagSet *flag.FlagSet, filename string) error {
	return loadFlagsFromFile(flagSet, filename)
}
