package loadflags

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const systemDir = "/etc/config"

var flagFiles = []string{"flags.default", "flags.extra"}

func loadFlags(flagSet *flag.FlagSet, dirname string) error {
	for _, filename := range flagFiles {
		err := loadFlagsFromFile(flagSet, filepath.Join(dirname, filename))
		if err != nil {
			return err
		}
	}
	return nil
}

// parseLine returns the name and value of a name=value line. Blank lines and
// comments yield an empty name.
func parseLine(line string) (string, string, error) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' || line[0] == ';' {
		return "", "", nil
	}
	name, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", fmt.Errorf("cannot split name from value: %s", line)
	}
	name = strings.TrimSpace(name)
	if strings.ContainsAny(name, " \t") {
		return "", "", fmt.Errorf("name has whitespace: %s", line)
	}
	return name, strings.TrimSpace(value), nil
}

func loadFlagsFromFile(flagSet *flag.FlagSet, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		name, value, err := parseLine(scanner.Text())
		if err != nil {
			return fmt.Errorf("%s:%d: %s", filename, lineNumber, err)
		}
		if name == "" {
			continue
		}
		if err := flagSet.Set(name, value); err != nil {
			return fmt.Errorf("%s:%d: %s: %s", filename, lineNumber, name, err)
		}
	}
	return scanner.Err()
}

// userConfigDir returns $XDG_CONFIG_HOME, or $HOME/.config if unset.
func userConfigDir() string {
	if dirname := os.Getenv("XDG_CONFIG_HOME"); dirname != "" {
		return dirname
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

func loadForCli(progName string) error {
	err := loadFlags(flag.CommandLine, filepath.Join(systemDir, progName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
	}
	return loadFlags(flag.CommandLine, filepath.Join(userConfigDir(), progName))
}
