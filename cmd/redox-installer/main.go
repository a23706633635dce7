package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"time"

	"github.com/Cloud-Foundations/tricorder/go/tricorder"
	"github.com/redox-os-tools/disk-installer/installer/artifacts"
	"github.com/redox-os-tools/disk-installer/installer/mounter"
	"github.com/redox-os-tools/disk-installer/installer/provision"
	"github.com/redox-os-tools/disk-installer/installer/recipe"
	"github.com/redox-os-tools/disk-installer/lib/constants"
	"github.com/redox-os-tools/disk-installer/lib/flags/commands"
	"github.com/redox-os-tools/disk-installer/lib/flags/loadflags"
	"github.com/redox-os-tools/disk-installer/lib/flagutil"
	"github.com/redox-os-tools/disk-installer/lib/format"
	"github.com/redox-os-tools/disk-installer/lib/log"
	"github.com/redox-os-tools/disk-installer/lib/log/debuglogger"
	"github.com/redox-os-tools/disk-installer/lib/log/filelogger"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

var (
	buildRoot = flag.String("buildRoot", constants.DefaultBuildRoot,
		"Root of the Redox build tree")
	confirm = flag.String("confirm", "",
		"Set to YES to confirm erasing the disk without prompting")
	driverReadyTimeout = flag.Duration("driverReadyTimeout",
		mounter.DefaultReadyTimeout,
		"Maximum time to wait for the RedoxFS driver to serve the mount")
	dryRun = flag.Bool("dryRun", ifUnprivileged(),
		"If true, do not make changes")
	efiMountPoint = flag.String("efiMountPoint",
		constants.DefaultEfiMountPoint, "Mount point for the EFI partition")
	efiSizeMB = flag.Uint("efiSizeMB", installer.DefaultEfiSizeMB,
		"Size of the EFI System Partition in MB")
	logDebugLevel = flag.Int("logDebugLevel", -1, "Debug log level")
	logFile       = flag.String("logFile", "",
		"If set, also log to this file and archive it in the new root")
	partitionSettleTimeout = flag.Duration("partitionSettleTimeout",
		provision.DefaultSettleTimeout,
		"Maximum time to wait for partition device nodes to appear")
	portNum = flag.Uint("portNum", 0,
		"Port number to serve metrics and status on (0: disabled)")
	recipeFile = flag.String("recipe", "",
		"Optional YAML installation recipe supplying flag defaults")
	redoxfsDriver = flag.String("redoxfsDriver",
		constants.DefaultRedoxfsDriver, "Pathname of the RedoxFS driver")
	redoxfsMkfs = flag.String("redoxfsMkfs", constants.DefaultRedoxfsMkfs,
		"Pathname of the RedoxFS formatter")
	rootMountPoint = flag.String("rootMountPoint",
		constants.DefaultRootMountPoint, "Mount point for the root partition")
	stagingDirectory = flag.String("stagingDirectory",
		constants.DefaultStagingDir,
		"Directory for fetched artifacts, searched before build outputs")
	sysfsDirectory = flag.String("sysfsDirectory", "/sys",
		"Directory where sysfs is mounted")
	tftpServerHostname = flag.String("tftpServerHostname", "",
		"Hostname of TFTP server to fetch artifacts from")

	bootloaderCandidates flagutil.StringList
	fileSystem           installer.FileSystemKind
	initfsCandidates     flagutil.StringList
	kernelCandidates     flagutil.StringList
	minimumDiskSize      = flagutil.Size(constants.MinimumDiskSize)
)

func init() {
	flag.Var(&bootloaderCandidates, "bootloaderCandidates",
		"Comma separated bootloader locations, relative to buildRoot")
	flag.Var(&fileSystem, "fileSystem",
		"File-system for the root partition (redoxfs or ext4)")
	flag.Var(&initfsCandidates, "initfsCandidates",
		"Comma separated initfs locations, relative to buildRoot")
	flag.Var(&kernelCandidates, "kernelCandidates",
		"Comma separated kernel locations, relative to buildRoot")
	flag.Var(&minimumDiskSize, "minimumDiskSize",
		"Minimum size of the target disk")
}

func printUsage() {
	w := flag.CommandLine.Output()
	fmt.Fprintln(w,
		"Usage: redox-installer [flags...] command [args...]")
	fmt.Fprintln(w, "Common flags:")
	flag.PrintDefaults()
	fmt.Fprintln(w, "Commands:")
	commands.PrintCommands(w, subcommands)
}

var subcommands = []commands.Command{
	{"fetch-artifacts", "", 0, 0, fetchArtifactsSubcommand},
	{"install", "[disk]", 0, 1, installSubcommand},
	{"list-disks", "", 0, 0, listDisksSubcommand},
	{"show-layout", "disk", 1, 1, showLayoutSubcommand},
	{"validate", "[disk]", 0, 1, validateSubcommand},
	{"version", "", 0, 0, versionSubcommand},
}

type logFlusher interface {
	Filename() string
	Flush() error
}

var logArchive logFlusher

func applyRecipe(logger log.Logger) error {
	if *recipeFile == "" {
		return nil
	}
	r, err := recipe.Load(*recipeFile)
	if err != nil {
		return err
	}
	applied, err := r.Apply(flag.CommandLine)
	if err != nil {
		return err
	}
	if len(applied) > 0 {
		logger.Printf("recipe: %s: applied: %v\n", *recipeFile, applied)
	}
	return nil
}

func candidates() artifacts.Candidates {
	return artifacts.Candidates{
		Bootloader: bootloaderCandidates,
		Kernel:     kernelCandidates,
		Initfs:     initfsCandidates,
	}
}

func createLogger() (log.DebugLogger, logFlusher, error) {
	if *logFile == "" {
		logger := debuglogger.New(stdlog.New(os.Stderr, "", 0))
		logger.SetLevel(int16(*logDebugLevel))
		return logger, nil, nil
	}
	logger, err := filelogger.New(*logFile, filelogger.Options{
		AlsoLogToStderr: true,
		Flags:           stdlog.LstdFlags,
		DebugLevel:      int16(*logDebugLevel),
	})
	if err != nil {
		return nil, nil, err
	}
	return logger, logger, nil
}

func ifUnprivileged() bool {
	if os.Geteuid() != 0 {
		return true
	}
	return false
}

func newResolver() *artifacts.Resolver {
	return artifacts.NewResolver(*buildRoot, *stagingDirectory, candidates())
}

func isSet(name string) bool {
	var found bool
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func main() {
	if err := loadflags.LoadForCli(constants.ProgramName); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	flag.Usage = printUsage
	flag.Parse()
	tricorder.RegisterFlags()
	logger, flusher, err := createLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logArchive = flusher
	if err := applyRecipe(logger); err != nil {
		logger.Println(err)
		os.Exit(1)
	}
	if *portNum > 0 {
		if err := startHttpServer(*portNum); err != nil {
			logger.Printf("cannot start HTTP server: %s\n", err)
		}
	}
	startTime := time.Now()
	exitCode := commands.RunCommands(subcommands, printUsage, logger)
	logger.Debugf(0, "finished in %s\n",
		format.Duration(time.Since(startTime)))
	if flusher != nil {
		flusher.Flush()
	}
	os.Exit(exitCode)
}
