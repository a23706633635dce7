package main

import (
	"errors"
	"fmt"

	"github.com/redox-os-tools/disk-installer/installer/artifacts"
	"github.com/redox-os-tools/disk-installer/lib/log"
)

func fetchArtifactsSubcommand(args []string, logger log.DebugLogger) error {
	if err := fetchArtifactsCmd(logger); err != nil {
		return fmt.Errorf("error fetching artifacts: %s", err)
	}
	return nil
}

func fetchArtifactsCmd(logger log.DebugLogger) error {
	if *tftpServerHostname == "" {
		return errors.New("no -tftpServerHostname specified")
	}
	filenames, err := artifacts.Fetch(*tftpServerHostname, *stagingDirectory,
		logger)
	if err != nil {
		return err
	}
	for _, filename := range filenames {
		fmt.Println(filename)
	}
	return nil
}
