/*
Package recipe reads declarative installation recipes.

A recipe is a YAML document which supplies defaults for the command-line
flags. Flags which were set explicitly on the command line take precedence.
Unknown fields are rejected. Environment variables in path fields are
expanded and the other path fields may refer to ${buildRoot}. References to
unset variables are left unexpanded.

	efiSizeMB: 512
	fileSystem: redoxfs
	buildRoot: /home/user/redox
	tools:
	  redoxfsMkfs: /home/user/redox/redoxfs/target/release/redoxfs-mkfs
	  redoxfsDriver: /home/user/redox/redoxfs/target/release/redoxfs
	artifacts:
	  kernel:
	    - build/x86_64/desktop/kernel
	mountPoints:
	  efi: /tmp/redox_install_efi
	  root: /tmp/redox_install_root
*/
package recipe

import (
	"flag"
	"io"

	"github.com/redox-os-tools/disk-installer/installer/artifacts"
)

type Recipe struct {
	EfiSizeMB        uint                 `yaml:"efiSizeMB"`
	FileSystem       string               `yaml:"fileSystem"`
	BuildRoot        string               `yaml:"buildRoot"`
	StagingDirectory string               `yaml:"stagingDirectory"`
	Tools            Tools                `yaml:"tools"`
	Artifacts        artifacts.Candidates `yaml:"artifacts"`
	MountPoints      MountPoints          `yaml:"mountPoints"`
}

type MountPoints struct {
	Efi  string `yaml:"efi"`
	Root string `yaml:"root"`
}

type Tools struct {
	RedoxfsMkfs   string `yaml:"redoxfsMkfs"`
	RedoxfsDriver string `yaml:"redoxfsDriver"`
}

// Decode reads a Recipe from reader.
func Decode(reader io.Reader) (*Recipe, error) {
	return decode(reader)
}

// Load reads a Recipe from the file filename.
func Load(filename string) (*Recipe, error) {
	return load(filename)
}

// Apply sets the flags in flagSet which correspond to non-empty fields of the
// Recipe, unless they were already set explicitly. The names of the flags set
// are returned.
func (r *Recipe) Apply(flagSet *flag.FlagSet) ([]string, error) {
	return r.apply(flagSet)
}
