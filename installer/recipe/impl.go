package recipe

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/redox-os-tools/disk-installer/lib/expand"
	"github.com/redox-os-tools/disk-installer/proto/installer"
	"gopkg.in/yaml.v3"
)

func decode(reader io.Reader) (*Recipe, error) {
	return decodeWithVariables(reader, os.Getenv)
}

func decodeWithVariables(reader io.Reader,
	getenv func(string) string) (*Recipe, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	var recipe Recipe
	if err := decoder.Decode(&recipe); err != nil {
		if err == io.EOF {
			return &recipe, nil
		}
		return nil, err
	}
	recipe.expandPaths(getenv)
	if recipe.FileSystem != "" {
		var kind installer.FileSystemKind
		if err := kind.Set(recipe.FileSystem); err != nil {
			return nil, err
		}
	}
	if recipe.EfiSizeMB != 0 && recipe.EfiSizeMB < installer.MinimumEfiSizeMB {
		return nil, fmt.Errorf("efiSizeMB: %d is less than minimum: %d",
			recipe.EfiSizeMB, installer.MinimumEfiSizeMB)
	}
	return &recipe, nil
}

// expandPaths expands environment variables in the path fields. The other
// path fields may also refer to ${buildRoot}.
func (r *Recipe) expandPaths(getenv func(string) string) {
	r.BuildRoot = expand.Opportunistic(r.BuildRoot, getenv)
	mappingFunc := func(name string) string {
		if name == "buildRoot" {
			return r.BuildRoot
		}
		return getenv(name)
	}
	for _, path := range []*string{
		&r.MountPoints.Efi,
		&r.MountPoints.Root,
		&r.StagingDirectory,
		&r.Tools.RedoxfsDriver,
		&r.Tools.RedoxfsMkfs,
	} {
		*path = expand.Opportunistic(*path, mappingFunc)
	}
	for _, list := range [][]string{
		r.Artifacts.Bootloader,
		r.Artifacts.Initfs,
		r.Artifacts.Kernel,
	} {
		for index, path := range list {
			list[index] = expand.Opportunistic(path, mappingFunc)
		}
	}
}

func load(filename string) (*Recipe, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	recipe, err := decode(file)
	if err != nil {
		return nil, fmt.Errorf("error reading recipe: %s: %s", filename, err)
	}
	return recipe, nil
}

func (r *Recipe) values() map[string]string {
	values := map[string]string{
		"buildRoot":            r.BuildRoot,
		"efiMountPoint":        r.MountPoints.Efi,
		"fileSystem":           r.FileSystem,
		"redoxfsDriver":        r.Tools.RedoxfsDriver,
		"redoxfsMkfs":          r.Tools.RedoxfsMkfs,
		"rootMountPoint":       r.MountPoints.Root,
		"stagingDirectory":     r.StagingDirectory,
		"bootloaderCandidates": strings.Join(r.Artifacts.Bootloader, ","),
		"initfsCandidates":     strings.Join(r.Artifacts.Initfs, ","),
		"kernelCandidates":     strings.Join(r.Artifacts.Kernel, ","),
	}
	if r.EfiSizeMB > 0 {
		values["efiSizeMB"] = strconv.FormatUint(uint64(r.EfiSizeMB), 10)
	}
	return values
}

func (r *Recipe) apply(flagSet *flag.FlagSet) ([]string, error) {
	explicit := make(map[string]struct{})
	flagSet.Visit(func(f *flag.Flag) {
		explicit[f.Name] = struct{}{}
	})
	values := r.values()
	var applied []string
	var err error
	flagSet.VisitAll(func(f *flag.Flag) {
		if err != nil {
			return
		}
		value := values[f.Name]
		if value == "" {
			return
		}
		if _, ok := explicit[f.Name]; ok {
			return
		}
		if e := flagSet.Set(f.Name, value); e != nil {
			err = fmt.Errorf("recipe: %s: %s", f.Name, e)
			return
		}
		applied = append(applied, f.Name)
	})
	return applied, err
}
