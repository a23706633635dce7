// Package version reports the version of the running programme, combining a
// release number set at link time with the VCS stamp of the build.
package version

// Version may be set at link time with:
// -ldflags "-X github.com/redox-os-tools/disk-installer/lib/version.Version=X"
var Version = "0.1.0"

type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Dirty     bool   `json:"dirty"`
}

// Get returns the version of the running programme.
func Get() Info {
	return get()
}

func (i Info) String() string {
	return i.string()
}
