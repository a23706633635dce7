package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const unknown = "unknown"

func get() Info {
	info := Info{
		Version:   Version,
		GitCommit: unknown,
		BuildDate: unknown,
		GoVersion: runtime.Version(),
	}
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		applySettings(&info, buildInfo.Settings)
	}
	return info
}

func applySettings(info *Info, settings []debug.BuildSetting) {
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			if len(setting.Value) > 8 {
				info.GitCommit = setting.Value[:8]
			} else {
				info.GitCommit = setting.Value
			}
		case "vcs.time":
			info.BuildDate = setting.Value
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		}
	}
	if info.GitCommit != unknown {
		info.Version += "+" + info.GitCommit
	}
	if info.Dirty {
		info.Version += "-dirty"
	}
}

func (i Info) string() string {
	return fmt.Sprintf("%s (built: %s, %s)", i.Version, i.BuildDate,
		i.GoVersion)
}
