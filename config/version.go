package config

import (
	"fmt"
	"runtime/debug"
)

// Go toolchain version, main module path and Git information from build metadata.
type VersionInfo struct {
	GoVersion string `json:"go"`
	Package   string `json:"package"`
	Revision  string `json:"revision"`
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("%s (%s) %s", v.Package, v.Revision, v.GoVersion)
}

var Version = readVersion()

func readVersion() VersionInfo {
	v := VersionInfo{Revision: "devel"}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	v.GoVersion, v.Package = info.GoVersion, info.Path

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	if rev := settings["vcs.revision"]; rev != "" {
		v.Revision = fmt.Sprintf("%.7s", rev)
		if settings["vcs.modified"] == "true" {
			v.Revision += "-dirty"
		}
	}
	return v
}
