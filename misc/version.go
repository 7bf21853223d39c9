// Package misc keeps build related information.
package misc

// Set at link time with -ldflags "-X hdocx/misc.version=...".
var (
	version = "dev"
	gitHash = "unknown"
	appName = "hdocx"
)

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}

func GetAppName() string {
	return appName
}
