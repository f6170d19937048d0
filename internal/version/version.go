// Package version holds build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Version is overridden at build time with -ldflags "-X ...version.Version=v1.2.3".
var Version = "dev"

// UserAgent identifies this client to the webhook.
func UserAgent() string {
	return fmt.Sprintf("n8nchat/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}
