package conversation

import (
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/nocodecreative/n8nchat/clients/webhook"
	"github.com/nocodecreative/n8nchat/internal/version"
)

// MetadataSource describes where the client runs.
type MetadataSource struct {
	PageURL   string
	PageTitle string
	Referrer  string
	Terminal  *os.File // sized for screen/viewport; nil or non-TTY reports 0x0
	Now       func() time.Time
}

// Collect builds the request metadata at call time.
func (s MetadataSource) Collect() webhook.Metadata {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	t := now()

	width, height := terminalSize(s.Terminal)

	return webhook.Metadata{
		UserID:         "",
		PageURL:        s.PageURL,
		PageTitle:      s.PageTitle,
		UserAgent:      version.UserAgent(),
		Referrer:       s.Referrer,
		ScreenWidth:    width,
		ScreenHeight:   height,
		ViewportWidth:  width,
		ViewportHeight: height,
		Language:       language(),
		Timezone:       timezone(t),
		Timestamp:      t.UTC().Format("2006-01-02T15:04:05.000Z"),
		Date:           t.UTC().Format("2006-01-02"),
	}
}

func terminalSize(f *os.File) (int, int) {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return 0, 0
	}
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0
	}
	return w, h
}

// language maps POSIX locale variables ("en_US.UTF-8") to a BCP 47 tag ("en-US").
func language() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return "en-US"
}

func timezone(t time.Time) string {
	if name := t.Location().String(); name != "Local" && name != "" {
		return name
	}
	if tz := os.Getenv("TZ"); tz != "" {
		return strings.TrimPrefix(tz, ":")
	}
	name, _ := t.Zone()
	return name
}
