package hooks

import (
	"runtime/debug"
	"strings"

	log "github.com/sirupsen/logrus"
)

// contextHook adds the caller's file:line (relative to the repo root) to every entry.
type contextHook struct {
	marker string
}

// NewContextHook trims caller paths at "schedsim/".
func NewContextHook() contextHook {
	return contextHook{marker: "schedsim/"}
}

func (hook contextHook) Levels() []log.Level {
	return log.AllLevels
}

// Fire walks the stack past logrus and hook frames and records the first caller frame.
// debug.Stack() lists a function line followed by its file:line for every frame.
func (hook contextHook) Fire(entry *log.Entry) error {
	lines := strings.Split(string(debug.Stack()), "\n")
	for i := 1; i+1 < len(lines); i += 2 {
		fn := lines[i]
		if strings.Contains(fn, "runtime/debug") || strings.Contains(fn, "sirupsen/logrus") ||
			strings.Contains(fn, "hooks.contextHook") {
			continue
		}
		ctx := strings.Split(strings.TrimSpace(lines[i+1]), hook.marker)
		loc := ctx[len(ctx)-1]
		if idx := strings.Index(loc, " +0x"); idx >= 0 {
			loc = loc[:idx]
		}
		entry.Data["file:line"] = loc
		break
	}
	return nil
}
