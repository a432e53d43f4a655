package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/saati/internal/domain"
)

// resolveID maps an exact id or a unique id prefix to the full id.
func resolveID(kind, arg string, ids []string) (string, error) {
	var matches []string
	for _, id := range ids {
		if id == arg {
			return id, nil
		}
		if strings.HasPrefix(id, arg) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", domain.NotFound(kind, arg)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%s prefix %q is ambiguous (%d matches)", kind, arg, len(matches))
}

func (app *App) resolveLogID(arg string) (string, error) {
	logs := app.Session.Logs.List()
	ids := make([]string, len(logs))
	for i, e := range logs {
		ids[i] = e.ID
	}
	return resolveID("log entry", arg, ids)
}

func (app *App) resolveTaskID(arg string) (string, error) {
	tasks := app.Session.Tasks.List()
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return resolveID("task", arg, ids)
}

// parseClock reads "15:04" as a time on date, or a full timestamp.
func parseClock(date, s string, loc *time.Location) (time.Time, error) {
	if len(s) <= 5 && strings.Contains(s, ":") {
		if len(s) == 4 {
			s = "0" + s
		}
		s = date + "T" + s
	}
	return domain.ParseTimestamp(s, loc)
}

func checkDate(flag, s string) error {
	if _, err := domain.ParseDate(s); err != nil {
		return fmt.Errorf("--%s: %w", flag, err)
	}
	return nil
}

func monthStart(day string) string {
	return day[:8] + "01"
}
