package calview_test

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hadern04/orgbot/internal/api"
	"github.com/Hadern04/orgbot/internal/keys"
	"github.com/Hadern04/orgbot/internal/model"
	"github.com/Hadern04/orgbot/internal/ui/calview"
	"github.com/Hadern04/orgbot/tests/testutil"
)

const owner = "owner-1"

// pump feeds command results back into the model until the chain goes
// quiet, the way the runtime does.
func pump(m calview.Model, cmd tea.Cmd) calview.Model {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		m, cmd = m.Update(msg)
	}
	return m
}

func TestStartupLoadPopulatesAgenda(t *testing.T) {
	srv := testutil.NewServer(t)
	tasks := api.NewTasks(srv.Client())
	ctx := context.Background()

	_, err := tasks.Create(ctx, model.ScheduledTask{
		Title:        "Cake tasting",
		Start:        time.Now().Add(2 * time.Hour),
		Notification: model.NotifyNone,
		OwnerID:      owner,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	m := calview.New(tasks, owner, keys.DefaultKeyMap(), "agenda", 80, 24)
	m = pump(m, m.Init())

	out := m.View()
	if !strings.Contains(out, "Cake tasting") {
		t.Fatalf("startup snapshot not rendered:\n%s", out)
	}
	if strings.Contains(out, "No scheduled tasks") {
		t.Fatalf("empty agenda shown despite server data:\n%s", out)
	}
}
