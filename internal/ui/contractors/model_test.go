package contractors_test

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hadern04/orgbot/internal/api"
	"github.com/Hadern04/orgbot/internal/guard"
	"github.com/Hadern04/orgbot/internal/keys"
	"github.com/Hadern04/orgbot/internal/model"
	"github.com/Hadern04/orgbot/internal/ui/contractors"
	"github.com/Hadern04/orgbot/tests/testutil"
)

const owner = "owner-1"

// pump feeds command results back into the model until the chain goes
// quiet, the way the runtime does.
func pump(m contractors.Model, cmd tea.Cmd) contractors.Model {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		m, cmd = m.Update(msg)
	}
	return m
}

func TestSnapshotOrderKeptUntilSortToggled(t *testing.T) {
	srv := testutil.NewServer(t)
	client := srv.Client()
	contractorsAPI := api.NewContractors(client)
	categoriesAPI := api.NewCategories(client)
	g := guard.NewCategoryGuard(contractorsAPI, categoriesAPI, owner)
	ctx := context.Background()

	mk := func(name string) {
		t.Helper()
		_, err := contractorsAPI.Create(ctx, model.Contractor{Name: name, OwnerID: owner})
		if err != nil {
			t.Fatalf("Create(%s): %v", name, err)
		}
	}
	mk("Zane Florists")
	mk("Anna Catering")

	m := contractors.New(contractorsAPI, categoriesAPI, g, owner, keys.DefaultKeyMap(), 80, 24)
	m = pump(m, m.Init())

	out := m.View()
	zane := strings.Index(out, "Zane Florists")
	anna := strings.Index(out, "Anna Catering")
	if zane < 0 || anna < 0 {
		t.Fatalf("startup snapshot not rendered:\n%s", out)
	}
	if zane > anna {
		t.Fatalf("server order not kept before sorting:\n%s", out)
	}

	var cmd tea.Cmd
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = pump(m, cmd)

	out = m.View()
	if !strings.Contains(out, "sort: name") {
		t.Fatalf("sort toggle not reflected in the filter bar:\n%s", out)
	}
	zane = strings.Index(out, "Zane Florists")
	anna = strings.Index(out, "Anna Catering")
	if anna > zane {
		t.Fatalf("name sort not applied:\n%s", out)
	}

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = pump(m, cmd)
	if out := m.View(); strings.Contains(out, "sort: name") {
		t.Fatalf("sort toggle should cycle back to snapshot order:\n%s", out)
	}
}
