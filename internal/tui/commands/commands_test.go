package commands

import (
	"net/http"
	"testing"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/form"
	"github.com/taskdeck/taskdeck/internal/testutil"
	"github.com/taskdeck/taskdeck/internal/tui"
)

func seeded(t *testing.T) (*testutil.FakeAPI, *api.Client) {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	fake.AddAccount(testutil.Ada, testutil.AdaPassword, "T1")
	fake.SeedTasks(testutil.SampleTasks()...)
	return fake, fake.Client()
}

func TestLoginCmdCarriesGeneration(t *testing.T) {
	_, client := seeded(t)

	msg := LoginCmd(client, 7, form.Login{Email: "a@b.com", Password: testutil.AdaPassword})()
	res, ok := msg.(tui.LoginResultMsg)
	if !ok {
		t.Fatalf("got %T, want LoginResultMsg", msg)
	}
	if res.Gen != 7 {
		t.Errorf("Gen = %d, want 7", res.Gen)
	}
	if res.Err != nil {
		t.Fatalf("Err = %v", res.Err)
	}
	if res.Result.Token != "T1" {
		t.Errorf("Token = %q, want T1", res.Result.Token)
	}
	if res.Email != "a@b.com" {
		t.Errorf("Email = %q", res.Email)
	}
}

func TestSignupCmdReportsServerMessage(t *testing.T) {
	_, client := seeded(t)

	msg := SignupCmd(client, 1, form.Signup{Name: "Ada", Email: "a@b.com", Password: "secret1"})()
	res := msg.(tui.SignupResultMsg)
	if res.Err == nil {
		t.Fatal("expected duplicate signup to fail")
	}
	if got := api.Message(res.Err); got != "User already exists" {
		t.Errorf("message = %q", got)
	}
}

func TestLoadDashboardFetchesBoth(t *testing.T) {
	fake, client := seeded(t)

	msg := LoadDashboardCmd(client, 3, "T1")().(tui.DashboardLoadedMsg)
	if msg.Err != nil {
		t.Fatalf("Err = %v", msg.Err)
	}
	if msg.User.Name != "Ada" {
		t.Errorf("User = %+v", msg.User)
	}
	if len(msg.Tasks) != 3 {
		t.Errorf("got %d tasks, want 3", len(msg.Tasks))
	}
	if calls := fake.Calls(); len(calls) != 2 {
		t.Errorf("calls = %v, want profile and list", calls)
	}
}

func TestLoadDashboardPrefersUnauthorized(t *testing.T) {
	fake, client := seeded(t)
	fake.Fail(testutil.RouteListTasks, http.StatusInternalServerError, "boom")
	fake.Fail(testutil.RouteProfile, http.StatusUnauthorized, "jwt expired")

	msg := LoadDashboardCmd(client, 1, "T1")().(tui.DashboardLoadedMsg)
	if !api.IsUnauthorized(msg.Err) {
		t.Errorf("Err = %v, want unauthorized", msg.Err)
	}
	if msg.Tasks != nil {
		t.Errorf("Tasks should be empty on failure, got %v", msg.Tasks)
	}
}

func TestLoadDashboardFailsIfListFails(t *testing.T) {
	fake, client := seeded(t)
	fake.Fail(testutil.RouteListTasks, http.StatusInternalServerError, "")

	msg := LoadDashboardCmd(client, 1, "T1")().(tui.DashboardLoadedMsg)
	if msg.Err == nil {
		t.Fatal("expected error")
	}
	if api.IsUnauthorized(msg.Err) {
		t.Errorf("500 should not be classified unauthorized: %v", msg.Err)
	}
}

func TestTaskCommands(t *testing.T) {
	fake, client := seeded(t)

	created := CreateTaskCmd(client, 2, "T1", api.TaskInput{Title: "New"})().(tui.TaskCreatedMsg)
	if created.Err != nil || created.Task.Title != "New" || created.Gen != 2 {
		t.Fatalf("create = %+v", created)
	}

	updated := UpdateTaskCmd(client, 2, "T1", "t1", api.TaskInput{Title: "X"})().(tui.TaskUpdatedMsg)
	if updated.Err != nil || updated.Task.Title != "X" || updated.ID != "t1" {
		t.Fatalf("update = %+v", updated)
	}

	loaded := LoadTaskCmd(client, 2, "T1", "t1")().(tui.TaskLoadedMsg)
	if loaded.Err != nil || loaded.Task.Title != "X" {
		t.Fatalf("load = %+v", loaded)
	}

	deleted := DeleteTaskCmd(client, 2, "T1", "t1", "X")().(tui.TaskDeletedMsg)
	if deleted.Err != nil || deleted.ID != "t1" || deleted.Title != "X" {
		t.Fatalf("delete = %+v", deleted)
	}
	if n := len(fake.Tasks()); n != 3 {
		t.Errorf("server has %d tasks, want 3 (one created, one deleted)", n)
	}
}

func TestUpdateFailureKeepsID(t *testing.T) {
	fake, client := seeded(t)
	fake.Fail(testutil.RouteUpdateTask, http.StatusBadRequest, "Title too long")

	msg := UpdateTaskCmd(client, 1, "T1", "t2", api.TaskInput{Title: "Y"})().(tui.TaskUpdatedMsg)
	if msg.ID != "t2" {
		t.Errorf("ID = %q, want t2", msg.ID)
	}
	if got := api.Message(msg.Err); got != "Title too long" {
		t.Errorf("message = %q", got)
	}
}

func TestClearNoticeCmdZeroIsSticky(t *testing.T) {
	if cmd := ClearNoticeCmd(0, 1); cmd != nil {
		t.Error("zero duration should not schedule a clear")
	}
}
