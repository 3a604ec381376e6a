package cli

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/taskdeck/taskdeck/internal/config"
	actlog "github.com/taskdeck/taskdeck/internal/log"
	"github.com/taskdeck/taskdeck/internal/session"
	"github.com/taskdeck/taskdeck/internal/testutil"
)

type testEnv struct {
	*env
	fake *testutil.FakeAPI
	buf  *bytes.Buffer
}

// newTestEnv builds an env around a seeded FakeAPI, a memory session
// holding token (empty for none) and input as stdin.
func newTestEnv(t *testing.T, token, input string) *testEnv {
	t.Helper()

	fake := testutil.NewFakeAPI(t)
	fake.AddAccount(testutil.Ada, testutil.AdaPassword, "T1")
	fake.SeedTasks(testutil.SampleTasks()...)

	sess := session.New(session.NewMemoryStore(), zap.NewNop())
	if token != "" {
		if err := sess.Set(token); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	activity, err := actlog.NewLogger(filepath.Join(t.TempDir(), "activity.jsonl"))
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	buf := &bytes.Buffer{}
	return &testEnv{
		env: &env{
			logger:   zap.NewNop(),
			session:  sess,
			client:   fake.Client(),
			activity: activity,
			out:      buf,
			in:       strings.NewReader(input),
		},
		fake: fake,
		buf:  buf,
	}
}

func (te *testEnv) events(t *testing.T) []string {
	t.Helper()
	evs, err := te.activity.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	var names []string
	for _, ev := range evs {
		names = append(names, ev.Event)
	}
	return names
}

func (te *testEnv) stored(t *testing.T) string {
	t.Helper()
	tok, _ := te.session.Get()
	return tok
}

// ============================================================================
// Auth commands
// ============================================================================

func TestLoginStoresToken(t *testing.T) {
	te := newTestEnv(t, "", "")

	if err := runLogin(te.env, "a@b.com", testutil.AdaPassword); err != nil {
		t.Fatalf("runLogin: %v", err)
	}
	if got := te.stored(t); got != "T1" {
		t.Errorf("token = %q, want T1", got)
	}
	if !strings.Contains(te.buf.String(), "Logged in as a@b.com") {
		t.Errorf("output = %q", te.buf.String())
	}
	if evs := te.events(t); len(evs) != 1 || evs[0] != actlog.EventLoggedIn {
		t.Errorf("events = %v", evs)
	}
}

func TestLoginPromptsForMissingValues(t *testing.T) {
	te := newTestEnv(t, "", "a@b.com\nsecret1\n")

	if err := runLogin(te.env, "", ""); err != nil {
		t.Fatalf("runLogin: %v", err)
	}
	if got := te.stored(t); got != "T1" {
		t.Errorf("token = %q, want T1", got)
	}
	if !strings.Contains(te.buf.String(), "Email: ") {
		t.Errorf("expected an email prompt, got %q", te.buf.String())
	}
}

func TestLoginRejectsInvalidInputWithoutCalling(t *testing.T) {
	te := newTestEnv(t, "", "")

	err := runLogin(te.env, "not-an-email", "123")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(te.fake.Calls()) != 0 {
		t.Errorf("calls = %v, want none", te.fake.Calls())
	}
}

func TestLoginReportsServerMessage(t *testing.T) {
	te := newTestEnv(t, "", "")

	err := runLogin(te.env, "a@b.com", "wrongpass")
	if err == nil {
		t.Fatal("expected login to fail")
	}
	if te.session.Authenticated() {
		t.Error("session should stay empty")
	}
}

func TestSignupStoresToken(t *testing.T) {
	te := newTestEnv(t, "", "")

	if err := runSignup(te.env, "Grace", "g@h.com", "hopper1"); err != nil {
		t.Fatalf("runSignup: %v", err)
	}
	if !te.session.Authenticated() {
		t.Error("expected a stored token")
	}
	if evs := te.events(t); len(evs) != 1 || evs[0] != actlog.EventSignedUp {
		t.Errorf("events = %v", evs)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	te := newTestEnv(t, "", "")

	err := runSignup(te.env, "Ada", "a@b.com", "secret1")
	if err == nil || err.Error() != "User already exists" {
		t.Errorf("err = %v, want server message", err)
	}
}

func TestLogoutClearsWithoutCalling(t *testing.T) {
	te := newTestEnv(t, "T1", "")

	if err := runLogout(te.env); err != nil {
		t.Fatalf("runLogout: %v", err)
	}
	if te.session.Authenticated() {
		t.Error("session should be cleared")
	}
	if len(te.fake.Calls()) != 0 {
		t.Errorf("calls = %v, want none", te.fake.Calls())
	}
}

func TestWhoami(t *testing.T) {
	te := newTestEnv(t, "T1", "")

	if err := runWhoami(te.env); err != nil {
		t.Fatalf("runWhoami: %v", err)
	}
	if got := te.buf.String(); got != "Ada <a@b.com>\n" {
		t.Errorf("output = %q", got)
	}
	if h := te.fake.Header(0, "Authorization"); h != "Bearer T1" {
		t.Errorf("Authorization = %q", h)
	}
}

func TestWhoamiNotLoggedIn(t *testing.T) {
	te := newTestEnv(t, "", "")

	if err := runWhoami(te.env); !errors.Is(err, errNotLoggedIn) {
		t.Errorf("err = %v, want errNotLoggedIn", err)
	}
	if len(te.fake.Calls()) != 0 {
		t.Errorf("calls = %v, want none", te.fake.Calls())
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	te := newTestEnv(t, "T1", "")
	te.fake.Fail(testutil.RouteProfile, http.StatusUnauthorized, "jwt expired")

	if err := runWhoami(te.env); !errors.Is(err, errSessionExpired) {
		t.Fatalf("err = %v, want errSessionExpired", err)
	}
	if te.session.Authenticated() {
		t.Error("session should be cleared")
	}
	if evs := te.events(t); len(evs) != 1 || evs[0] != actlog.EventSessionRevoked {
		t.Errorf("events = %v", evs)
	}
}

// ============================================================================
// Task commands
// ============================================================================

func TestTasksList(t *testing.T) {
	te := newTestEnv(t, "T1", "")

	if err := runTasksList(te.env); err != nil {
		t.Fatalf("runTasksList: %v", err)
	}
	out := te.buf.String()
	for _, want := range []string{"Write report", "Review PR", "Plan sprint", "3 task(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTasksListEmpty(t *testing.T) {
	te := newTestEnv(t, "T1", "")
	for _, task := range te.fake.Tasks() {
		if err := te.client.DeleteTask("T1", task.ID); err != nil {
			t.Fatalf("DeleteTask: %v", err)
		}
	}

	if err := runTasksList(te.env); err != nil {
		t.Fatalf("runTasksList: %v", err)
	}
	if !strings.Contains(te.buf.String(), "No tasks found") {
		t.Errorf("output = %q", te.buf.String())
	}
}

func TestTasksListServerError(t *testing.T) {
	te := newTestEnv(t, "T1", "")
	te.fake.Fail(testutil.RouteListTasks, http.StatusInternalServerError, "boom")

	err := runTasksList(te.env)
	if err == nil || err.Error() != "listing tasks: boom" {
		t.Errorf("err = %v", err)
	}
	if !te.session.Authenticated() {
		t.Error("a server error should not clear the session")
	}
}

func TestTasksAddTrims(t *testing.T) {
	te := newTestEnv(t, "T1", "")

	if err := runTasksAdd(te.env, "  Buy milk  ", " 2L "); err != nil {
		t.Fatalf("runTasksAdd: %v", err)
	}
	tasks := te.fake.Tasks()
	last := tasks[len(tasks)-1]
	if last.Title != "Buy milk" || last.Description != "2L" {
		t.Errorf("created %+v", last)
	}
	if evs := te.events(t); len(evs) != 1 || evs[0] != actlog.EventTaskCreated {
		t.Errorf("events = %v", evs)
	}
}

func TestTasksAddRequiresTitle(t *testing.T) {
	te := newTestEnv(t, "T1", "")

	if err := runTasksAdd(te.env, "   ", ""); err == nil {
		t.Fatal("expected validation error")
	}
	if len(te.fake.Calls()) != 0 {
		t.Errorf("calls = %v, want none", te.fake.Calls())
	}
}

func TestTasksEditKeepsUnsetFields(t *testing.T) {
	te := newTestEnv(t, "T1", "")

	title := "Write final report"
	if err := runTasksEdit(te.env, "t1", &title, nil); err != nil {
		t.Fatalf("runTasksEdit: %v", err)
	}
	got := te.fake.Tasks()[0]
	if got.Title != title || got.Description != "d" {
		t.Errorf("task = %+v", got)
	}
}

func TestTasksEditNothingToChange(t *testing.T) {
	te := newTestEnv(t, "T1", "")

	if err := runTasksEdit(te.env, "t1", nil, nil); err == nil {
		t.Fatal("expected an error")
	}
	if len(te.fake.Calls()) != 0 {
		t.Errorf("calls = %v, want none", te.fake.Calls())
	}
}

func TestTasksEditNotFound(t *testing.T) {
	te := newTestEnv(t, "T1", "")

	desc := "x"
	err := runTasksEdit(te.env, "missing", nil, &desc)
	if err == nil || err.Error() != "loading task: Task not found" {
		t.Errorf("err = %v", err)
	}
}

func TestTasksRmConfirm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		deleted bool
	}{
		{"yes", "y\n", true},
		{"full yes", "YES\n", true},
		{"no", "n\n", false},
		{"empty", "\n", false},
		{"eof", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEnv(t, "T1", tt.input)

			if err := runTasksRm(te.env, "t2", false); err != nil {
				t.Fatalf("runTasksRm: %v", err)
			}
			if got := len(te.fake.Tasks()) == 2; got != tt.deleted {
				t.Errorf("deleted = %v, want %v", got, tt.deleted)
			}
		})
	}
}

func TestTasksRmYesSkipsPrompt(t *testing.T) {
	te := newTestEnv(t, "T1", "")

	if err := runTasksRm(te.env, "t2", true); err != nil {
		t.Fatalf("runTasksRm: %v", err)
	}
	if strings.Contains(te.buf.String(), "[y/N]") {
		t.Error("should not prompt with --yes")
	}
	for _, task := range te.fake.Tasks() {
		if task.ID == "t2" {
			t.Error("t2 still present")
		}
	}
	if evs := te.events(t); len(evs) != 1 || evs[0] != actlog.EventTaskDeleted {
		t.Errorf("events = %v", evs)
	}
}

// ============================================================================
// History and config
// ============================================================================

func TestHistory(t *testing.T) {
	te := newTestEnv(t, "", "")
	if err := runHistory(te.env, 0); err != nil {
		t.Fatalf("runHistory: %v", err)
	}
	if !strings.Contains(te.buf.String(), "No activity yet.") {
		t.Errorf("output = %q", te.buf.String())
	}

	te.buf.Reset()
	te.record(actlog.LogEvent{Event: actlog.EventLoggedIn, Email: "a@b.com"})
	te.record(actlog.LogEvent{Event: actlog.EventTaskCreated, TaskID: "t9", Title: "Ship"})
	te.record(actlog.LogEvent{Event: actlog.EventLoggedOut})

	if err := runHistory(te.env, 2); err != nil {
		t.Fatalf("runHistory: %v", err)
	}
	out := te.buf.String()
	if strings.Contains(out, "a@b.com") {
		t.Errorf("limit not applied:\n%s", out)
	}
	if !strings.Contains(out, `t9 "Ship"`) || !strings.Contains(out, actlog.EventLoggedOut) {
		t.Errorf("output:\n%s", out)
	}
}

func TestConfigInit(t *testing.T) {
	home := testutil.TempHome(t, nil)
	var buf bytes.Buffer

	if err := runConfigInit(&buf, home, false); err != nil {
		t.Fatalf("runConfigInit: %v", err)
	}
	data, err := os.ReadFile(config.Path(home))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cfg.API.BaseURL != config.DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}

	if err := runConfigInit(&buf, home, false); err == nil {
		t.Error("expected an error when the file exists")
	}
	if err := runConfigInit(&buf, home, true); err != nil {
		t.Errorf("--force: %v", err)
	}
}
