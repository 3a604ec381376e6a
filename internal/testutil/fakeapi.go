package testutil

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/taskdeck/taskdeck/internal/api"
)

// Route keys accepted by FakeAPI.Fail.
const (
	RouteLogin      = "POST /api/auth/login"
	RouteRegister   = "POST /api/auth/register"
	RouteProfile    = "GET /api/auth/profile"
	RouteListTasks  = "GET /api/task"
	RouteGetTask    = "GET /api/task/{id}"
	RouteCreateTask = "POST /api/task"
	RouteUpdateTask = "PUT /api/task/{id}"
	RouteDeleteTask = "DELETE /api/task/{id}"
)

type failure struct {
	status  int
	message string
	raw     string
}

type account struct {
	user     api.User
	password string
	token    string
}

// wireTask is how the fake server serializes tasks: Mongo-style "_id".
type wireTask struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy"`
}

// FakeAPI is an in-memory task server reachable through an in-memory
// listener, so tests never open a socket.
type FakeAPI struct {
	mu       sync.Mutex
	accounts map[string]*account // by email
	tasks    []api.Task
	calls    []string
	headers  []map[string]string
	fail     map[string]failure
	nextID   int

	ln   *fasthttputil.InmemoryListener
	srv  *fasthttp.Server
	stop sync.Once
}

// NewFakeAPI starts a FakeAPI and stops it when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		accounts: make(map[string]*account),
		fail:     make(map[string]failure),
		nextID:   100,
		ln:       fasthttputil.NewInmemoryListener(),
	}

	r := router.New()
	r.POST("/api/auth/login", f.route(RouteLogin, f.login))
	r.POST("/api/auth/register", f.route(RouteRegister, f.register))
	r.GET("/api/auth/profile", f.route(RouteProfile, f.authed(f.profile)))
	r.GET("/api/task", f.route(RouteListTasks, f.authed(f.listTasks)))
	r.POST("/api/task", f.route(RouteCreateTask, f.authed(f.createTask)))
	r.GET("/api/task/{id}", f.route(RouteGetTask, f.authed(f.getTask)))
	r.PUT("/api/task/{id}", f.route(RouteUpdateTask, f.authed(f.updateTask)))
	r.DELETE("/api/task/{id}", f.route(RouteDeleteTask, f.authed(f.deleteTask)))

	f.srv = &fasthttp.Server{Handler: r.Handler}
	go func() { _ = f.srv.Serve(f.ln) }()

	t.Cleanup(func() { f.stop.Do(f.shutdown) })
	return f
}

// Client returns an api.Client wired to the fake server.
func (f *FakeAPI) Client(opts ...api.Option) *api.Client {
	opts = append([]api.Option{api.WithDial(f.dial)}, opts...)
	return api.New("http://fake.api", opts...)
}

func (f *FakeAPI) dial(string) (net.Conn, error) {
	return f.ln.Dial()
}

// GoOffline makes every further request fail without a response.
func (f *FakeAPI) GoOffline() {
	f.stop.Do(f.shutdown)
}

func (f *FakeAPI) shutdown() {
	_ = f.ln.Close()
	_ = f.srv.Shutdown()
}

// AddAccount registers a user whose login returns token.
func (f *FakeAPI) AddAccount(user api.User, password, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[user.Email] = &account{user: user, password: password, token: token}
}

// SeedTasks appends tasks to the server's store.
func (f *FakeAPI) SeedTasks(tasks ...api.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, tasks...)
}

// Tasks returns a copy of the server's tasks.
func (f *FakeAPI) Tasks() []api.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Task(nil), f.tasks...)
}

// Fail makes the next request to route respond with status and message.
// An empty message produces a body without one.
func (f *FakeAPI) Fail(route string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[route] = failure{status: status, message: message}
}

// Respond makes the next request to route answer with status and the
// literal body.
func (f *FakeAPI) Respond(route string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[route] = failure{status: status, raw: body}
}

// Calls returns the route keys hit so far, in order.
func (f *FakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Header returns header name as sent on the i-th call.
func (f *FakeAPI) Header(i int, name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.headers) {
		return ""
	}
	return f.headers[i][strings.ToLower(name)]
}

func (f *FakeAPI) route(key string, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		f.mu.Lock()
		f.calls = append(f.calls, key)
		hdr := map[string]string{}
		ctx.Request.Header.VisitAll(func(k, v []byte) {
			hdr[strings.ToLower(string(k))] = string(v)
		})
		f.headers = append(f.headers, hdr)
		fail, failing := f.fail[key]
		delete(f.fail, key)
		f.mu.Unlock()

		if failing {
			if fail.raw != "" {
				ctx.SetContentType("application/json")
				ctx.SetStatusCode(fail.status)
				ctx.SetBodyString(fail.raw)
				return
			}
			if fail.message == "" {
				ctx.SetStatusCode(fail.status)
				return
			}
			writeJSON(ctx, fail.status, map[string]string{"message": fail.message})
			return
		}
		next(ctx)
	}
}

func (f *FakeAPI) authed(next func(*fasthttp.RequestCtx, *account)) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		header := string(ctx.Request.Header.Peek("Authorization"))
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			writeJSON(ctx, http.StatusUnauthorized, map[string]string{"message": "No token, authorization denied"})
			return
		}

		f.mu.Lock()
		var acct *account
		for _, a := range f.accounts {
			if a.token == token {
				acct = a
				break
			}
		}
		f.mu.Unlock()

		if acct == nil {
			writeJSON(ctx, http.StatusUnauthorized, map[string]string{"message": "Token is not valid"})
			return
		}
		next(ctx, acct)
	}
}

func (f *FakeAPI) login(ctx *fasthttp.RequestCtx) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeJSON(ctx, http.StatusBadRequest, map[string]string{"message": "Invalid body"})
		return
	}

	f.mu.Lock()
	acct, ok := f.accounts[req.Email]
	f.mu.Unlock()

	if !ok || acct.password != req.Password {
		writeJSON(ctx, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	writeJSON(ctx, http.StatusOK, map[string]string{"token": acct.token})
}

func (f *FakeAPI) register(ctx *fasthttp.RequestCtx) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeJSON(ctx, http.StatusBadRequest, map[string]string{"message": "Invalid body"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.accounts[req.Email]; exists {
		writeJSON(ctx, http.StatusBadRequest, map[string]string{"message": "User already exists"})
		return
	}
	f.nextID++
	acct := &account{
		user:     api.User{ID: fmt.Sprintf("u%d", f.nextID), Name: req.Name, Email: req.Email},
		password: req.Password,
		token:    fmt.Sprintf("token-%d", f.nextID),
	}
	f.accounts[req.Email] = acct
	writeJSON(ctx, http.StatusCreated, map[string]interface{}{
		"token": acct.token,
		"user":  map[string]string{"_id": acct.user.ID, "name": acct.user.Name, "email": acct.user.Email},
	})
}

func (f *FakeAPI) profile(ctx *fasthttp.RequestCtx, acct *account) {
	writeJSON(ctx, http.StatusOK, map[string]string{
		"_id":   acct.user.ID,
		"name":  acct.user.Name,
		"email": acct.user.Email,
	})
}

func (f *FakeAPI) listTasks(ctx *fasthttp.RequestCtx, acct *account) {
	f.mu.Lock()
	out := []wireTask{}
	for _, t := range f.tasks {
		if t.CreatedBy == acct.user.ID {
			out = append(out, toWire(t))
		}
	}
	f.mu.Unlock()
	writeJSON(ctx, http.StatusOK, out)
}

func (f *FakeAPI) getTask(ctx *fasthttp.RequestCtx, acct *account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(ctx, acct)
	if i < 0 {
		writeJSON(ctx, http.StatusNotFound, map[string]string{"message": "Task not found"})
		return
	}
	writeJSON(ctx, http.StatusOK, toWire(f.tasks[i]))
}

func (f *FakeAPI) createTask(ctx *fasthttp.RequestCtx, acct *account) {
	var in api.TaskInput
	if err := json.Unmarshal(ctx.PostBody(), &in); err != nil || strings.TrimSpace(in.Title) == "" {
		writeJSON(ctx, http.StatusBadRequest, map[string]string{"message": "Title is required"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	task := api.Task{
		ID:          fmt.Sprintf("t%d", f.nextID),
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		CreatedBy:   acct.user.ID,
	}
	f.tasks = append(f.tasks, task)
	writeJSON(ctx, http.StatusCreated, toWire(task))
}

func (f *FakeAPI) updateTask(ctx *fasthttp.RequestCtx, acct *account) {
	var in api.TaskInput
	if err := json.Unmarshal(ctx.PostBody(), &in); err != nil {
		writeJSON(ctx, http.StatusBadRequest, map[string]string{"message": "Invalid body"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(ctx, acct)
	if i < 0 {
		writeJSON(ctx, http.StatusNotFound, map[string]string{"message": "Task not found"})
		return
	}
	f.tasks[i].Title = in.Title
	f.tasks[i].Description = in.Description
	writeJSON(ctx, http.StatusOK, toWire(f.tasks[i]))
}

func (f *FakeAPI) deleteTask(ctx *fasthttp.RequestCtx, acct *account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(ctx, acct)
	if i < 0 {
		writeJSON(ctx, http.StatusNotFound, map[string]string{"message": "Task not found"})
		return
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	writeJSON(ctx, http.StatusOK, map[string]string{"message": "Task deleted"})
}

// find must be called with f.mu held.
func (f *FakeAPI) find(ctx *fasthttp.RequestCtx, acct *account) int {
	id, _ := ctx.UserValue("id").(string)
	for i, t := range f.tasks {
		if t.ID == id && t.CreatedBy == acct.user.ID {
			return i
		}
	}
	return -1
}

func toWire(t api.Task) wireTask {
	return wireTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		CreatedBy:   t.CreatedBy,
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}
