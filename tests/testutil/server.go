// Package testutil provides the in-process fake backend that tests
// run against: an httptest server with a real SQLite store behind it,
// speaking the same wire protocol as the production API.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Hadern04/orgbot/internal/api"
	"github.com/Hadern04/orgbot/internal/model"
)

const schema = `
CREATE TABLE events (
	id       TEXT PRIMARY KEY,
	title    TEXT NOT NULL,
	date     TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	owner_id TEXT NOT NULL
);

CREATE TABLE checklists (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	event_id TEXT NOT NULL DEFAULT '',
	deadline TEXT NOT NULL,
	owner_id TEXT NOT NULL
);

CREATE TABLE checklist_items (
	id           TEXT PRIMARY KEY,
	checklist_id TEXT NOT NULL,
	text         TEXT NOT NULL,
	completed    INTEGER NOT NULL DEFAULT 0,
	pos          INTEGER NOT NULL
);

CREATE TABLE contractor_categories (
	id       TEXT PRIMARY KEY,
	title    TEXT NOT NULL,
	owner_id TEXT NOT NULL
);

CREATE TABLE contractors (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	contact     TEXT NOT NULL DEFAULT '',
	category_id TEXT NOT NULL DEFAULT '',
	owner_id    TEXT NOT NULL
);

CREATE TABLE tasks (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	start        TEXT NOT NULL,
	project      TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	notification TEXT NOT NULL DEFAULT 'none',
	owner_id     TEXT NOT NULL
);

CREATE TABLE task_items (
	task_id TEXT NOT NULL,
	text    TEXT NOT NULL,
	done    INTEGER NOT NULL DEFAULT 0,
	pos     INTEGER NOT NULL
);
`

// Server is a fake orgbot backend for tests. It persists entities in
// an in-memory SQLite database and mirrors the production API's
// behavior: owner scoping, durable id minting, wholesale item
// replacement, the category-in-use conflict, and FastAPI-style
// {"detail": ...} error bodies.
type Server struct {
	t    *testing.T
	db   *sqlx.DB
	http *httptest.Server

	mu       sync.Mutex
	notified []string
}

// NewServer creates a fake backend and closes it when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	// A single connection keeps the in-memory database alive across
	// requests.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("applying test schema: %v", err)
	}

	s := &Server{t: t, db: db}
	s.http = httptest.NewServer(s.routes())

	t.Cleanup(func() {
		s.http.Close()
		if err := db.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})

	return s
}

// URL returns the server's base URL.
func (s *Server) URL() string {
	return s.http.URL
}

// Client returns an API client pointed at the fake backend.
func (s *Server) Client() *api.Client {
	return api.NewClient(s.http.URL, "test-token", 5*time.Second)
}

// NotifiedTaskIDs returns the ids passed to the notify action so far.
func (s *Server) NotifiedTaskIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.notified))
	copy(out, s.notified)
	return out
}

// --- row types ----------------------------------------------------

type eventRow struct {
	ID       string `db:"id"`
	Title    string `db:"title"`
	Date     string `db:"date"`
	Location string `db:"location"`
	OwnerID  string `db:"owner_id"`
}

func (r eventRow) toModel() model.Event {
	d, _ := model.ParseDate(r.Date)
	return model.Event{
		ID:       r.ID,
		Title:    r.Title,
		Date:     d,
		Location: r.Location,
		OwnerID:  r.OwnerID,
	}
}

type checklistRow struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	EventID  string `db:"event_id"`
	Deadline string `db:"deadline"`
	OwnerID  string `db:"owner_id"`
}

type checklistItemRow struct {
	ID          string `db:"id"`
	ChecklistID string `db:"checklist_id"`
	Text        string `db:"text"`
	Completed   bool   `db:"completed"`
	Pos         int    `db:"pos"`
}

type categoryRow struct {
	ID      string `db:"id"`
	Title   string `db:"title"`
	OwnerID string `db:"owner_id"`
}

type contractorRow struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	Contact    string `db:"contact"`
	CategoryID string `db:"category_id"`
	OwnerID    string `db:"owner_id"`
}

type taskRow struct {
	ID           string `db:"id"`
	Title        string `db:"title"`
	Start        string `db:"start"`
	Project      string `db:"project"`
	Description  string `db:"description"`
	Notification string `db:"notification"`
	OwnerID      string `db:"owner_id"`
}

type taskItemRow struct {
	TaskID string `db:"task_id"`
	Text   string `db:"text"`
	Done   bool   `db:"done"`
	Pos    int    `db:"pos"`
}

// --- routing ------------------------------------------------------

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/api/events/", s.handleEvent)
	mux.HandleFunc("/api/checklists", s.handleChecklists)
	mux.HandleFunc("/api/checklists/", s.handleChecklist)
	mux.HandleFunc("/api/contractor-categories", s.handleCategories)
	mux.HandleFunc("/api/contractor-categories/", s.handleCategory)
	mux.HandleFunc("/api/contractors", s.handleContractors)
	mux.HandleFunc("/api/contractors/", s.handleContractor)
	mux.HandleFunc("/api/tasks", s.handleTasks)
	mux.HandleFunc("/api/tasks/", s.handleTask)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return false
	}
	return true
}

func pathID(r *http.Request, prefix string) string {
	return strings.TrimPrefix(r.URL.Path, prefix)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.t.Errorf("test server query failed: %v", err)
	writeDetail(w, http.StatusInternalServerError, "internal error")
}

// --- events -------------------------------------------------------

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var rows []eventRow
		err := s.db.Select(&rows,
			"SELECT id, title, date, location, owner_id FROM events WHERE owner_id = ? ORDER BY date",
			r.URL.Query().Get("owner_id"))
		if err != nil {
			s.fail(w, err)
			return
		}
		out := make([]model.Event, 0, len(rows))
		for _, row := range rows {
			out = append(out, row.toModel())
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var ev model.Event
		if !decodeBody(w, r, &ev) {
			return
		}
		ev.ID = uuid.NewString()
		_, err := s.db.Exec(
			"INSERT INTO events (id, title, date, location, owner_id) VALUES (?, ?, ?, ?, ?)",
			ev.ID, ev.Title, ev.Date.String(), ev.Location, ev.OwnerID)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ev)

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/events/")

	switch r.Method {
	case http.MethodGet:
		var row eventRow
		err := s.db.Get(&row,
			"SELECT id, title, date, location, owner_id FROM events WHERE id = ?", id)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Event not found")
			return
		}
		writeJSON(w, http.StatusOK, row.toModel())

	case http.MethodPut:
		var ev model.Event
		if !decodeBody(w, r, &ev) {
			return
		}
		res, err := s.db.Exec(
			"UPDATE events SET title = ?, date = ?, location = ? WHERE id = ?",
			ev.Title, ev.Date.String(), ev.Location, id)
		if err != nil {
			s.fail(w, err)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			writeDetail(w, http.StatusNotFound, "Event not found")
			return
		}
		ev.ID = id
		writeJSON(w, http.StatusOK, ev)

	case http.MethodDelete:
		// Deleting an event does not cascade: checklists keep their
		// reference and render it as "no event".
		res, err := s.db.Exec("DELETE FROM events WHERE id = ?", id)
		if err != nil {
			s.fail(w, err)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			writeDetail(w, http.StatusNotFound, "Event not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- checklists ---------------------------------------------------

func (s *Server) loadChecklist(row checklistRow) (model.Checklist, error) {
	var items []checklistItemRow
	err := s.db.Select(&items,
		"SELECT id, checklist_id, text, completed, pos FROM checklist_items WHERE checklist_id = ? ORDER BY pos",
		row.ID)
	if err != nil {
		return model.Checklist{}, err
	}

	deadline, _ := model.ParseDate(row.Deadline)
	out := model.Checklist{
		ID:       row.ID,
		Name:     row.Name,
		EventID:  row.EventID,
		Deadline: deadline,
		OwnerID:  row.OwnerID,
		Items:    make([]model.ChecklistItem, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, model.ChecklistItem{
			ID:        it.ID,
			Text:      it.Text,
			Completed: it.Completed,
		})
	}
	return out, nil
}

// replaceItems deletes and reinserts the item rows. New items (empty
// id) are minted durable ids; existing ids are kept stable.
func (s *Server) replaceItems(checklistID string, items []model.ChecklistItem) ([]model.ChecklistItem, error) {
	if _, err := s.db.Exec("DELETE FROM checklist_items WHERE checklist_id = ?", checklistID); err != nil {
		return nil, err
	}
	out := make([]model.ChecklistItem, 0, len(items))
	for i, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		_, err := s.db.Exec(
			"INSERT INTO checklist_items (id, checklist_id, text, completed, pos) VALUES (?, ?, ?, ?, ?)",
			it.ID, checklistID, it.Text, it.Completed, i)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *Server) handleChecklists(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var rows []checklistRow
		err := s.db.Select(&rows,
			"SELECT id, name, event_id, deadline, owner_id FROM checklists WHERE owner_id = ? ORDER BY deadline",
			r.URL.Query().Get("owner_id"))
		if err != nil {
			s.fail(w, err)
			return
		}
		out := make([]model.Checklist, 0, len(rows))
		for _, row := range rows {
			cl, err := s.loadChecklist(row)
			if err != nil {
				s.fail(w, err)
				return
			}
			out = append(out, cl)
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var cl model.Checklist
		if !decodeBody(w, r, &cl) {
			return
		}
		cl.ID = uuid.NewString()
		_, err := s.db.Exec(
			"INSERT INTO checklists (id, name, event_id, deadline, owner_id) VALUES (?, ?, ?, ?, ?)",
			cl.ID, cl.Name, cl.EventID, cl.Deadline.String(), cl.OwnerID)
		if err != nil {
			s.fail(w, err)
			return
		}
		items, err := s.replaceItems(cl.ID, cl.Items)
		if err != nil {
			s.fail(w, err)
			return
		}
		cl.Items = items
		writeJSON(w, http.StatusCreated, cl)

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleChecklist(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/checklists/")

	switch r.Method {
	case http.MethodGet:
		var row checklistRow
		err := s.db.Get(&row,
			"SELECT id, name, event_id, deadline, owner_id FROM checklists WHERE id = ?", id)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Checklist not found")
			return
		}
		cl, err := s.loadChecklist(row)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cl)

	case http.MethodPut:
		var cl model.Checklist
		if !decodeBody(w, r, &cl) {
			return
		}
		res, err := s.db.Exec(
			"UPDATE checklists SET name = ?, event_id = ?, deadline = ? WHERE id = ?",
			cl.Name, cl.EventID, cl.Deadline.String(), id)
		if err != nil {
			s.fail(w, err)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			writeDetail(w, http.StatusNotFound, "Checklist not found")
			return
		}
		items, err := s.replaceItems(id, cl.Items)
		if err != nil {
			s.fail(w, err)
			return
		}
		cl.ID = id
		cl.Items = items
		writeJSON(w, http.StatusOK, cl)

	case http.MethodDelete:
		res, err := s.db.Exec("DELETE FROM checklists WHERE id = ?", id)
		if err != nil {
			s.fail(w, err)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			writeDetail(w, http.StatusNotFound, "Checklist not found")
			return
		}
		if _, err := s.db.Exec("DELETE FROM checklist_items WHERE checklist_id = ?", id); err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- contractor categories ----------------------------------------

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var rows []categoryRow
		err := s.db.Select(&rows,
			"SELECT id, title, owner_id FROM contractor_categories WHERE owner_id = ? ORDER BY title",
			r.URL.Query().Get("owner_id"))
		if err != nil {
			s.fail(w, err)
			return
		}
		out := make([]model.ContractorCategory, 0, len(rows))
		for _, row := range rows {
			out = append(out, model.ContractorCategory{
				ID: row.ID, Title: row.Title, OwnerID: row.OwnerID,
			})
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var cat model.ContractorCategory
		if !decodeBody(w, r, &cat) {
			return
		}
		cat.ID = uuid.NewString()
		_, err := s.db.Exec(
			"INSERT INTO contractor_categories (id, title, owner_id) VALUES (?, ?, ?)",
			cat.ID, cat.Title, cat.OwnerID)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, cat)

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/contractor-categories/")

	switch r.Method {
	case http.MethodGet:
		var row categoryRow
		err := s.db.Get(&row,
			"SELECT id, title, owner_id FROM contractor_categories WHERE id = ?", id)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Category not found")
			return
		}
		writeJSON(w, http.StatusOK, model.ContractorCategory{
			ID: row.ID, Title: row.Title, OwnerID: row.OwnerID,
		})

	case http.MethodPut:
		var cat model.ContractorCategory
		if !decodeBody(w, r, &cat) {
			return
		}
		res, err := s.db.Exec(
			"UPDATE contractor_categories SET title = ? WHERE id = ?", cat.Title, id)
		if err != nil {
			s.fail(w, err)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			writeDetail(w, http.StatusNotFound, "Category not found")
			return
		}
		cat.ID = id
		writeJSON(w, http.StatusOK, cat)

	case http.MethodDelete:
		// The backend independently enforces the in-use rule; a
		// client that skips its own guard still gets the conflict.
		var count int
		if err := s.db.Get(&count,
			"SELECT COUNT(*) FROM contractors WHERE category_id = ?", id); err != nil {
			s.fail(w, err)
			return
		}
		if count > 0 {
			writeDetail(w, http.StatusConflict,
				"Category is in use: delete or reassign its contractors first")
			return
		}
		res, err := s.db.Exec("DELETE FROM contractor_categories WHERE id = ?", id)
		if err != nil {
			s.fail(w, err)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			writeDetail(w, http.StatusNotFound, "Category not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- contractors --------------------------------------------------

func (s *Server) handleContractors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		query := "SELECT id, name, contact, category_id, owner_id FROM contractors WHERE owner_id = ?"
		args := []interface{}{r.URL.Query().Get("owner_id")}
		if cat := r.URL.Query().Get("category"); cat != "" {
			query += " AND category_id = ?"
			args = append(args, cat)
		}
		// Insertion order, matching the backend: clients decide sorting.
		query += " ORDER BY rowid"

		var rows []contractorRow
		if err := s.db.Select(&rows, query, args...); err != nil {
			s.fail(w, err)
			return
		}
		out := make([]model.Contractor, 0, len(rows))
		for _, row := range rows {
			out = append(out, model.Contractor{
				ID:         row.ID,
				Name:       row.Name,
				Contact:    row.Contact,
				CategoryID: row.CategoryID,
				OwnerID:    row.OwnerID,
			})
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var c model.Contractor
		if !decodeBody(w, r, &c) {
			return
		}
		c.ID = uuid.NewString()
		_, err := s.db.Exec(
			"INSERT INTO contractors (id, name, contact, category_id, owner_id) VALUES (?, ?, ?, ?, ?)",
			c.ID, c.Name, c.Contact, c.CategoryID, c.OwnerID)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleContractor(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/contractors/")

	switch r.Method {
	case http.MethodGet:
		var row contractorRow
		err := s.db.Get(&row,
			"SELECT id, name, contact, category_id, owner_id FROM contractors WHERE id = ?", id)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Contractor not found")
			return
		}
		writeJSON(w, http.StatusOK, model.Contractor{
			ID:         row.ID,
			Name:       row.Name,
			Contact:    row.Contact,
			CategoryID: row.CategoryID,
			OwnerID:    row.OwnerID,
		})

	case http.MethodPut:
		var c model.Contractor
		if !decodeBody(w, r, &c) {
			return
		}
		res, err := s.db.Exec(
			"UPDATE contractors SET name = ?, contact = ?, category_id = ? WHERE id = ?",
			c.Name, c.Contact, c.CategoryID, id)
		if err != nil {
			s.fail(w, err)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			writeDetail(w, http.StatusNotFound, "Contractor not found")
			return
		}
		c.ID = id
		writeJSON(w, http.StatusOK, c)

	case http.MethodDelete:
		res, err := s.db.Exec("DELETE FROM contractors WHERE id = ?", id)
		if err != nil {
			s.fail(w, err)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			writeDetail(w, http.StatusNotFound, "Contractor not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- scheduled tasks ----------------------------------------------

func (s *Server) loadTask(row taskRow) (model.ScheduledTask, error) {
	var items []taskItemRow
	err := s.db.Select(&items,
		"SELECT task_id, text, done, pos FROM task_items WHERE task_id = ? ORDER BY pos", row.ID)
	if err != nil {
		return model.ScheduledTask{}, err
	}

	start, _ := time.Parse(time.RFC3339, row.Start)
	out := model.ScheduledTask{
		ID:           row.ID,
		Title:        row.Title,
		Start:        start,
		Project:      row.Project,
		Description:  row.Description,
		Notification: model.ParseNotifyPolicy(row.Notification),
		OwnerID:      row.OwnerID,
		Checklist:    make([]model.TaskChecklistItem, 0, len(items)),
	}
	for _, it := range items {
		out.Checklist = append(out.Checklist, model.TaskChecklistItem{
			Text: it.Text,
			Done: it.Done,
		})
	}
	return out, nil
}

func (s *Server) replaceTaskItems(taskID string, items []model.TaskChecklistItem) error {
	if _, err := s.db.Exec("DELETE FROM task_items WHERE task_id = ?", taskID); err != nil {
		return err
	}
	for i, it := range items {
		_, err := s.db.Exec(
			"INSERT INTO task_items (task_id, text, done, pos) VALUES (?, ?, ?, ?)",
			taskID, it.Text, it.Done, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var rows []taskRow
		err := s.db.Select(&rows,
			"SELECT id, title, start, project, description, notification, owner_id FROM tasks WHERE owner_id = ? ORDER BY start",
			r.URL.Query().Get("owner_id"))
		if err != nil {
			s.fail(w, err)
			return
		}
		out := make([]model.ScheduledTask, 0, len(rows))
		for _, row := range rows {
			task, err := s.loadTask(row)
			if err != nil {
				s.fail(w, err)
				return
			}
			out = append(out, task)
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var task model.ScheduledTask
		if !decodeBody(w, r, &task) {
			return
		}
		task.ID = uuid.NewString()
		task.Notification = model.ParseNotifyPolicy(string(task.Notification))
		_, err := s.db.Exec(
			"INSERT INTO tasks (id, title, start, project, description, notification, owner_id) VALUES (?, ?, ?, ?, ?, ?, ?)",
			task.ID, task.Title, task.Start.Format(time.RFC3339),
			task.Project, task.Description, string(task.Notification), task.OwnerID)
		if err != nil {
			s.fail(w, err)
			return
		}
		if err := s.replaceTaskItems(task.ID, task.Checklist); err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, task)

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	rest := pathID(r, "/api/tasks/")

	// POST /api/tasks/{id}/notify is the out-of-band notify action.
	if r.Method == http.MethodPost && strings.HasSuffix(rest, "/notify") {
		id := strings.TrimSuffix(rest, "/notify")
		var count int
		if err := s.db.Get(&count, "SELECT COUNT(*) FROM tasks WHERE id = ?", id); err != nil {
			s.fail(w, err)
			return
		}
		if count == 0 {
			writeDetail(w, http.StatusNotFound, "Task not found")
			return
		}
		s.mu.Lock()
		s.notified = append(s.notified, id)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	id := rest

	switch r.Method {
	case http.MethodGet:
		var row taskRow
		err := s.db.Get(&row,
			"SELECT id, title, start, project, description, notification, owner_id FROM tasks WHERE id = ?", id)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Task not found")
			return
		}
		task, err := s.loadTask(row)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, task)

	case http.MethodPut:
		var task model.ScheduledTask
		if !decodeBody(w, r, &task) {
			return
		}
		task.Notification = model.ParseNotifyPolicy(string(task.Notification))
		res, err := s.db.Exec(
			"UPDATE tasks SET title = ?, start = ?, project = ?, description = ?, notification = ? WHERE id = ?",
			task.Title, task.Start.Format(time.RFC3339), task.Project,
			task.Description, string(task.Notification), id)
		if err != nil {
			s.fail(w, err)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			writeDetail(w, http.StatusNotFound, "Task not found")
			return
		}
		if err := s.replaceTaskItems(id, task.Checklist); err != nil {
			s.fail(w, err)
			return
		}
		task.ID = id
		writeJSON(w, http.StatusOK, task)

	case http.MethodDelete:
		res, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id)
		if err != nil {
			s.fail(w, err)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			writeDetail(w, http.StatusNotFound, "Task not found")
			return
		}
		if _, err := s.db.Exec("DELETE FROM task_items WHERE task_id = ?", id); err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
