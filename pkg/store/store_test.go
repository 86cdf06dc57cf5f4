package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/daviddao/loginstats/pkg/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%q): %v", dbPath, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ev(t *testing.T, terminal int, kind model.Kind, user string, ms int64) model.Event {
	t.Helper()
	e, err := model.NewEvent(terminal, kind, user, time.UnixMilli(ms))
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestInsertAndListEvents_PreservesImportOrder(t *testing.T) {
	s := newTestStore(t)
	in := []model.Event{
		ev(t, 1, model.KindLogout, "alice", 500),
		ev(t, 2, model.KindLogin, "bob", 100),
		ev(t, 1, model.KindLogin, "alice", 300),
	}
	id, err := s.InsertEvents("logins.txt", in)
	if err != nil {
		t.Fatalf("InsertEvents: %v", err)
	}
	if id <= 0 {
		t.Fatalf("import id = %d, want > 0", id)
	}

	out, err := s.ListEvents()
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d events, want %d", len(out), len(in))
	}
	for i := range in {
		if !out[i].Equal(in[i]) {
			t.Fatalf("event %d: got %v, want %v", i, out[i], in[i])
		}
	}
}

func TestListEvents_Empty(t *testing.T) {
	s := newTestStore(t)
	out, err := s.ListEvents()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("got %d events from empty archive", len(out))
	}
	if n := s.CountEvents(); n != 0 {
		t.Fatalf("CountEvents = %d, want 0", n)
	}
}

func TestMultipleImportsAppend(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.InsertEvents("a.txt", []model.Event{ev(t, 1, model.KindLogin, "alice", 100)}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.InsertEvents("b.txt", []model.Event{
		ev(t, 1, model.KindLogout, "alice", 200),
		ev(t, 3, model.KindLogin, "carol", 250),
	}); err != nil {
		t.Fatal(err)
	}

	if n := s.CountEvents(); n != 3 {
		t.Fatalf("CountEvents = %d, want 3", n)
	}

	imports, err := s.ListImports()
	if err != nil {
		t.Fatalf("ListImports: %v", err)
	}
	if len(imports) != 2 {
		t.Fatalf("got %d imports, want 2", len(imports))
	}
	if imports[0].Source != "a.txt" || imports[0].Events != 1 {
		t.Fatalf("import 0 = %+v", imports[0])
	}
	if imports[1].Source != "b.txt" || imports[1].Events != 2 {
		t.Fatalf("import 1 = %+v", imports[1])
	}
	if time.Since(imports[1].ImportedAt) > time.Minute {
		t.Fatalf("imported_at looks wrong: %v", imports[1].ImportedAt)
	}
}

func TestListEventsForUser(t *testing.T) {
	s := newTestStore(t)
	s.InsertEvents("x", []model.Event{
		ev(t, 1, model.KindLogin, "alice", 100),
		ev(t, 2, model.KindLogin, "bob", 150),
		ev(t, 1, model.KindLogout, "alice", 200),
	})
	out, err := s.ListEventsForUser("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].Millis() != 100 || out[1].Millis() != 200 {
		t.Fatalf("got %v", out)
	}
}

func TestListUsers_Sorted(t *testing.T) {
	s := newTestStore(t)
	s.InsertEvents("x", []model.Event{
		ev(t, 1, model.KindLogin, "carol", 100),
		ev(t, 2, model.KindLogin, "alice", 150),
		ev(t, 1, model.KindLogout, "carol", 200),
	})
	users, err := s.ListUsers()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 || users[0] != "alice" || users[1] != "carol" {
		t.Fatalf("ListUsers = %v", users)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	s.InsertEvents("x", []model.Event{ev(t, 1, model.KindLogin, "alice", 100)})
	s.Close()

	s2, err := New(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if n := s2.CountEvents(); n != 1 {
		t.Fatalf("CountEvents after reopen = %d, want 1", n)
	}
}

func TestStoreImplementsArchive(t *testing.T) {
	var a Archive = newTestStore(t)
	if _, err := a.InsertEvents("iface", nil); err != nil {
		t.Fatalf("InsertEvents(nil): %v", err)
	}
	imports, err := a.ListImports()
	if err != nil || len(imports) != 1 || imports[0].Events != 0 {
		t.Fatalf("ListImports = %v, %v", imports, err)
	}
}
