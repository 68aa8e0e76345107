package store

import (
	"errors"
	"testing"
	"time"
)

// newTestStore returns an in-memory store with the schema created.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func installedRecord(name, dir string) *Record {
	now := time.Now()
	return &Record{
		Name:        name,
		Kind:        KindInstalled,
		InstallDir:  dir,
		InstalledAt: now,
		UpdatedAt:   now,
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	rec := installedRecord("app-1.0", "/opt/app-1.0")
	rec.PathEntries = []string{"/opt/app-1.0/bin"}
	rec.DesktopEntries = []string{"/usr/share/applications/app.desktop"}
	rec.SizeBytes = 4096

	if err := s.Put(rec); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	got, err := s.Get("app-1.0")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Kind != KindInstalled {
		t.Errorf("Kind = %q, want %q", got.Kind, KindInstalled)
	}
	if got.InstallDir != "/opt/app-1.0" {
		t.Errorf("InstallDir = %q, want /opt/app-1.0", got.InstallDir)
	}
	if len(got.PathEntries) != 1 || got.PathEntries[0] != "/opt/app-1.0/bin" {
		t.Errorf("PathEntries = %v", got.PathEntries)
	}
	if len(got.DesktopEntries) != 1 {
		t.Errorf("DesktopEntries = %v", got.DesktopEntries)
	}
	if got.SizeBytes != 4096 {
		t.Errorf("SizeBytes = %d, want 4096", got.SizeBytes)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put(installedRecord("app-1.0", "/opt/app-1.0")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := s.Delete("app-1.0"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := s.Get("app-1.0"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}

	if err := s.Delete("app-1.0"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() of absent record = %v, want ErrNotFound", err)
	}
}

func TestList_LexicographicOrder(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"zsh-5.9", "app-1.0", "mid-2.0"} {
		if err := s.Put(installedRecord(name, "/opt/"+name)); err != nil {
			t.Fatalf("Put(%s) failed: %v", name, err)
		}
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	want := []string{"app-1.0", "mid-2.0", "zsh-5.9"}
	if len(records) != len(want) {
		t.Fatalf("List() returned %d records, want %d", len(records), len(want))
	}
	for i, rec := range records {
		if rec.Name != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, rec.Name, want[i])
		}
	}
}

func TestPut_ReplacesExisting(t *testing.T) {
	s := newTestStore(t)

	rec := installedRecord("app-1.0", "/opt/app-1.0")
	if err := s.Put(rec); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	rec.SizeBytes = 8192
	rec.PathEntries = []string{"/opt/app-1.0/bin"}
	if err := s.Put(rec); err != nil {
		t.Fatalf("second Put() failed: %v", err)
	}

	got, err := s.Get("app-1.0")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.SizeBytes != 8192 {
		t.Errorf("SizeBytes = %d, want 8192 after replace", got.SizeBytes)
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("List() returned %d records, want 1 (replace, not duplicate)", len(records))
	}
}

func TestResolve_Installed(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put(installedRecord("app-1.0", "/opt/app-1.0")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	rec, err := s.Resolve("app-1.0")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if rec.Name != "app-1.0" {
		t.Errorf("Resolve() = %q, want app-1.0", rec.Name)
	}
}

func TestResolve_Alias(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put(installedRecord("app-1.0", "/opt/app-1.0")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := s.PutAlias("app", "app-1.0"); err != nil {
		t.Fatalf("PutAlias() failed: %v", err)
	}

	rec, err := s.Resolve("app")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if rec.Name != "app-1.0" {
		t.Errorf("Resolve(app) = %q, want canonical app-1.0", rec.Name)
	}
	if rec.InstallDir != "/opt/app-1.0" {
		t.Errorf("Resolve(app).InstallDir = %q", rec.InstallDir)
	}
}

func TestResolve_DanglingAlias(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put(installedRecord("app-1.0", "/opt/app-1.0")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := s.PutAlias("app", "app-1.0"); err != nil {
		t.Fatalf("PutAlias() failed: %v", err)
	}
	if err := s.Delete("app-1.0"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	_, err := s.Resolve("app")
	if !errors.Is(err, ErrDanglingAlias) {
		t.Errorf("Resolve() of dangling alias = %v, want ErrDanglingAlias", err)
	}
}

func TestResolve_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Resolve("ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve() = %v, want ErrNotFound", err)
	}
}

func TestPutAlias_RejectsAliasChain(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put(installedRecord("app-1.0", "/opt/app-1.0")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := s.PutAlias("app", "app-1.0"); err != nil {
		t.Fatalf("PutAlias() failed: %v", err)
	}

	// "app" is an alias, so it may not serve as a target itself.
	if err := s.PutAlias("latest", "app"); err == nil {
		t.Error("PutAlias() should reject an alias as target")
	}
}

func TestPutAlias_RejectsInstalledNameCollision(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put(installedRecord("app-1.0", "/opt/app-1.0")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := s.Put(installedRecord("app-2.0", "/opt/app-2.0")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	err := s.PutAlias("app-1.0", "app-2.0")
	if !errors.Is(err, ErrNameConflict) {
		t.Errorf("PutAlias() over installed name = %v, want ErrNameConflict", err)
	}
}

func TestPutAlias_SelfReference(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put(installedRecord("app", "/opt/app")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := s.PutAlias("app", "app"); !errors.Is(err, ErrNameConflict) {
		t.Errorf("PutAlias(app, app) = %v, want ErrNameConflict", err)
	}
}

func TestPutAlias_MissingTarget(t *testing.T) {
	s := newTestStore(t)

	if err := s.PutAlias("app", "app-9.9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("PutAlias() with missing target = %v, want ErrNotFound", err)
	}
}

func TestPutAlias_Retarget(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put(installedRecord("app-1.0", "/opt/app-1.0")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := s.Put(installedRecord("app-2.0", "/opt/app-2.0")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	if err := s.PutAlias("app", "app-1.0"); err != nil {
		t.Fatalf("PutAlias() failed: %v", err)
	}
	if err := s.PutAlias("app", "app-2.0"); err != nil {
		t.Fatalf("retargeting PutAlias() failed: %v", err)
	}

	rec, err := s.Resolve("app")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if rec.Name != "app-2.0" {
		t.Errorf("Resolve(app) after retarget = %q, want app-2.0", rec.Name)
	}
}

func TestAliases_ReverseLookup(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put(installedRecord("app-1.0", "/opt/app-1.0")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := s.PutAlias("app", "app-1.0"); err != nil {
		t.Fatalf("PutAlias() failed: %v", err)
	}
	if err := s.PutAlias("application", "app-1.0"); err != nil {
		t.Fatalf("PutAlias() failed: %v", err)
	}

	names, err := s.Aliases("app-1.0")
	if err != nil {
		t.Fatalf("Aliases() failed: %v", err)
	}
	if len(names) != 2 || names[0] != "app" || names[1] != "application" {
		t.Errorf("Aliases() = %v, want [app application]", names)
	}

	names, err = s.Aliases("other")
	if err != nil {
		t.Fatalf("Aliases() failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Aliases(other) = %v, want empty", names)
	}
}
