package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"notewin/internal/store"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate points config and workspace resolution at temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("NOTEWIN_CONFIG_DIR", t.TempDir())
	t.Setenv("NOTEWIN_DIR", "")
	t.Setenv("NOTEWIN_WORKSPACE", "")
	t.Setenv("NOTEWIN_ACTOR", "")
	t.Setenv("NOTEWIN_FORMAT", "")
	t.Setenv("NOTEWIN_LOG_LEVEL", "")
	return t.TempDir()
}

func mustRun(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: notewin %v\nerr: %v\nstderr:\n%s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout: %v\nstdout:\n%s", err, stdout)
	}
	return env
}

func data(env map[string]any) map[string]any {
	m, _ := env["data"].(map[string]any)
	return m
}

func TestNotesLifecycle(t *testing.T) {
	dir := isolate(t)

	who := mustRun(t, "--dir", dir, "identity", "use", "act-alice", "--name", "Alice")
	if data(who)["currentActorId"] != "act-alice" || data(who)["name"] != "Alice" {
		t.Fatalf("unexpected identity use output: %v", who)
	}
	if got := data(mustRun(t, "--dir", dir, "identity", "whoami")); got["actorId"] != "act-alice" || got["registered"] != true {
		t.Fatalf("unexpected whoami: %v", got)
	}

	created := data(mustRun(t, "--dir", dir, "notes", "create", "--title", "Groceries", "--body", "- milk"))
	id, _ := created["id"].(string)
	if !store.IsNoteID(id) || created["access"] != "admin" || created["viewerCanEdit"] != true {
		t.Fatalf("unexpected created note: %v", created)
	}

	// Admin notes are hidden from other actors.
	_, stderr, err := runCLI(t, []string{"--dir", dir, "--actor", "act-bob", "notes", "show", id})
	if !errors.Is(err, store.ErrNotFound) || !strings.Contains(string(stderr), "note not found: "+id) {
		t.Fatalf("expected not found for other actor, got err=%v stderr=%s", err, stderr)
	}

	pub := data(mustRun(t, "--dir", dir, "notes", "access", id, "public"))
	if pub["access"] != "public" || pub["viewerCanShare"] != true {
		t.Fatalf("unexpected access change: %v", pub)
	}

	bob := data(mustRun(t, "--dir", dir, "--actor", "act-bob", "notes", "show", id))
	if bob["viewerCanEdit"] != false || bob["viewerCanShare"] != true {
		t.Fatalf("unexpected view for other actor: %v", bob)
	}
	mustRun(t, "--dir", dir, "--actor", "act-bob", "notes", "share", id)

	_, _, err = runCLI(t, []string{"--dir", dir, "--actor", "act-bob", "notes", "title", id, "Hijacked"})
	if !errors.Is(err, store.ErrForbidden) {
		t.Fatalf("expected forbidden for non-owner edit, got %v", err)
	}

	mustRun(t, "--dir", dir, "notes", "title", id, "Groceries (week 42)")
	evs, _ := mustRun(t, "--dir", dir, "events", "--note", id)["data"].([]any)
	var types []string
	for _, e := range evs {
		m, _ := e.(map[string]any)
		typ, _ := m["type"].(string)
		types = append(types, typ)
	}
	want := []string{"note.set_title", "note.share", "note.set_access", "note.create"}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected events %v, want %v", types, want)
	}

	mustRun(t, "--dir", dir, "notes", "rm", id)
	list, _ := mustRun(t, "--dir", dir, "notes", "list")["data"].([]any)
	if len(list) != 0 {
		t.Fatalf("expected no notes after rm, got %v", list)
	}
}

func TestNotesListTextFormat(t *testing.T) {
	dir := isolate(t)
	mustRun(t, "--dir", dir, "identity", "use", "act-alice")
	mustRun(t, "--dir", dir, "notes", "create", "--title", "First")
	mustRun(t, "--dir", dir, "notes", "create", "--title", "Second", "--access", "public")

	stdout, _, err := runCLI(t, []string{"--dir", dir, "--format", "text", "notes", "list"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	out := string(stdout)
	if !strings.HasPrefix(out, "ID") || !strings.Contains(out, "First") || !strings.Contains(out, "public") {
		t.Fatalf("unexpected text output:\n%s", out)
	}
}

func TestNotesCreateRejectsUnknownAccess(t *testing.T) {
	dir := isolate(t)
	_, _, err := runCLI(t, []string{"--dir", dir, "--actor", "act-alice", "notes", "create", "--title", "x", "--access", "secret"})
	if !errors.Is(err, store.ErrInvalidAccess) {
		t.Fatalf("expected invalid access error, got %v", err)
	}
}

func TestMissingActorIsAnError(t *testing.T) {
	dir := isolate(t)
	_, stderr, err := runCLI(t, []string{"--dir", dir, "notes", "list"})
	if err == nil || !strings.Contains(string(stderr), "identity use") {
		t.Fatalf("expected missing actor hint, got err=%v stderr=%s", err, stderr)
	}
}

func TestActorFlagOverridesConfig(t *testing.T) {
	dir := isolate(t)
	mustRun(t, "--dir", dir, "identity", "use", "act-alice")
	got := data(mustRun(t, "--dir", dir, "--actor", "act-bob", "identity", "whoami"))
	if got["actorId"] != "act-bob" || got["registered"] != false {
		t.Fatalf("expected --actor to win over config, got %v", got)
	}
}

func TestWorkspaceResolution(t *testing.T) {
	isolate(t)
	cfgDir, _ := store.ConfigDir()
	mustRun(t, "--actor", "act-alice", "--workspace", "team", "notes", "create", "--title", "In team")

	list, _ := mustRun(t, "--actor", "act-alice", "--workspace", "team", "notes", "list")["data"].([]any)
	if len(list) != 1 {
		t.Fatalf("expected note in team workspace, got %v", list)
	}
	list, _ = mustRun(t, "--actor", "act-alice", "notes", "list")["data"].([]any)
	if len(list) != 0 {
		t.Fatalf("expected default workspace empty, got %v", list)
	}
	if !strings.HasPrefix(mustWorkspaceDir(t, "team"), cfgDir) {
		t.Fatalf("expected workspaces under config dir")
	}
}

func mustWorkspaceDir(t *testing.T, name string) string {
	t.Helper()
	d, err := store.WorkspaceDir(name)
	if err != nil {
		t.Fatalf("workspace dir: %v", err)
	}
	return d
}

func TestUnknownLogLevel(t *testing.T) {
	isolate(t)
	if _, _, err := runCLI(t, []string{"--log-level", "loud", "identity", "whoami"}); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}
