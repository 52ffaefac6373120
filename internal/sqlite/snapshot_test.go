package sqlite

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/taskdesk-io/taskdesk/pkg/types"
)

func TestSnapshotRoundTrip(t *testing.T) {
	b := testBackend(t)

	author := &types.User{FirstName: "Ana", LastName: "P", Email: "ana@x.y", Role: types.RoleUser}
	author.AddAuthoredTask(1)
	if _, err := b.Users().Save(author); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	task := &types.Task{
		Title: "snapshot me", Status: types.StatusOnHold, Priority: types.PriorityRegular,
		AuthorID: author.ID, ExecutorID: types.ExecutorRef(author.ID),
		CreatedAt: now, UpdatedAt: now,
	}
	if _, err := b.Tasks().Save(task); err != nil {
		t.Fatal(err)
	}
	comment := &types.Comment{TaskID: task.ID, AuthorID: author.ID, Content: "note", CreatedAt: now, UpdatedAt: now}
	if _, err := b.Comments().Save(comment); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	manifest, err := b.Export(dir)
	if err != nil {
		t.Fatal(err)
	}
	if manifest.SnapshotID == "" {
		t.Error("expected a snapshot id")
	}
	if manifest.Users != 1 || manifest.Tasks != 1 || manifest.Comments != 1 {
		t.Errorf("unexpected manifest counts: %+v", manifest)
	}
	for _, name := range []string{manifestFile, usersJSONLFile, tasksJSONLFile, commentsJSONLFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing snapshot file %s: %v", name, err)
		}
	}

	// Restore into a fresh store.
	b2 := testBackend(t)
	if _, err := b2.Import(dir); err != nil {
		t.Fatal(err)
	}

	gotUser, err := b2.Users().Get(author.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotUser.AuthoredTaskIDs, []int64{1}) {
		t.Errorf("reference set lost in round trip: %v", gotUser.AuthoredTaskIDs)
	}
	gotTask, err := b2.Tasks().Get(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotTask.Title != "snapshot me" || gotTask.ExecutorID == nil {
		t.Errorf("task lost in round trip: %+v", gotTask)
	}
	gotComments, err := b2.Comments().ListByTask(task.ID, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(gotComments) != 1 || gotComments[0].Content != "note" {
		t.Errorf("comment lost in round trip: %+v", gotComments)
	}
}

func TestImportReplacesExistingContents(t *testing.T) {
	b := testBackend(t)
	if _, err := b.Users().Save(&types.User{FirstName: "A", LastName: "B", Email: "keep@x.y", Role: types.RoleUser}); err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if _, err := b.Export(dir); err != nil {
		t.Fatal(err)
	}

	b2 := testBackend(t)
	if _, err := b2.Users().Save(&types.User{FirstName: "C", LastName: "D", Email: "drop@x.y", Role: types.RoleUser}); err != nil {
		t.Fatal(err)
	}
	if _, err := b2.Import(dir); err != nil {
		t.Fatal(err)
	}

	users, err := b2.Users().List(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Email != "keep@x.y" {
		t.Fatalf("import should replace contents, got %+v", users)
	}
}

func TestJSONLReadSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.jsonl")
	content := "{\"ok\":1}\nnot json\n\n{\"ok\":2}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	records, err := readJSONL(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 valid records, got %d", len(records))
	}
}
