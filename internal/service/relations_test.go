package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/taskdesk-io/taskdesk/pkg/types"
)

func TestRelations_AttachDetach(t *testing.T) {
	f := newFixture(t)
	user := f.registerUser(t, "rel", types.RoleUser)

	if err := AttachAuthor(f.backend, user.ID, 11); err != nil {
		t.Fatal(err)
	}
	if err := AttachExecutor(f.backend, user.ID, 12); err != nil {
		t.Fatal(err)
	}

	got := f.reloadUser(t, user.ID)
	if !got.HasAuthoredTask(11) || !got.HasExecutedTask(12) {
		t.Fatalf("sets not persisted: %+v", got)
	}

	if err := DetachAuthor(f.backend, user.ID, 11); err != nil {
		t.Fatal(err)
	}
	if err := DetachExecutor(f.backend, user.ID, 12); err != nil {
		t.Fatal(err)
	}

	got = f.reloadUser(t, user.ID)
	if len(got.AuthoredTaskIDs) != 0 || len(got.ExecutedTaskIDs) != 0 {
		t.Fatalf("sets not cleared: %+v", got)
	}
}

func TestRelations_Idempotence(t *testing.T) {
	f := newFixture(t)
	user := f.registerUser(t, "idem", types.RoleUser)

	// Double attach leaves a single entry.
	if err := AttachAuthor(f.backend, user.ID, 5); err != nil {
		t.Fatal(err)
	}
	if err := AttachAuthor(f.backend, user.ID, 5); err != nil {
		t.Fatal(err)
	}
	got := f.reloadUser(t, user.ID)
	if !reflect.DeepEqual(got.AuthoredTaskIDs, []int64{5}) {
		t.Fatalf("expected single entry, got %v", got.AuthoredTaskIDs)
	}

	// Detaching an absent id is a no-op.
	if err := DetachExecutor(f.backend, user.ID, 42); err != nil {
		t.Fatal(err)
	}
}

func TestRelations_SameUserBothRoles(t *testing.T) {
	f := newFixture(t)
	user := f.registerUser(t, "both", types.RoleUser)

	// Two sequential set mutations on the same user must both survive.
	if err := AttachAuthor(f.backend, user.ID, 7); err != nil {
		t.Fatal(err)
	}
	if err := AttachExecutor(f.backend, user.ID, 7); err != nil {
		t.Fatal(err)
	}

	got := f.reloadUser(t, user.ID)
	if !got.HasAuthoredTask(7) || !got.HasExecutedTask(7) {
		t.Fatalf("one mutation overwrote the other: %+v", got)
	}
}

func TestRelations_MissingUserIsConsistencyFault(t *testing.T) {
	f := newFixture(t)
	err := AttachAuthor(f.backend, 404, 1)
	if !errors.Is(err, types.ErrConsistency) {
		t.Fatalf("expected ErrConsistency, got %v", err)
	}
}
