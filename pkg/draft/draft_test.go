package draft

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKey(t *testing.T) {
	cases := []struct {
		id   string
		want string
	}{
		{"payment", "formflow.draft.payment"},
		{"contact-form", "formflow.draft.contact-form"},
		{"weird id!", "formflow.draft.weird_id_"},
	}
	for _, tc := range cases {
		if got := Key(tc.id); got != tc.want {
			t.Errorf("Key(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	values := map[string]string{"email": "ada@example.com", "firstName": "Ada"}
	if err := store.Save("contact", values); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's map must not leak into the store.
	values["email"] = "changed"

	got, err := store.Load("contact")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"email": "ada@example.com", "firstName": "Ada"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}

	if err := store.Clear("contact"); err != nil {
		t.Fatal(err)
	}
	got, err = store.Load("contact")
	if err != nil || len(got) != 0 {
		t.Errorf("after Clear: %v, %v", got, err)
	}
}

func TestMemoryStoreRejectsEmptyID(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Save("  ", nil); err == nil {
		t.Error("Save accepted a blank form id")
	}
	if _, err := store.Load(""); err == nil {
		t.Error("Load accepted a blank form id")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "drafts"))
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{"cardholderName": "Ada Lovelace", "billingZip": "12345"}
	if err := store.Save("payment", want); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, "drafts", "formflow.draft.payment.json")); err != nil {
		t.Fatalf("draft file missing: %v", err)
	}

	got, err := store.Load("payment")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}

	if err := store.Clear("payment"); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear("payment"); err != nil {
		t.Errorf("clearing a missing draft errored: %v", err)
	}

	got, err = store.Load("payment")
	if err != nil || len(got) != 0 {
		t.Errorf("after Clear: %v, %v", got, err)
	}
}

func TestNewFileStoreRequiresDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("expected error for empty directory")
	}
}
