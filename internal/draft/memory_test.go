package draft

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SBreitkreuz/pruefdoc/internal/protocol"
)

func TestMemoryStore_DraftRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	snap := Snapshot{
		SchemaVersion: SchemaVersion,
		SessionID:     "s1",
		Metadata:      protocol.Metadata{ProtocolNumber: "PR-1"},
		Step:          "metadata",
		SavedAt:       time.Now(),
	}
	if err := store.PutDraft(ctx, snap); err != nil {
		t.Fatalf("PutDraft() error = %v", err)
	}

	got, err := store.GetDraft(ctx, "s1")
	if err != nil {
		t.Fatalf("GetDraft() error = %v", err)
	}
	if got == nil || got.Metadata.ProtocolNumber != "PR-1" {
		t.Errorf("GetDraft() = %+v", got)
	}

	// Overwrite replaces, not appends.
	snap.Metadata.ProtocolNumber = "PR-2"
	store.PutDraft(ctx, snap)
	got, _ = store.GetDraft(ctx, "s1")
	if got.Metadata.ProtocolNumber != "PR-2" {
		t.Errorf("ProtocolNumber = %q after overwrite", got.Metadata.ProtocolNumber)
	}
}

func TestMemoryStore_AbsentDraftIsNilNil(t *testing.T) {
	got, err := NewMemoryStore(0).GetDraft(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetDraft() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetDraft() = %+v, want nil for absent draft", got)
	}
}

func TestMemoryStore_DeleteDraft(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	store.PutDraft(ctx, Snapshot{SessionID: "s1"})

	if err := store.DeleteDraft(ctx, "s1"); err != nil {
		t.Fatalf("DeleteDraft() error = %v", err)
	}
	if got, _ := store.GetDraft(ctx, "s1"); got != nil {
		t.Error("draft still present after delete")
	}

	// Deleting an absent draft is a no-op.
	if err := store.DeleteDraft(ctx, "s1"); err != nil {
		t.Errorf("DeleteDraft() of absent draft error = %v", err)
	}
}

func TestMemoryStore_ExportHistoryCapEvictsOldest(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(3)

	for i := 1; i <= 5; i++ {
		err := store.AppendExport(ctx, ExportRecord{
			SessionID: "s1",
			FileName:  fmt.Sprintf("doc_%d.xlsx", i),
		})
		if err != nil {
			t.Fatalf("AppendExport() error = %v", err)
		}
	}

	got, err := store.Exports(ctx, "s1")
	if err != nil {
		t.Fatalf("Exports() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want cap 3", len(got))
	}
	// Oldest two evicted, newest three kept in order.
	for i, want := range []string{"doc_3.xlsx", "doc_4.xlsx", "doc_5.xlsx"} {
		if got[i].FileName != want {
			t.Errorf("got[%d].FileName = %q, want %q", i, got[i].FileName, want)
		}
	}
}

func TestMemoryStore_ExportsIsolatedPerSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	store.AppendExport(ctx, ExportRecord{SessionID: "a", FileName: "a.xlsx"})
	store.AppendExport(ctx, ExportRecord{SessionID: "b", FileName: "b.xlsx"})

	got, _ := store.Exports(ctx, "a")
	if len(got) != 1 || got[0].FileName != "a.xlsx" {
		t.Errorf("Exports(a) = %+v", got)
	}
}
