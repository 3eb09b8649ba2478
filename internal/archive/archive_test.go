package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"quizform/internal/bridge"
	"quizform/internal/testutil"
	"quizform/internal/wizard"
)

// openTestArchive opens an archive in a temp dir and closes it with the test.
func openTestArchive(t *testing.T) (*Archive, context.Context) {
	t.Helper()
	ctx := testutil.Context(t, 5*time.Second)
	archive, err := Open(ctx, filepath.Join(t.TempDir(), "submissions.duckdb"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() { _ = archive.Close() })
	return archive, ctx
}

// samplePayload returns a small payload with a user.
func samplePayload() wizard.Payload {
	return wizard.Payload{
		Answers: wizard.AnswerSet{
			"q1": {"f1": 5},
			"q2": {"f1": 2.5},
		},
		SubmittedAt: "2026-10-18T09:30:15.123Z",
		User:        &bridge.User{ID: 42, FirstName: "Ada"},
	}
}

// TestRecordAndList verifies payloads round-trip through the archive.
func TestRecordAndList(t *testing.T) {
	archive, ctx := openTestArchive(t)
	id, err := archive.Record(ctx, "session-1", wizard.DeliveryHost, samplePayload())
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if id == "" {
		t.Fatalf("expected submission id")
	}
	records, err := archive.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	record := records[0]
	if record.ID != id || record.SessionID != "session-1" || record.Delivery != "host" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.UserID == nil || *record.UserID != 42 {
		t.Fatalf("unexpected user id: %v", record.UserID)
	}
	if record.Payload.Answers["q2"]["f1"] != 2.5 {
		t.Fatalf("unexpected payload answers: %v", record.Payload.Answers)
	}
}

// TestRecordDeduplicatesPayloads verifies identical payloads are stored once.
func TestRecordDeduplicatesPayloads(t *testing.T) {
	archive, ctx := openTestArchive(t)
	first, err := archive.Record(ctx, "s1", wizard.DeliveryHost, samplePayload())
	if err != nil {
		t.Fatalf("record first: %v", err)
	}
	second, err := archive.Record(ctx, "s1", wizard.DeliveryHost, samplePayload())
	if err != nil {
		t.Fatalf("record second: %v", err)
	}
	if first != second {
		t.Fatalf("expected same id, got %s and %s", first, second)
	}
	records, err := archive.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

// TestRecordWithoutUser verifies anonymous payloads store a NULL user id.
func TestRecordWithoutUser(t *testing.T) {
	archive, ctx := openTestArchive(t)
	payload := samplePayload()
	payload.User = nil
	if _, err := archive.Record(ctx, "s2", wizard.DeliveryFallback, payload); err != nil {
		t.Fatalf("record: %v", err)
	}
	records, err := archive.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if records[0].UserID != nil || records[0].Payload.User != nil {
		t.Fatalf("expected no user, got %+v", records[0])
	}
}

// TestCanonicalPayloadIsStable verifies map ordering does not change the bytes.
func TestCanonicalPayloadIsStable(t *testing.T) {
	a, err := CanonicalPayload(samplePayload())
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	b, err := CanonicalPayload(samplePayload())
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("expected stable output:\n%s\n%s", a, b)
	}
	want := `{"answers":{"q1":{"f1":5},"q2":{"f1":2.5}},"submittedAt":"2026-10-18T09:30:15.123Z","user":{"id":42,"first_name":"Ada"}}`
	if string(a) != want {
		t.Fatalf("unexpected canonical json:\n got: %s\nwant: %s", a, want)
	}
}

// TestEnsureSchemaRejectsNil verifies a nil db is reported.
func TestEnsureSchemaRejectsNil(t *testing.T) {
	if err := EnsureSchema(nil); err == nil {
		t.Fatalf("expected error")
	}
}
