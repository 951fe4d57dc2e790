//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
)

// Run with: MIRROR_POSTGRES_URL=postgres://... go test -tags=integration ./internal/mirror/postgres

func TestIntegration_PushIsIdempotent(t *testing.T) {
	url := os.Getenv("MIRROR_POSTGRES_URL")
	if url == "" {
		t.Skip("MIRROR_POSTGRES_URL not set, skipping integration test")
	}
	ctx := context.Background()
	m, err := Open(ctx, url)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer m.Close()

	snap := testSnapshot(t)
	for i := 0; i < 2; i++ {
		if err := m.Push(ctx, snap); err != nil {
			t.Fatalf("Push #%d: %v", i+1, err)
		}
	}

	var rev int64
	if err := m.pool.QueryRow(ctx, `SELECT revision FROM wedplan_document WHERE id = 1`).Scan(&rev); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if rev < int64(snap.Revision) {
		t.Errorf("mirrored revision %d, want at least %d", rev, snap.Revision)
	}
}
