// Package storagetest checks that a storage.Storage backend honors the
// contract the audio store relies on.
package storagetest

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/kbukum/lingolink/storage"
)

// Run exercises a fresh, empty backend returned by open.
func Run(t *testing.T, open func(t *testing.T) storage.Storage) {
	t.Helper()

	t.Run("PutGet", func(t *testing.T) {
		s, ctx := open(t), context.Background()
		put(t, s, "translated_a.mp3", "ID3first")
		put(t, s, "translated_a.mp3", "ID3second")
		if got := get(t, s, "translated_a.mp3"); got != "ID3second" {
			t.Errorf("expected overwritten content, got %q", got)
		}
		if ok, err := s.Exists(ctx, "translated_a.mp3"); err != nil || !ok {
			t.Errorf("Exists = %v, %v", ok, err)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := open(t)
		_, err := s.Get(context.Background(), "translated_missing.mp3")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteIdempotent", func(t *testing.T) {
		s, ctx := open(t), context.Background()
		put(t, s, "translated_a.mp3", "ID3")
		for i := 0; i < 2; i++ {
			if err := s.Delete(ctx, "translated_a.mp3"); err != nil {
				t.Fatalf("Delete #%d: %v", i+1, err)
			}
		}
		if ok, err := s.Exists(ctx, "translated_a.mp3"); err != nil || ok {
			t.Errorf("Exists after delete = %v, %v", ok, err)
		}
	})

	t.Run("ListByPrefix", func(t *testing.T) {
		s, ctx := open(t), context.Background()
		if objs, err := s.List(ctx, "translated_"); err != nil || len(objs) != 0 {
			t.Fatalf("empty List = %v, %v", objs, err)
		}
		for _, key := range []string{"translated_b.mp3", "notes.txt", "translated_a.mp3"} {
			put(t, s, key, "ID3"+key)
		}

		objs, err := s.List(ctx, "translated_")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(objs) != 2 || objs[0].Key != "translated_a.mp3" || objs[1].Key != "translated_b.mp3" {
			t.Fatalf("unexpected listing %+v", objs)
		}
		if objs[0].Size != int64(len("ID3translated_a.mp3")) || objs[0].Modified.IsZero() {
			t.Errorf("missing metadata %+v", objs[0])
		}
	})
}

func put(t *testing.T, s storage.Storage, key, data string) {
	t.Helper()
	if err := s.Put(context.Background(), key, strings.NewReader(data)); err != nil {
		t.Fatalf("Put %s: %v", key, err)
	}
}

func get(t *testing.T, s storage.Storage, key string) string {
	t.Helper()
	rc, err := s.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get %s: %v", key, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return string(data)
}
