package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hupe1980/sievego"
	"github.com/hupe1980/sievego/blobstore"
	"github.com/hupe1980/sievego/snapshot"
)

func main() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "sievego-snapshots")
	if err != nil {
		log.Fatalf("MkdirTemp failed: %v", err)
	}
	defer os.RemoveAll(dir)

	store, err := blobstore.NewLocalStore(dir)
	if err != nil {
		log.Fatalf("NewLocalStore failed: %v", err)
	}

	reg := sievego.NewRegistry(
		sievego.WithSnapshotCompression(snapshot.CompressionLZ4),
	)

	fmt.Println("Sieving primes up to 1,000,000...")
	if _, err := reg.Create("million", 1_000_000); err != nil {
		log.Fatalf("Create failed: %v", err)
	}
	if err := reg.Run("million"); err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	key, err := reg.SaveSnapshot(ctx, store, "million")
	if err != nil {
		log.Fatalf("SaveSnapshot failed: %v", err)
	}
	fmt.Printf("Snapshot saved as %s\n", key)

	fmt.Println("Restoring into a fresh registry...")
	restored := sievego.NewRegistry()

	s, err := restored.LoadSnapshot(ctx, store, key)
	if err != nil {
		log.Fatalf("LoadSnapshot failed: %v", err)
	}

	count, err := s.Count()
	if err != nil {
		log.Fatalf("Count failed: %v", err)
	}
	fmt.Printf("Restored %q: %d primes up to %d\n", s.Name(), count, s.Range())
}
