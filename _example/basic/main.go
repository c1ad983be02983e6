package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hupe1980/sievego"
	"github.com/hupe1980/sievego/resource"
)

func main() {
	ctx := context.Background()

	rc := resource.NewController(resource.Config{
		StorageLimitBytes: 64 << 20,
		MaxWorkers:        4,
	})

	reg := sievego.NewRegistry(
		sievego.WithLogger(sievego.NewTextLogger(slog.LevelInfo)),
		sievego.WithResourceController(rc),
	)
	defer reg.Close()

	fmt.Println("Creating sieves...")
	for _, rang := range []uint64{100, 10_000, 1_000_000} {
		name := fmt.Sprintf("upto-%d", rang)
		if _, err := reg.Create(name, rang); err != nil {
			log.Fatalf("Create failed: %v", err)
		}
	}

	fmt.Println("Sieving all instances...")
	if err := reg.RunAll(ctx); err != nil {
		log.Fatalf("RunAll failed: %v", err)
	}

	for _, name := range reg.Names() {
		count, err := reg.Count(name)
		if err != nil {
			log.Fatalf("Count failed: %v", err)
		}
		fmt.Printf("%s: %d primes\n", name, count)
	}

	filename := "primes.txt"
	stats, err := reg.WriteFile(ctx, "upto-100", filename)
	if err != nil {
		log.Fatalf("WriteFile failed: %v", err)
	}
	defer os.Remove(filename)

	fmt.Println(stats.Status)
}
