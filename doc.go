// Package sievego provides an embeddable prime sieve engine for Go.
//
// Sievego computes all primes up to a caller-chosen bound with a packed
// odd-number sieve of Eratosthenes, optimized for raw throughput in a
// bounded-memory environment:
//
//   - One storage cell per tracked odd integer; 2 is handled implicitly
//   - Batched inner marking loops driven by an exact replication primitive
//   - Named instances with independent ranges and storage, coordinated
//     through a Registry
//   - Hard storage budgets, bounded concurrent sieving, and emit throttling
//     via the resource controller
//   - Checksummed, compressed snapshots (local file, MinIO, S3) with a
//     DynamoDB-backed publish catalog
//
// # Quick Start
//
// Create a registry, sieve a range, and emit the primes:
//
//	reg := sievego.NewRegistry()
//
//	if _, err := reg.Create("bench", 1000); err != nil {
//	    log.Fatal(err)
//	}
//	if err := reg.Run("bench"); err != nil {
//	    log.Fatal(err)
//	}
//
//	count, _ := reg.Count("bench") // 168
//
//	stats, err := reg.WriteFile(ctx, "bench", "primes.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(stats.Status) // "168 primes were written to file primes.txt"
//
// # Lifecycle
//
// Each instance moves through an explicit state machine:
//
//	Create -> Run -> Count/WritePrimes/Primes/Bitmap -> Reset -> Run -> ...
//
// Querying an instance that has not been sieved is a hard error
// (ErrNotSieved); re-running without a reset is legal and changes nothing.
// Instances never share mutable state, so distinct instances may be sieved
// concurrently (see Registry.RunAll); calls on a single instance must be
// serialized by the caller.
//
// # Resource Limits
//
// Slot storage is reserved at creation time and kept for the registry's
// lifetime. With a resource controller attached, creation fails fast with
// ErrStorageExhausted instead of overcommitting:
//
//	rc := resource.NewController(resource.Config{
//	    StorageLimitBytes: 64 << 20,
//	    MaxWorkers:        4,
//	})
//	reg := sievego.NewRegistry(sievego.WithResourceController(rc))
//
// # Snapshots
//
// Instances can be persisted and restored through any blobstore.BlobStore:
//
//	store, _ := blobstore.NewLocalStore("./snapshots")
//	key, _ := reg.SaveSnapshot(ctx, store, "bench")
//	restored, _ := reg2.LoadSnapshot(ctx, store, key)
package sievego
