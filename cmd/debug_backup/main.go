package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"aniport/core/reconcile"
	"aniport/feature/backup"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s BACKUP.json", os.Args[0])
	}
	path := os.Args[1]

	snap, err := backup.Load(path)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("=== Backup ===")
	fmt.Printf("Path:    %s\n", snap.Path)
	fmt.Printf("Shape:   %s\n", snap.Shape)
	fmt.Printf("Entries: %d\n", len(snap.Entries))

	counts := snap.Count()
	for _, kind := range reconcile.Kinds {
		fmt.Printf("  %-6s %d\n", kind, counts[kind])
	}

	// Distinct primary tags per kind, i.e. the custom lists a restore would create.
	fmt.Println("\n=== Custom lists ===")
	tags := make(map[reconcile.Kind]map[string]int)
	dupes := 0
	seen := make(map[reconcile.Key]bool)
	for _, e := range snap.Entries {
		if seen[e.Key()] {
			dupes++
		}
		seen[e.Key()] = true

		tag := e.PrimaryTag()
		if tag == "" {
			continue
		}
		if tags[e.Kind] == nil {
			tags[e.Kind] = make(map[string]int)
		}
		tags[e.Kind][tag]++
	}
	for _, kind := range reconcile.Kinds {
		names := make([]string, 0, len(tags[kind]))
		for name := range tags[kind] {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-6s %-30s %d\n", kind, name, tags[kind][name])
		}
	}
	if dupes > 0 {
		fmt.Printf("\nWARNING: %d duplicate entries (same kind and media id)\n", dupes)
	}

	fmt.Println("\n=== Derived artifacts ===")
	fmt.Printf("Failed:   %s\n", backup.FailedPath(path))
	fmt.Printf("Left out: %s\n", backup.LeftOutPath(path))
}
