package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/metavault"
	"github.com/aretw0/metavault/pkg/core"
)

func main() {
	versions := flag.Int("versions", 20, "Number of versions to generate")
	schemas := flag.Int("schemas", 10, "Number of schema documents per version")
	fields := flag.Int("fields", 50, "Number of fields per schema document")
	keep := flag.Bool("keep", false, "Keep the benchmark repository after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "metavault_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	fmt.Printf("Generating %d versions x %d schemas x %d fields in %s...\n", *versions, *schemas, *fields, benchDir)
	startGen := time.Now()
	if _, err := metavault.Init(ctx, benchDir, metavault.WithLogger(logger)); err != nil {
		panic(err)
	}
	gen, err := metavault.Open(ctx, benchDir, metavault.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	if err := seed(ctx, gen, *versions, *schemas, *fields); err != nil {
		panic(err)
	}
	dst := gen.Documents().(core.WritableStore)
	written, err := gen.Publish(ctx, dst, "")
	if err != nil {
		panic(err)
	}
	fmt.Printf("Generation took: %v (%d documents)\n", time.Since(startGen), written)

	// A fresh store per run measures a cold CLI invocation.
	fmt.Println("Running LoadAllSchemas (cold)...")
	startLoad := time.Now()
	s, err := metavault.Open(ctx, benchDir, metavault.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	if err := s.LoadAllSchemas(ctx); err != nil {
		panic(err)
	}
	loadDuration := time.Since(startLoad)

	startZip := time.Now()
	data, err := s.ExportAsZip(ctx)
	if err != nil {
		panic(err)
	}
	zipDuration := time.Since(startZip)

	mem, err := metavault.New("", metavault.WithAdapter(metavault.AdapterMemory), metavault.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	startImport := time.Now()
	if err := mem.ImportFromZip(data); err != nil {
		panic(err)
	}
	importDuration := time.Since(startImport)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d schema documents):\n", len(s.SchemaKeys()))
	fmt.Printf("  Load:   %v\n", loadDuration)
	fmt.Printf("  Export: %v (%d bytes)\n", zipDuration, len(data))
	fmt.Printf("  Import: %v\n", importDuration)
	fmt.Printf("--------------------------------------------------\n")
}

// seed fills the default context. Versions are derived from each other so
// every version carries the full set of documents.
func seed(ctx context.Context, s *metavault.Store, versions, schemas, fields int) error {
	if err := s.LoadAllSchemas(ctx); err != nil {
		return err
	}
	for i := 0; i < schemas; i++ {
		file := fmt.Sprintf("schema_%03d.json", i)
		if err := s.CreateSchema(file, fmt.Sprintf("profile_%03d", i), ""); err != nil {
			return err
		}
		for j := 0; j < fields; j++ {
			f := core.Field{
				ID:    fmt.Sprintf("bench:field_%03d", j),
				Group: core.DefaultGroupID,
				Label: core.Localized(fmt.Sprintf("Feld %d", j), fmt.Sprintf("Field %d", j)),
				System: core.SystemConfig{
					Path:     fmt.Sprintf("bench:field_%03d", j),
					Datatype: core.DatatypeString,
				},
			}
			if err := s.AddField(file, f); err != nil {
				return err
			}
		}
	}

	base := core.InitialVersion
	for i := 1; i < versions; i++ {
		next := fmt.Sprintf("1.%d.0", i)
		if err := s.CreateVersion(core.DefaultContextName, next, base); err != nil {
			return err
		}
		base = next
	}
	return s.Err()
}
