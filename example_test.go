package metavault_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/aretw0/metavault"
	"github.com/aretw0/metavault/pkg/archive"
	"github.com/aretw0/metavault/pkg/core"
)

// Example_basic creates a repository in a directory, adds a field to the
// core schema and publishes the result back to the directory.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "metavault-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	if _, err := metavault.Init(ctx, tmpDir, metavault.WithVersioning(false), metavault.WithLogger(quiet)); err != nil {
		log.Fatal(err)
	}

	s, err := metavault.Open(ctx, tmpDir, metavault.WithLogger(quiet))
	if err != nil {
		log.Fatal(err)
	}
	if err := s.SetActiveSchema(ctx, "core.json"); err != nil {
		log.Fatal(err)
	}

	err = s.AddField("core.json", core.Field{
		ID:    "cclom:language",
		Label: core.Localized("Sprache", "Language"),
	})
	if err != nil {
		log.Fatal(err)
	}

	doc, _ := s.ActiveSchema()
	for _, f := range doc.Fields {
		fmt.Println(f.ID)
	}

	n, err := s.Publish(ctx, s.Documents().(core.WritableStore), "")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("published", n, "documents, dirty:", s.Dirty())

	// Output:
	// cclom:title
	// ccm:oeh_flex_lrt
	// cclom:language
	// published 3 documents, dirty: false
}

// Example_archive exports an in-memory repository as a ZIP archive and lists
// its entries.
func Example_archive() {
	ctx := context.Background()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := metavault.New("", metavault.WithAdapter(metavault.AdapterMemory), metavault.WithLogger(quiet))
	if err != nil {
		log.Fatal(err)
	}
	if err := s.CreateContext("default", "Default", "", nil); err != nil {
		log.Fatal(err)
	}
	if err := s.CreateContext("event", "Events", "default", nil); err != nil {
		log.Fatal(err)
	}

	data, err := s.ExportAsZip(ctx)
	if err != nil {
		log.Fatal(err)
	}
	entries, err := archive.Entries(data, "**/manifest.json")
	if err != nil {
		log.Fatal(err)
	}
	for _, e := range entries {
		fmt.Println(e)
	}

	// Output:
	// default/manifest.json
	// event/manifest.json
}
