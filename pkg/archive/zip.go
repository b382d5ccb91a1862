package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/metavault/pkg/core"
	"github.com/aretw0/metavault/pkg/typed"
)

// entryTime is stamped on every archive entry so equal snapshots encode to equal bytes.
var entryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// EncodeZip writes the snapshot as a ZIP archive using the document layout.
// Entries are written in path order with a fixed timestamp.
func EncodeZip(s Snapshot) ([]byte, error) {
	files, err := Files(s)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range SortedPaths(files) {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p,
			Method:   zip.Deflate,
			Modified: entryTime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", p, err)
		}
		if _, err := w.Write(files[p]); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", p, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeZip reads an archive produced by EncodeZip (or any archive with the
// same layout). The registry at the archive root is required. Contexts and
// schema files referenced but absent from the archive are skipped. Any
// unreadable entry aborts the whole decode.
func DecodeZip(data []byte) (Snapshot, error) {
	files, err := readZip(data)
	if err != nil {
		return Snapshot{}, err
	}
	return DecodeFiles(files)
}

// Entries lists the archive paths matching a doublestar pattern, in order.
// An empty pattern matches everything.
func Entries(data []byte, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	var out []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if ok, _ := doublestar.Match(pattern, f.Name); ok {
			out = append(out, f.Name)
		}
	}
	return out, nil
}

// DecodeFiles builds a snapshot from a flat path → bytes map.
func DecodeFiles(files map[string][]byte) (Snapshot, error) {
	raw, ok := files[core.RegistryFile]
	if !ok {
		return Snapshot{}, ErrMissingRegistry
	}
	registry, err := typed.Decode[core.ContextRegistry](raw)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s: %v", ErrCorruptArchive, core.RegistryFile, err)
	}
	if registry.Contexts == nil {
		registry.Contexts = make(map[string]core.ContextEntry)
	}

	snap := Snapshot{
		Registry:  &registry,
		Manifests: make(map[string]*core.ContextManifest),
		Schemas:   make(map[string]*core.SchemaDocument),
	}

	for _, name := range registry.Names() {
		dir := registry.Dir(name)
		mp := core.ManifestPath(dir)
		raw, ok := files[mp]
		if !ok {
			continue
		}
		manifest, err := typed.Decode[core.ContextManifest](raw)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %s: %v", ErrCorruptArchive, mp, err)
		}
		snap.Manifests[name] = &manifest

		for version, entry := range manifest.Versions {
			for _, file := range entry.Schemas {
				sp := core.SchemaPath(dir, version, file)
				raw, ok := files[sp]
				if !ok {
					continue
				}
				doc, err := typed.Decode[core.SchemaDocument](raw)
				if err != nil {
					return Snapshot{}, fmt.Errorf("%w: %s: %v", ErrCorruptArchive, sp, err)
				}
				snap.Schemas[core.SchemaKey(name, version, file)] = &doc
			}
		}
	}
	return snap, nil
}

func readZip(data []byte) (map[string][]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	files := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptArchive, f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptArchive, f.Name, err)
		}
		files[f.Name] = content
	}
	return files, nil
}
