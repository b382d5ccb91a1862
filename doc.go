// Package metavault is the composition root of a versioned metadata schema
// repository.
//
// A repository is a tree of JSON documents: a context registry, one manifest
// per context listing its versions, and per version a set of schema documents
// made of fields, groups and controlled vocabularies. The store in
// pkg/repository keeps that tree in memory, edits it, and moves it in and out
// of document stores (a directory, optionally versioned with git; a web
// server; memory) and archives (ZIP or a single JSON bundle).
//
// Usage:
//
//	s, err := metavault.Open(ctx, "./schemas", metavault.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	if err := s.SetActiveSchema(ctx, "core.json"); err != nil {
//		return err
//	}
//	err = s.AddField("core.json", core.Field{ID: "cclom:language"})
//
//	zipped, err := s.ExportAsZip(ctx)
package metavault
