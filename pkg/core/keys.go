package core

import (
	"fmt"
	"regexp"
	"strings"
)

// Well-known file names of the document layout.
const (
	RegistryFile = "context-registry.json"
	ManifestFile = "manifest.json"
)

// Layout, relative to the store root:
//
//	context-registry.json
//	{context.path}/manifest.json
//	{context.path}/v{version}/{schemaFile}

// ManifestPath returns the path of a context manifest.
func ManifestPath(dir string) string {
	return dir + "/" + ManifestFile
}

// SchemaPath returns the path of a schema document.
func SchemaPath(dir, version, file string) string {
	return dir + "/v" + version + "/" + file
}

// SchemaKey builds the composite cache key "{context}@{version}/{file}".
func SchemaKey(context, version, file string) string {
	return context + "@" + version + "/" + file
}

var schemaKeyPattern = regexp.MustCompile(`^([^@]+)@([^/]+)/(.+)$`)

// ParseSchemaKey is the inverse of SchemaKey.
func ParseSchemaKey(key string) (context, version, file string, ok bool) {
	m := schemaKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return "", "", "", false
	}
	return m[1], m[2], m[3], true
}

// ValidateContextName rejects names that would break the composite key.
func ValidateContextName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: context name is empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, "@/\\") {
		return fmt.Errorf("%w: context name %q must not contain '@', '/' or '\\'", ErrInvalidName, name)
	}
	return nil
}

// ValidateVersionName rejects version strings that would break the composite key.
func ValidateVersionName(version string) error {
	if strings.TrimSpace(version) == "" {
		return fmt.Errorf("%w: version is empty", ErrInvalidName)
	}
	if strings.ContainsAny(version, "/\\") {
		return fmt.Errorf("%w: version %q must not contain '/' or '\\'", ErrInvalidName, version)
	}
	return nil
}

// ValidateSchemaFile rejects schema filenames that escape their version folder.
func ValidateSchemaFile(file string) error {
	if strings.TrimSpace(file) == "" {
		return fmt.Errorf("%w: schema filename is empty", ErrInvalidName)
	}
	if strings.ContainsAny(file, "/\\") || file == "." || file == ".." {
		return fmt.Errorf("%w: schema filename %q must be a plain file name", ErrInvalidName, file)
	}
	return nil
}
