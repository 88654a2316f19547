// Package repoconfig persists the per-repo load-bearing declaration
// sidecar described in §4.6 "Config Store": a small YAML document read
// fresh on every request (no caching, so edits take effect immediately)
// and written atomically via a temp-file rename, the same publishing
// discipline internal/snapshot uses for derived databases.
package repoconfig

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"symgraph/internal/errors"
)

const configFileName = "loadbearing.yaml"

// Document is the declared-inventory sidecar for one repo.
type Document struct {
	DeclaredNodes   []string `yaml:"declared_nodes"`
	DeclaredModules []string `yaml:"declared_modules"`
}

func configPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".symgraph", configFileName)
}

// Load reads the sidecar for repoRoot. A missing file is not an error: it
// returns an empty Document, since a repo with no declarations yet is a
// normal starting state.
func Load(repoID, repoRoot string) (Document, error) {
	path := configPath(repoRoot)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Document{}, nil
	}
	if err != nil {
		return Document{}, errors.Wrap(errors.SnapshotCorrupt, repoID, "repoconfig.Load", err)
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, errors.Wrap(errors.SnapshotCorrupt, repoID, "repoconfig.Load", err)
	}
	return doc, nil
}

// Save writes the sidecar atomically: marshal to a temp file in the same
// directory, then rename over the final path, so a reader never observes
// a partially written document.
func Save(repoID, repoRoot string, doc Document) error {
	path := configPath(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.InvalidArgument, repoID, "repoconfig.Save", err)
	}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.InvalidArgument, repoID, "repoconfig.Save", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return errors.Wrap(errors.InvalidArgument, repoID, "repoconfig.Save", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(errors.InvalidArgument, repoID, "repoconfig.Save", err)
	}
	return nil
}

// Declare adds hash to declared_nodes if absent, persisting the change
// immediately (§6 "load_bearing.declare").
func Declare(repoID, repoRoot, hash string) error {
	doc, err := Load(repoID, repoRoot)
	if err != nil {
		return err
	}
	for _, h := range doc.DeclaredNodes {
		if h == hash {
			return nil
		}
	}
	doc.DeclaredNodes = append(doc.DeclaredNodes, hash)
	return Save(repoID, repoRoot, doc)
}
