package snapshot

import (
	"database/sql"
	"fmt"
)

// Schema versions:
// v1: nodes, edges, module_edges (raw snapshot, written by the indexer)
// v2: node_features (derived snapshot, written once by enrichment)
const currentSchemaVersion = 2

func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`)
	return err
}

func createNodesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS nodes (
		hash TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		module TEXT,
		file_path TEXT,
		line_start INTEGER,
		line_end INTEGER,
		kind TEXT,
		risk TEXT,
		complexity INTEGER DEFAULT 0,
		caller_count INTEGER DEFAULT 0,
		callee_count INTEGER DEFAULT 0
	)`)
	if err != nil {
		return fmt.Errorf("create nodes table: %w", err)
	}
	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_nodes_module ON nodes(module)`)
	return err
}

func createEdgesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS edges (
		caller_hash TEXT NOT NULL,
		callee_hash TEXT NOT NULL,
		call_count INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return fmt.Errorf("create edges table: %w", err)
	}
	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_edges_caller ON edges(caller_hash)`)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_edges_callee ON edges(callee_hash)`)
	return err
}

func createModuleEdgesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS module_edges (
		caller_module TEXT NOT NULL,
		callee_module TEXT NOT NULL,
		edge_count INTEGER NOT NULL DEFAULT 0
	)`)
	return err
}

func createNodeFeaturesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS node_features (
		hash TEXT PRIMARY KEY,
		scc_id INTEGER,
		scc_size INTEGER,
		scc_cross_module INTEGER,
		topological_depth INTEGER,
		reverse_topological_depth INTEGER,
		transitive_callers INTEGER,
		transitive_callees INTEGER,
		betweenness_centrality REAL,
		pagerank REAL,
		hub_score REAL,
		authority_score REAL,
		clustering_coeff REAL,
		xmod_fan_in INTEGER,
		xmod_fan_out INTEGER,
		xmod_call_ratio REAL,
		dominant_callee_mod TEXT,
		dominant_callee_frac REAL,
		utility_score REAL,
		stability_rank REAL,
		complexity_pct REAL,
		middleman_score REAL,
		community_id INTEGER,
		community_dominant_mod TEXT,
		community_alignment INTEGER
	)`)
	return err
}

// initializeRawSchema creates the tables the indexer writes into.
func (s *Snapshot) initializeRawSchema() error {
	return s.withTx(func(tx *sql.Tx) error {
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}
		if err := createNodesTable(tx); err != nil {
			return err
		}
		if err := createEdgesTable(tx); err != nil {
			return err
		}
		if err := createModuleEdgesTable(tx); err != nil {
			return err
		}
		_, err := tx.Exec(`INSERT INTO schema_version(version) VALUES (?)`, 1)
		return err
	})
}

// ensureDerivedSchema adds node_features to an already-raw snapshot. Called
// by the enrichment writer before it populates rows.
func (s *Snapshot) ensureDerivedSchema() error {
	return s.withTx(func(tx *sql.Tx) error {
		if err := createNodeFeaturesTable(tx); err != nil {
			return err
		}
		_, err := tx.Exec(`INSERT INTO schema_version(version) VALUES (?)`, currentSchemaVersion)
		return err
	})
}
