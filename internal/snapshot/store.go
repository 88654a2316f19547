package snapshot

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	symerrors "symgraph/internal/errors"
	"symgraph/internal/logging"
)

// Snapshot is a handle over one repo's relational snapshot. It is opened
// read-only for every analytics request; only the enrichment job (and the
// indexer, out of scope here) ever writes to it.
type Snapshot struct {
	conn     *sql.DB
	logger   *logging.Logger
	repoID   string
	dbPath   string
	hasFeat  bool
}

func dbDir(repoRoot string) string {
	return filepath.Join(repoRoot, ".symgraph")
}

func rawDBPath(repoRoot string) string {
	return filepath.Join(dbDir(repoRoot), "snapshot.db")
}

func derivedDBPath(repoRoot string) string {
	return filepath.Join(dbDir(repoRoot), "snapshot.derived.db")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Open opens the derived snapshot for repoRoot if present, else the raw
// one, per §4.1. It fails with SnapshotNotFound if neither exists.
func Open(repoID, repoRoot string, logger *logging.Logger) (*Snapshot, error) {
	derived := derivedDBPath(repoRoot)
	raw := rawDBPath(repoRoot)

	var path string
	hasFeat := false
	switch {
	case fileExists(derived):
		path, hasFeat = derived, true
	case fileExists(raw):
		path = raw
	default:
		return nil, symerrors.New(symerrors.SnapshotNotFound, repoID, "open", "no snapshot found for repo")
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, symerrors.Wrap(symerrors.SnapshotCorrupt, repoID, "open", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA query_only=ON",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, symerrors.Wrap(symerrors.SnapshotCorrupt, repoID, "open", err)
		}
	}

	s := &Snapshot{conn: conn, logger: logger, repoID: repoID, dbPath: path, hasFeat: hasFeat}
	if err := s.checkIntegrity(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// OpenForWrite opens (creating if necessary) the raw snapshot, or the
// derived one when derived is true, for write access. Used only by test
// fixtures; the enrichment job publishes through WriteDerived instead.
func OpenForWrite(repoRoot string, logger *logging.Logger, derived bool) (*Snapshot, error) {
	if err := os.MkdirAll(dbDir(repoRoot), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	path := rawDBPath(repoRoot)
	if derived {
		path = derivedDBPath(repoRoot)
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, err
		}
	}
	s := &Snapshot{conn: conn, logger: logger, dbPath: path, hasFeat: derived}
	if err := s.initializeRawSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	if derived {
		if err := s.ensureDerivedSchema(); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Snapshot) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// checkIntegrity verifies the tables exist and every edge references two
// known nodes (§3.2 invariant 1).
func (s *Snapshot) checkIntegrity() error {
	var count int
	if err := s.conn.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='nodes'`).Scan(&count); err != nil || count == 0 {
		return symerrors.New(symerrors.SnapshotCorrupt, s.repoID, "open", "nodes table missing")
	}
	var orphans int
	row := s.conn.QueryRow(`
		SELECT count(*) FROM edges e
		WHERE NOT EXISTS (SELECT 1 FROM nodes n WHERE n.hash = e.caller_hash)
		   OR NOT EXISTS (SELECT 1 FROM nodes n WHERE n.hash = e.callee_hash)
	`)
	if err := row.Scan(&orphans); err == nil && orphans > 0 {
		return symerrors.New(symerrors.SnapshotCorrupt, s.repoID, "open", "edges reference unknown nodes")
	}
	return nil
}

// HasFeatures reports whether this is a derived snapshot with node_features.
func (s *Snapshot) HasFeatures() bool { return s.hasFeat }

// RepoID returns the repo identity this handle was opened for.
func (s *Snapshot) RepoID() string { return s.repoID }

// Close releases the underlying database handle.
func (s *Snapshot) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Nodes returns nodes matching filters. External nodes are excluded unless
// IncludeExternal is set.
func (s *Snapshot) Nodes(f Filters) ([]Node, error) {
	q := strings.Builder{}
	q.WriteString(`SELECT hash, name, module, file_path, line_start, line_end, kind, risk, complexity, caller_count, callee_count FROM nodes WHERE 1=1`)
	var args []interface{}
	if !f.IncludeExternal {
		q.WriteString(` AND hash NOT LIKE 'ext:%'`)
	}
	if f.Module != "" {
		q.WriteString(` AND module = ?`)
		args = append(args, f.Module)
	}
	if len(f.Kinds) > 0 {
		q.WriteString(` AND kind IN (` + placeholders(len(f.Kinds)) + `)`)
		for _, k := range f.Kinds {
			args = append(args, k)
		}
	}
	if len(f.Hashes) > 0 {
		q.WriteString(` AND hash IN (` + placeholders(len(f.Hashes)) + `)`)
		for _, h := range f.Hashes {
			args = append(args, h)
		}
	}
	rows, err := s.conn.Query(q.String(), args...)
	if err != nil {
		return nil, symerrors.Wrap(symerrors.SnapshotCorrupt, s.repoID, "nodes", err)
	}
	defer rows.Close()

	var out []Node
	for rows.Next() {
		var n Node
		if err := rows.Scan(&n.Hash, &n.Name, &n.Module, &n.FilePath, &n.LineStart, &n.LineEnd, &n.Kind, &n.Risk, &n.Complexity, &n.CallerCount, &n.CalleeCount); err != nil {
			return nil, symerrors.Wrap(symerrors.SnapshotCorrupt, s.repoID, "nodes", err)
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hash < out[j].Hash })
	return out, rows.Err()
}

// Edges returns all edges. External endpoints are excluded unless
// IncludeExternal is set; the other Filters fields are ignored.
func (s *Snapshot) Edges(f Filters) ([]Edge, error) {
	q := `SELECT caller_hash, callee_hash, call_count FROM edges WHERE 1=1`
	if !f.IncludeExternal {
		q += ` AND caller_hash NOT LIKE 'ext:%' AND callee_hash NOT LIKE 'ext:%'`
	}
	rows, err := s.conn.Query(q)
	if err != nil {
		return nil, symerrors.Wrap(symerrors.SnapshotCorrupt, s.repoID, "edges", err)
	}
	defer rows.Close()

	var out []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.CallerHash, &e.CalleeHash, &e.CallCount); err != nil {
			return nil, symerrors.Wrap(symerrors.SnapshotCorrupt, s.repoID, "edges", err)
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CallerHash != out[j].CallerHash {
			return out[i].CallerHash < out[j].CallerHash
		}
		return out[i].CalleeHash < out[j].CalleeHash
	})
	return out, rows.Err()
}

// ModuleEdges returns module-level aggregate edges. The __external__
// sentinel is included; callers filter it per-view as needed.
func (s *Snapshot) ModuleEdges() ([]ModuleEdge, error) {
	rows, err := s.conn.Query(`SELECT caller_module, callee_module, edge_count FROM module_edges`)
	if err != nil {
		return nil, symerrors.Wrap(symerrors.SnapshotCorrupt, s.repoID, "module_edges", err)
	}
	defer rows.Close()

	var out []ModuleEdge
	for rows.Next() {
		var e ModuleEdge
		if err := rows.Scan(&e.CallerModule, &e.CalleeModule, &e.EdgeCount); err != nil {
			return nil, symerrors.Wrap(symerrors.SnapshotCorrupt, s.repoID, "module_edges", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// NodeFeatures returns enriched feature rows, optionally restricted to
// hashes. Callers must check HasFeatures() first; on a raw snapshot this
// returns SchemaMissing.
func (s *Snapshot) NodeFeatures(hashes []string) ([]NodeFeatures, error) {
	if !s.hasFeat {
		return nil, symerrors.New(symerrors.SchemaMissing, s.repoID, "node_features", "snapshot has not been enriched")
	}
	q := `SELECT hash, scc_id, scc_size, scc_cross_module, topological_depth, reverse_topological_depth,
		transitive_callers, transitive_callees, betweenness_centrality, pagerank, hub_score, authority_score,
		clustering_coeff, xmod_fan_in, xmod_fan_out, xmod_call_ratio, dominant_callee_mod, dominant_callee_frac,
		utility_score, stability_rank, complexity_pct, middleman_score, community_id, community_dominant_mod,
		community_alignment FROM node_features WHERE 1=1`
	var args []interface{}
	if len(hashes) > 0 {
		q += ` AND hash IN (` + placeholders(len(hashes)) + `)`
		for _, h := range hashes {
			args = append(args, h)
		}
	}
	rows, err := s.conn.Query(q, args...)
	if err != nil {
		return nil, symerrors.Wrap(symerrors.SnapshotCorrupt, s.repoID, "node_features", err)
	}
	defer rows.Close()

	var out []NodeFeatures
	for rows.Next() {
		var f NodeFeatures
		var sccCross, alignment int
		if err := rows.Scan(&f.Hash, &f.SCCID, &f.SCCSize, &sccCross, &f.TopologicalDepth, &f.ReverseTopologicalDepth,
			&f.TransitiveCallers, &f.TransitiveCallees, &f.BetweennessCentrality, &f.PageRank, &f.HubScore, &f.AuthorityScore,
			&f.ClusteringCoeff, &f.XModFanIn, &f.XModFanOut, &f.XModCallRatio, &f.DominantCalleeMod, &f.DominantCalleeFrac,
			&f.UtilityScore, &f.StabilityRank, &f.ComplexityPct, &f.MiddlemanScore, &f.CommunityID, &f.CommunityDominantMod,
			&alignment); err != nil {
			return nil, symerrors.Wrap(symerrors.SnapshotCorrupt, s.repoID, "node_features", err)
		}
		f.SCCCrossModule = sccCross != 0
		f.CommunityAlignment = alignment != 0
		out = append(out, f)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := strings.Builder{}
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('?')
	}
	return b.String()
}
