package snapshot

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"symgraph/internal/logging"
)

// WriteDerived writes a brand-new derived snapshot: it copies nodes, edges
// and module_edges from the raw snapshot, inserts the given feature rows,
// and atomically publishes the result (temp file + rename), per §3.2 "the
// derived snapshot is written atomically". A gzip-free JSON side-cache of
// the same rows is zstd-compressed next to the db for fast re-reads by
// tooling that wants the feature set without a SQL round-trip.
func WriteDerived(repoRoot, repoID string, logger *logging.Logger, features []NodeFeatures) error {
	raw, err := Open(repoID, repoRoot, logger)
	if err != nil {
		return err
	}
	nodes, err := raw.Nodes(Filters{IncludeExternal: true})
	if err != nil {
		raw.Close()
		return err
	}
	edges, err := raw.Edges(Filters{IncludeExternal: true})
	if err != nil {
		raw.Close()
		return err
	}
	modEdges, err := raw.ModuleEdges()
	if err != nil {
		raw.Close()
		return err
	}
	raw.Close()

	tmpPath := derivedDBPath(repoRoot) + ".tmp"
	os.Remove(tmpPath)

	conn, err := sql.Open("sqlite", tmpPath)
	if err != nil {
		return fmt.Errorf("open temp derived db: %w", err)
	}
	tmp := &Snapshot{conn: conn, logger: logger, repoID: repoID, dbPath: tmpPath, hasFeat: true}
	if err := tmp.initializeRawSchema(); err != nil {
		conn.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.ensureDerivedSchema(); err != nil {
		conn.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.withTx(func(tx *sql.Tx) error {
		for _, n := range nodes {
			if _, err := tx.Exec(`INSERT INTO nodes(hash,name,module,file_path,line_start,line_end,kind,risk,complexity,caller_count,callee_count)
				VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
				n.Hash, n.Name, n.Module, n.FilePath, n.LineStart, n.LineEnd, n.Kind, n.Risk, n.Complexity, n.CallerCount, n.CalleeCount); err != nil {
				return err
			}
		}
		for _, e := range edges {
			if _, err := tx.Exec(`INSERT INTO edges(caller_hash,callee_hash,call_count) VALUES (?,?,?)`, e.CallerHash, e.CalleeHash, e.CallCount); err != nil {
				return err
			}
		}
		for _, m := range modEdges {
			if _, err := tx.Exec(`INSERT INTO module_edges(caller_module,callee_module,edge_count) VALUES (?,?,?)`, m.CallerModule, m.CalleeModule, m.EdgeCount); err != nil {
				return err
			}
		}
		for _, f := range features {
			if _, err := tx.Exec(`INSERT INTO node_features(hash,scc_id,scc_size,scc_cross_module,topological_depth,reverse_topological_depth,
				transitive_callers,transitive_callees,betweenness_centrality,pagerank,hub_score,authority_score,clustering_coeff,
				xmod_fan_in,xmod_fan_out,xmod_call_ratio,dominant_callee_mod,dominant_callee_frac,utility_score,stability_rank,
				complexity_pct,middleman_score,community_id,community_dominant_mod,community_alignment)
				VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
				f.Hash, f.SCCID, f.SCCSize, boolToInt(f.SCCCrossModule), f.TopologicalDepth, f.ReverseTopologicalDepth,
				f.TransitiveCallers, f.TransitiveCallees, f.BetweennessCentrality, f.PageRank, f.HubScore, f.AuthorityScore,
				f.ClusteringCoeff, f.XModFanIn, f.XModFanOut, f.XModCallRatio, f.DominantCalleeMod, f.DominantCalleeFrac,
				f.UtilityScore, f.StabilityRank, f.ComplexityPct, f.MiddlemanScore, f.CommunityID, f.CommunityDominantMod,
				boolToInt(f.CommunityAlignment)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		conn.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("populate derived snapshot: %w", err)
	}
	if err := conn.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := writeFeatureCache(repoRoot, features); err != nil {
		logger.Warn("failed to write feature cache", map[string]interface{}{"error": err.Error()})
	}

	finalPath := derivedDBPath(repoRoot)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publish derived snapshot: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func featureCachePath(repoRoot string) string {
	return filepath.Join(dbDir(repoRoot), "node_features.json.zst")
}

func writeFeatureCache(repoRoot string, features []NodeFeatures) error {
	raw, err := json.Marshal(features)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	defer enc.Close()

	var buf bytes.Buffer
	w := enc
	compressed := w.EncodeAll(raw, nil)
	buf.Write(compressed)

	tmp := featureCachePath(repoRoot) + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, featureCachePath(repoRoot))
}

// ReadFeatureCache reads back the zstd-compressed feature cache written by
// WriteDerived, if present.
func ReadFeatureCache(repoRoot string) ([]NodeFeatures, error) {
	data, err := os.ReadFile(featureCachePath(repoRoot))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, err
	}
	var features []NodeFeatures
	if err := json.Unmarshal(raw, &features); err != nil {
		return nil, err
	}
	return features, nil
}
