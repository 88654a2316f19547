package snapshot

import "database/sql"

// InsertRaw populates the raw tables of a snapshot opened via
// OpenForWrite. Used only by test fixtures that need a real Snapshot
// handle without going through the indexer.
func (s *Snapshot) InsertRaw(nodes []Node, edges []Edge, moduleEdges []ModuleEdge) error {
	return s.withTx(func(tx *sql.Tx) error {
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
		for _, m := range moduleEdges {
			if _, err := tx.Exec(`INSERT INTO module_edges(caller_module,callee_module,edge_count) VALUES (?,?,?)`, m.CallerModule, m.CalleeModule, m.EdgeCount); err != nil {
				return err
			}
		}
		return nil
	})
}

// InsertFeatures populates node_features on a derived snapshot opened via
// OpenForWrite(..., derived=true). Used only by test fixtures.
func (s *Snapshot) InsertFeatures(features []NodeFeatures) error {
	return s.withTx(func(tx *sql.Tx) error {
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
	})
}
