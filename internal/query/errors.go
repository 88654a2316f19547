package query

import (
	"symgraph/internal/errors"
	"symgraph/internal/snapshot"
)

func nodeNotFound(s *snapshot.Snapshot, hash string) error {
	return errors.New(errors.NodeNotFound, s.RepoID(), "query.GetNodeDetail", "no node with hash "+hash)
}
