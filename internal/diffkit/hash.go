// Package diffkit holds small helpers shared by the diff analytics kernel
// and the diff coordinator: the opaque node-hash convention is
// `<module_hash>:<content_hash>`, with `ext:`-prefixed hashes for external
// symbols compared whole rather than split (§4.4 "Diff").
package diffkit

import "strings"

const externalPrefix = "ext:"

// ContentHash extracts the content portion of an opaque node hash by
// splitting on the first colon. External (ext:) hashes are returned
// whole, since they have no module-qualified content segment to strip.
func ContentHash(hash string) string {
	if strings.HasPrefix(hash, externalPrefix) {
		return hash
	}
	if idx := strings.Index(hash, ":"); idx >= 0 {
		return hash[idx+1:]
	}
	return hash
}
