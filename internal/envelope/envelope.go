// Package envelope provides a standardized response wrapper for every
// analytics request contract (§6): each result is wrapped in a consistent
// envelope carrying snapshot provenance, truncation bookkeeping and any
// non-fatal warnings (e.g. degraded enrichment steps), so the
// visualization UI always gets the same top-level shape regardless of
// which operation produced the payload.
package envelope

// Provenance identifies which snapshot produced a result.
type Provenance struct {
	RepoID      string `json:"repoId"`
	HasEnriched bool   `json:"hasEnriched"` // node_features present (derived snapshot)
}

// Truncation describes result trimming against a documented cap (top N,
// dead-code limit, misaligned-nodes cap 200, pivot symbol-grain cap 500,
// diff max_nodes, etc.).
type Truncation struct {
	IsTruncated bool   `json:"isTruncated"`
	Shown       int    `json:"shown,omitempty"`
	Total       int    `json:"total,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Meta holds response metadata.
type Meta struct {
	Provenance *Provenance `json:"provenance,omitempty"`
	Truncation *Truncation `json:"truncation,omitempty"`
}

// Warning represents a non-fatal issue, e.g. an enrichment step that
// failed and was degraded to defaults, or a pivot dimension/measure
// token silently dropped.
type Warning struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Response is the standard envelope wrapping every analytics result.
type Response struct {
	SchemaVersion string      `json:"schemaVersion"`
	Data          interface{} `json:"data"`
	Meta          *Meta       `json:"meta,omitempty"`
	Warnings      []Warning   `json:"warnings,omitempty"`
	Error         *string     `json:"error,omitempty"`
}

// CurrentSchemaVersion is the current envelope schema version.
const CurrentSchemaVersion = "1.0"

// New wraps data for the given repo, with no truncation or warnings.
func New(repoID string, hasEnriched bool, data interface{}) Response {
	return Response{
		SchemaVersion: CurrentSchemaVersion,
		Data:          data,
		Meta: &Meta{
			Provenance: &Provenance{RepoID: repoID, HasEnriched: hasEnriched},
		},
	}
}

// WithTruncation attaches truncation bookkeeping to a response.
func (r Response) WithTruncation(shown, total int, reason string) Response {
	if r.Meta == nil {
		r.Meta = &Meta{}
	}
	r.Meta.Truncation = &Truncation{
		IsTruncated: shown < total,
		Shown:       shown, Total: total, Reason: reason,
	}
	return r
}

// WithWarning appends one warning to a response.
func (r Response) WithWarning(code, message string) Response {
	r.Warnings = append(r.Warnings, Warning{Code: code, Message: message})
	return r
}

// Err builds an error envelope carrying no data.
func Err(repoID string, message string) Response {
	return Response{
		SchemaVersion: CurrentSchemaVersion,
		Meta:          &Meta{Provenance: &Provenance{RepoID: repoID}},
		Error:         &message,
	}
}
