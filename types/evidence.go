package types

// SourceKind classifies where an evidence item was collected from.
type SourceKind string

const (
	SourceWeb    SourceKind = "web"
	SourceSocial SourceKind = "social_media"
	SourceOther  SourceKind = "other"
)

// MediaReference points at media downloaded for an evidence item, together
// with whatever metadata could be extracted from it. ArchiveKey is set when
// the file was also copied to the S3 archive.
type MediaReference struct {
	URL        string                 `json:"url"`
	LocalPath  string                 `json:"local_path"`
	ArchiveKey string                 `json:"archive_key,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Frames     []string               `json:"frames,omitempty"`
}

// EvidenceItem is one unit of collected OSINT material. It is produced by the
// collector and immutable afterwards except for the verifier-added fields
// (VerifiedLocation, Verification).
type EvidenceItem struct {
	ID         string                 `json:"id"`
	Kind       SourceKind             `json:"source"`
	SourceName string                 `json:"source_name"`
	User       string                 `json:"user,omitempty"`
	URL        string                 `json:"url"`
	Title      string                 `json:"title,omitempty"`
	Content    string                 `json:"content"`
	Timestamp  string                 `json:"timestamp"` // ISO-8601, best effort
	SearchTerm string                 `json:"search_term"`
	Media      *MediaReference        `json:"media,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`

	// Set by the verifier.
	VerifiedLocation string              `json:"verified_location,omitempty"`
	Verification     *VerificationRecord `json:"verification,omitempty"`
}

// VerificationRecord captures the outcome of the per-item verification
// pipeline. Every method that ran appended exactly one entry to Methods;
// Confidence is only meaningful once the source reliability check has run.
type VerificationRecord struct {
	Verified   bool     `json:"verified"`
	Confidence float64  `json:"confidence"`
	Methods    []string `json:"methods"`
	Notes      []string `json:"notes"`
}

// AddMethod records that a verification method ran on the item.
func (v *VerificationRecord) AddMethod(name string) {
	v.Methods = append(v.Methods, name)
}

// AddNote appends a human-readable finding to the audit trail.
func (v *VerificationRecord) AddNote(note string) {
	v.Notes = append(v.Notes, note)
}
