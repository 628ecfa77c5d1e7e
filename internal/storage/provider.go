// Package storage defines the blob-store abstraction for uploaded images.
package storage

// Provider accepts binary payloads and hands back stable retrieval
// URLs. The core never inspects blob bytes; validation of extensions
// and emptiness happens in the upload handler.
type Provider interface {
	// Save persists data under a fresh name with the given extension
	// (including the leading dot) and returns the public URL.
	Save(data []byte, ext string) (string, error)
	// Path resolves a blob name to an absolute filesystem path for serving.
	Path(name string) (string, error)
	// Delete removes a stored blob by name.
	Delete(name string) error
}
