package services

import "context"

// DocumentStoreSvc persists rendered billing documents (bills, deposit
// receipts) and returns a shareable link. Upload failures are logged and
// degrade gracefully: the document link stays null and the financial
// computation is never rolled back.
type DocumentStoreSvc interface {
	// Upload stores content under filename and returns its link.
	Upload(ctx context.Context, filename string, mimeType string, content []byte) (string, error)
}
