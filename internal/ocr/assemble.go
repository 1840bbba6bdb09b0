/**
 * Extraction Assembler - packages a finished pass into a document record
 *
 * Pure packaging: no recomputation of blocks, fields, or scores. Document
 * identity and creation metadata come from the caller; the core does not
 * generate identifiers.
 */

package ocr

import (
	"time"
)

// Assemble stamps the caller-supplied document identity onto a finished
// extraction result. The result value is adopted as-is.
func Assemble(result ExtractionResult, documentID, sourcePath string, createdAt time.Time) ProcessedDocument {
	return ProcessedDocument{
		DocumentID: documentID,
		SourcePath: sourcePath,
		Result:     result,
		CreatedAt:  createdAt,
	}
}
