/**
 * Page Source for the extraction worker
 *
 * Turns an uploaded document (raster image or scanned PDF) into an ordered
 * sequence of raster page buffers for the recognizer adapters.
 */

package pages

import (
	"fmt"
)

// Page is a single raster page buffer handed to the recognizer adapters.
// Data holds the encoded image bytes in the format named by MimeType.
type Page struct {
	Number   int
	Width    int
	Height   int
	MimeType string
	Data     []byte
}

// Validate checks the page invariants: non-empty buffer, positive dimensions.
func (p *Page) Validate() error {
	if len(p.Data) == 0 {
		return fmt.Errorf("page %d: empty image buffer", p.Number)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("page %d: invalid dimensions %dx%d", p.Number, p.Width, p.Height)
	}
	return nil
}
