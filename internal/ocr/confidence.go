/**
 * Confidence Scorer - aggregate statistics over merged text regions
 */

package ocr

// Score computes the document-level confidence statistics for a merged
// region set. An empty set yields all-zero statistics WITHOUT a total_blocks
// key; downstream consumers use its presence to tell "nothing detected"
// apart from "zero-confidence detections".
//
// overall and average_per_block carry the same value; both names are part of
// the stable output contract and kept for downstream compatibility.
func Score(regions []TextRegion) map[string]float64 {
	if len(regions) == 0 {
		return map[string]float64{
			"overall":           0.0,
			"average_per_block": 0.0,
			"min":               0.0,
			"max":               0.0,
		}
	}

	sum := 0.0
	low := regions[0].Confidence
	high := regions[0].Confidence

	for _, region := range regions {
		sum += region.Confidence
		if region.Confidence < low {
			low = region.Confidence
		}
		if region.Confidence > high {
			high = region.Confidence
		}
	}

	mean := sum / float64(len(regions))

	return map[string]float64{
		"overall":           mean,
		"average_per_block": mean,
		"min":               low,
		"max":               high,
		"total_blocks":      float64(len(regions)),
	}
}

// RefineFields recomputes per-field confidence after fields are known. The
// refinement rule is an open extension point; until product requirements pin
// one down this is a passthrough that leaves regions and fields untouched.
func RefineFields(regions []TextRegion, fields []Field) []Field {
	return fields
}
