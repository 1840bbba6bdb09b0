/**
 * Ensemble Combiner - fuses detections from independent recognizers
 *
 * Merges the per-engine region sets for one page into a single deduplicated
 * set. Regions are clustered by spatial overlap (IoU >= 0.5) and each cluster
 * collapses to its highest-confidence member.
 */

package ocr

// IoUThreshold is the minimum Intersection-over-Union for two boxes to be
// treated as the same detection.
const IoUThreshold = 0.5

// IoU computes the Intersection-over-Union of two axis-aligned boxes.
// Boxes that do not intersect (or are degenerate) score 0.
func IoU(a, b BoundingBox) float64 {
	left := max(a.X, b.X)
	top := max(a.Y, b.Y)
	right := min(a.X+a.Width, b.X+b.Width)
	bottom := min(a.Y+a.Height, b.Y+b.Height)

	if left >= right || top >= bottom {
		return 0.0
	}

	intersection := (right - left) * (bottom - top)
	union := a.Area() + b.Area() - intersection
	if union <= 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

// Combine concatenates the adapters' region sets in the order given and
// deduplicates them by overlap clustering.
//
// Clustering is a single greedy left-to-right pass: each unclaimed region
// seeds a cluster and claims every later unclaimed region whose IoU with the
// SEED reaches the threshold. Newly claimed members are not re-scanned, so
// chains of pairwise overlaps (A-B and B-C overlap, A-C do not) can split
// across clusters depending on input order. That is the defined behavior,
// not a defect: downstream consumers depend on this exact partitioning, so
// switching to transitive (union-find) clustering requires re-validating
// them first.
//
// Each cluster collapses to its highest-confidence member, first-encountered
// winning ties. Output order is cluster finalization order. Inputs are never
// mutated.
func Combine(regionSets ...[]TextRegion) []TextRegion {
	var all []TextRegion
	for _, set := range regionSets {
		all = append(all, set...)
	}

	merged := make([]TextRegion, 0, len(all))
	claimed := make([]bool, len(all))

	for i, seed := range all {
		if claimed[i] {
			continue
		}
		claimed[i] = true

		best := seed
		for j := i + 1; j < len(all); j++ {
			if claimed[j] {
				continue
			}
			if IoU(seed.BBox, all[j].BBox) >= IoUThreshold {
				claimed[j] = true
				if all[j].Confidence > best.Confidence {
					best = all[j]
				}
			}
		}

		merged = append(merged, best)
	}

	return merged
}
