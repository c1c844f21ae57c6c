// Package conv provides normalized cross-correlation for matched filtering.
//
// A MatchedFilter slides a known template across a recorded snapshot and
// scores every lag by the cosine similarity between the template and the
// snapshot window at that lag:
//
//	score(lag) = Σ t[j]·s[lag+j] / (‖t‖ · ‖s[lag:lag+m]‖)
//
// Both norms are floored at sqrt(1e-12) so silent windows never divide by
// zero. Scores lie in [-1, 1]; 1 means the window is a positive multiple of
// the template.
//
// # Usage
//
//	mf, err := conv.NewMatchedFilter(template, conv.WithMethod(conv.MethodFFT))
//	peak := mf.Find(snapshot, blindSamples)
//	if peak.Valid() {
//	    delay := float64(peak.Lag) / sampleRate
//	}
//
// # Algorithm Selection
//
// MethodDirect evaluates one dot product per lag, O((n−m)·m). MethodFFT
// computes every numerator with one forward/inverse transform pair and the
// window energies with a running prefix sum, O(n log n). Both apply the same
// normalization, floor and tie rule (strictly greater wins, so the earliest
// lag keeps a tie).
package conv
