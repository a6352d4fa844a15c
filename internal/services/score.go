package services

import "math"

// ComputeScore weighs raw popularity above activity: square roots compress
// star and fork counts, which span orders of magnitude, while log2 compresses
// the activity counts at lower weight. The +1 inside each log keeps a zero
// count defined. Weights are fixed.
func ComputeScore(stars, forks, prCount, issueCount, publicRepos, followers int) float64 {
	return math.Sqrt(float64(stars))*5 +
		math.Sqrt(float64(forks))*4 +
		math.Log2(float64(prCount)+1)*3 +
		math.Log2(float64(issueCount)+1)*2 +
		math.Log2(float64(publicRepos)+1)*1.5 +
		math.Log2(float64(followers)+1)*2
}

// Round2 rounds for the wire; scores stay full-precision internally.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
