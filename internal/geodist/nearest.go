package geodist

// Nearest returns the index of the candidate closest to the target and
// the distance to it in metres. If several candidates are exactly tied,
// whichever one is found first wins; callers must not rely on which.
// Returns index -1 for an empty candidate set.
func Nearest(m Metric, targetLat, targetLng float64, lats, lngs []float64) (int, float64) {
	best := -1
	bestDist := 0.0
	for i := range lats {
		d := m.Distance(targetLat, targetLng, lats[i], lngs[i])
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, bestDist
}

// Furthest returns the index of the candidate farthest from the target
// and the distance to it in metres. Ties resolve to the first found.
// Returns index -1 for an empty candidate set.
func Furthest(m Metric, targetLat, targetLng float64, lats, lngs []float64) (int, float64) {
	best := -1
	bestDist := 0.0
	for i := range lats {
		d := m.Distance(targetLat, targetLng, lats[i], lngs[i])
		if best == -1 || d > bestDist {
			best = i
			bestDist = d
		}
	}
	return best, bestDist
}
