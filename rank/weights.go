package rank

// weightEpsilon guards the division when normalizing raw weights. A raw sum
// at or below this threshold is treated as zero and triggers the
// equal-weight fallback.
const weightEpsilon = 1e-9

// NormalizeWeights projects raw weights onto the common aspect set and scales
// them to sum to 1.0. Keys outside the common set are dropped first;
// non-positive values contribute nothing. If the surviving mass is zero — the
// raw mapping is empty, disjoint from the common set, or all zeros — the
// equal-weight fallback over the common set is returned and fellBack reports
// true. An empty common set always yields an empty mapping.
func NormalizeWeights(raw map[string]float64, common []string) (weights map[string]float64, fellBack bool) {
	if len(common) == 0 {
		return map[string]float64{}, false
	}

	inCommon := make(map[string]struct{}, len(common))
	for _, aspect := range common {
		inCommon[aspect] = struct{}{}
	}

	sum := sumOver(raw, inCommon)
	if sum <= weightEpsilon {
		return EqualWeights(common), true
	}

	weights = make(map[string]float64, len(common))
	for aspect, w := range raw {
		if _, ok := inCommon[aspect]; !ok || w <= 0 {
			continue
		}
		weights[aspect] = w / sum
	}
	return weights, false
}

// EqualWeights assigns 1/N to each of the given aspects. An empty aspect
// list yields an empty mapping.
func EqualWeights(aspects []string) map[string]float64 {
	weights := make(map[string]float64, len(aspects))
	if len(aspects) == 0 {
		return weights
	}
	share := 1.0 / float64(len(aspects))
	for _, aspect := range aspects {
		weights[aspect] = share
	}
	return weights
}

func sumOver(raw map[string]float64, keep map[string]struct{}) float64 {
	var sum float64
	for aspect, w := range raw {
		if _, ok := keep[aspect]; !ok {
			continue
		}
		if w > 0 {
			sum += w
		}
	}
	return sum
}
