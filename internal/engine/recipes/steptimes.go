package recipes

// Step time prediction: derive start/end times for instruction steps the
// extractor left untimed. Timestamps the extractor read off the transcript
// markers are authoritative and are never overwritten; they anchor the
// prediction for neighbouring untimed steps, alongside keyword matches.
// Technique keywords anchor a step best (the narrator names the action
// while doing it); steps without any anchor are interpolated between
// their neighbours.

const minStepSeconds = 5

// PredictStepTimes fills TimestampSeconds and EndTimeSeconds on every
// instruction that lacks them; values already present are kept as-is.
// videoDuration of 0 means unknown; the final step then gets a
// minimum-length window instead of running to the end.
func PredictStepTimes(doc *VideoRecipes, videoDuration float64) {
	for ri := range doc.Recipes {
		predictRecipeTimes(&doc.Recipes[ri], videoDuration)
	}
}

func predictRecipeTimes(r *Recipe, videoDuration float64) {
	n := len(r.Instructions)
	if n == 0 {
		return
	}

	// Raw anchor per step: the extractor's own timestamp when present,
	// else the earliest technique match, else the earliest match of any
	// kind. Extractor timestamps are fixed and never shifted.
	raw := make([]float64, n)
	have := make([]bool, n)
	fixed := make([]bool, n)
	for i := range r.Instructions {
		in := &r.Instructions[i]
		if in.TimestampSeconds != nil {
			raw[i] = *in.TimestampSeconds
			have[i] = true
			fixed[i] = true
			continue
		}
		if ts, ok := anchorTime(in); ok {
			raw[i] = ts
			have[i] = true
		}
	}

	starts := fillGaps(raw, have, videoDuration)
	enforceOrder(starts, fixed)
	assignWindows(r, starts, videoDuration)
}

// anchorTime picks the step's anchoring timestamp from its video
// references. Technique matches win over ingredient/equipment matches.
func anchorTime(in *Instruction) (float64, bool) {
	if len(in.VideoReferences) == 0 {
		return 0, false
	}

	techniques := map[string]bool{}
	if in.Keywords != nil {
		for _, t := range in.Keywords.Techniques {
			techniques[t] = true
		}
	}

	best := -1.0
	bestAny := -1.0
	for _, ref := range in.VideoReferences {
		ts := float64(ref.TimestampSeconds)
		if bestAny < 0 || ts < bestAny {
			bestAny = ts
		}
		if techniques[ref.Keyword] && (best < 0 || ts < best) {
			best = ts
		}
	}
	if best >= 0 {
		return best, true
	}
	return bestAny, true
}

// fillGaps interpolates start times for steps without an anchor and
// extrapolates at the edges.
func fillGaps(raw []float64, have []bool, videoDuration float64) []float64 {
	n := len(raw)
	starts := make([]float64, n)
	copy(starts, raw)

	first, last := -1, -1
	for i := 0; i < n; i++ {
		if have[i] {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	if first < 0 {
		// No anchors at all: spread steps evenly over the video, or
		// at minimum spacing when the duration is unknown.
		step := float64(minStepSeconds)
		if videoDuration > 0 && n > 0 {
			step = videoDuration / float64(n+1)
		}
		for i := 0; i < n; i++ {
			starts[i] = step * float64(i)
		}
		return starts
	}

	// Leading steps count back from the first anchor.
	for i := first - 1; i >= 0; i-- {
		starts[i] = max(0, starts[i+1]-minStepSeconds)
	}
	// Trailing steps count forward from the last anchor.
	for i := last + 1; i < n; i++ {
		starts[i] = starts[i-1] + minStepSeconds
	}
	// Interior gaps interpolate linearly between the surrounding anchors.
	prev := first
	for i := first + 1; i <= last; i++ {
		if !have[i] {
			continue
		}
		gap := i - prev
		if gap > 1 {
			span := (raw[i] - raw[prev]) / float64(gap)
			for j := prev + 1; j < i; j++ {
				starts[j] = raw[prev] + span*float64(j-prev)
			}
		}
		prev = i
	}
	return starts
}

// enforceOrder makes predicted start times non-decreasing with minimum
// spacing, so steps never overlap. Fixed (extractor-provided) starts stay
// where they are.
func enforceOrder(starts []float64, fixed []bool) {
	for i := 1; i < len(starts); i++ {
		if fixed[i] {
			continue
		}
		if starts[i] < starts[i-1]+minStepSeconds {
			starts[i] = starts[i-1] + minStepSeconds
		}
	}
}

// assignWindows writes each step's [start, end) window back onto the
// instructions, skipping fields the extractor already set. A step ends
// where the next step starts; the last step runs to the end of the video
// when the duration is known.
func assignWindows(r *Recipe, starts []float64, videoDuration float64) {
	n := len(r.Instructions)
	for i := range r.Instructions {
		in := &r.Instructions[i]
		start := starts[i]
		var end float64
		if i < n-1 {
			end = starts[i+1]
		} else if videoDuration > start {
			end = videoDuration
		} else {
			end = start + minStepSeconds
		}
		if end < start+minStepSeconds {
			end = start + minStepSeconds
		}
		if in.TimestampSeconds == nil {
			s := start
			in.TimestampSeconds = &s
		}
		if in.EndTimeSeconds == nil {
			e := end
			in.EndTimeSeconds = &e
		}
	}
}
