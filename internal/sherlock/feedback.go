// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package sherlock

import (
	"context"

	"coding-pipeline/internal/learning"
	"coding-pipeline/pkg/types"
)

// PatternThreshold is the quality bar above which a review's verdict is
// promoted into the pattern library.
const PatternThreshold = 0.75

var verdictBaseQuality = map[types.Verdict]float64{
	types.VerdictInnocent:             0.9,
	types.VerdictGuilty:               0.3,
	types.VerdictInsufficientEvidence: 0.5,
}

var confidenceMultiplier = map[types.Confidence]float64{
	types.ConfidenceHigh:   1.0,
	types.ConfidenceMedium: 0.85,
	types.ConfidenceLow:    0.7,
}

// QualityScore maps a verdict and confidence to the learning-feedback
// quality score: base-by-verdict times
// multiplier-by-confidence, capped at 1.0.
func QualityScore(verdict types.Verdict, confidence types.Confidence) float64 {
	score := verdictBaseQuality[verdict] * confidenceMultiplier[confidence]
	if score > 1.0 {
		return 1.0
	}
	return score
}

// DeliverFeedback scores a verdict and reports it to the learning
// subsystem as trajectory feedback, non-fatal on failure.
func DeliverFeedback(ctx context.Context, bank learning.ReasoningBank, trajectoryID string, verdict types.Verdict, confidence types.Confidence) {
	quality := QualityScore(verdict, confidence)
	learning.SafeFeedback(ctx, bank, trajectoryID, quality, learning.FeedbackOptions{})
}
