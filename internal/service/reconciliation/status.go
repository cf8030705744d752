package reconciliation

import (
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
)

// transition is a pending write of the coarse review status.
type transition struct {
	status reconciliation.ReviewStatus
	source reconciliation.StatusSource
}

// recompute derives the coarse status from day tallies. A key with no days
// keeps not_started; otherwise it is review_complete once no day needs review.
func recompute(current reconciliation.ReviewStatus, days []reconciliation.Day) transition {
	derived := transition{source: reconciliation.StatusSourceDerived}
	if len(days) == 0 {
		if current == reconciliation.ReviewStatusNotStarted {
			derived.status = reconciliation.ReviewStatusNotStarted
		} else {
			derived.status = reconciliation.ReviewStatusInReview
		}
		return derived
	}

	for _, d := range days {
		if d.Status == reconciliation.DayStatusReviewRequired {
			derived.status = reconciliation.ReviewStatusInReview
			return derived
		}
	}
	derived.status = reconciliation.ReviewStatusReviewComplete
	return derived
}

// forceSet is the reviewer override path. Completing is allowed from any
// unconfirmed state, even with zero days; reopening only from review_complete.
func forceSet(current reconciliation.ReviewStatus, target reconciliation.ReviewStatus) (transition, error) {
	override := transition{status: target, source: reconciliation.StatusSourceOverride}

	switch target {
	case reconciliation.ReviewStatusReviewComplete:
		if current == reconciliation.ReviewStatusConfirmed {
			return transition{}, reconciliation.ErrInvalidTransition
		}
		return override, nil
	case reconciliation.ReviewStatusInReview:
		if current != reconciliation.ReviewStatusReviewComplete {
			return transition{}, reconciliation.ErrInvalidTransition
		}
		return override, nil
	}
	return transition{}, reconciliation.ErrInvalidTransition
}

// onCompared is the transition after a comparison run. A completed review is
// never reopened by re-running; an empty result leaves the status alone.
func onCompared(current reconciliation.ReviewStatus, dayCount int) (transition, bool) {
	if dayCount == 0 || current == reconciliation.ReviewStatusReviewComplete {
		return transition{}, false
	}
	return transition{status: reconciliation.ReviewStatusInReview, source: reconciliation.StatusSourceDerived}, true
}
