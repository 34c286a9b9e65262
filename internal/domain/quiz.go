package domain

import "time"

// ─── Quiz Redemption Pipeline Types ─────────────────────────────────────────
// A completed mini-game reward moves through a bag → pending → settled
// pipeline: pocketed at capture, surfaced for adult review at cash-out,
// and only credited to the balance on approval.

// QuizState is the lifecycle state of a captured quiz reward.
type QuizState string

const (
	QuizInBag    QuizState = "IN_BAG"
	QuizPending  QuizState = "PENDING"
	QuizApproved QuizState = "APPROVED"
	QuizRejected QuizState = "REJECTED"
)

// Terminal reports whether the state admits no further transitions.
func (s QuizState) Terminal() bool {
	return s == QuizApproved || s == QuizRejected
}

// quizTransitions is the exhaustive transition table. Illegal transitions
// are rejected centrally here rather than by caller convention.
var quizTransitions = map[QuizState][]QuizState{
	QuizInBag:   {QuizPending},
	QuizPending: {QuizApproved, QuizRejected},
}

// CanTransition reports whether from → to is a legal quiz transition.
func (s QuizState) CanTransition(to QuizState) bool {
	for _, next := range quizTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// QuizResult is one completed mini-game attempt. Created in IN_BAG with no
// balance effect; the reward becomes real only when an adult approves it.
type QuizResult struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	ChallengeID  string    `json:"challenge_id"`
	RewardAmount int64     `json:"reward_amount"`
	Preview      string    `json:"preview,omitempty"`
	State        QuizState `json:"state"`
	CapturedAt   time.Time `json:"captured_at"`
}
