package models

import "gorm.io/gorm"

// Swipe decisions.
const (
	DecisionYes = "yes"
	DecisionNo  = "no"
)

// Swipe is one immutable, one-directional decision a member records about
// another member of a completed activity. The composite unique index is the
// concurrency primitive for match detection: at most one decision can ever
// exist per (activity, swiper, swiped) triple, so the second reciprocal "yes"
// is a well-defined event.
type Swipe struct {
	gorm.Model

	ActivityID string `gorm:"not null;uniqueIndex:idx_swipe_once"`
	SwiperID   string `gorm:"not null;uniqueIndex:idx_swipe_once"`
	SwipedID   string `gorm:"not null;uniqueIndex:idx_swipe_once"`
	Decision   string `gorm:"not null"`
}

// ValidDecision reports whether d is an accepted swipe decision.
func ValidDecision(d string) bool {
	return d == DecisionYes || d == DecisionNo
}
