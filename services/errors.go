package services

import "errors"

// Business-rule violations. Handlers map these to 4xx responses with the
// machine-readable code; anything else is a 500 with the wrapped cause.
var (
	ErrAlreadyCheckedIn  = errors.New("ALREADY_CHECKED_IN")
	ErrNoActiveCheckIn   = errors.New("NO_ACTIVE_CHECKIN")
	ErrStreakFreezeUsed  = errors.New("STREAK_FREEZE_USED_THIS_WEEK")
	ErrNoStreakToFreeze  = errors.New("NO_STREAK_TO_FREEZE")
	ErrAchievementExists = errors.New("ACHIEVEMENT_CODE_EXISTS")
)
