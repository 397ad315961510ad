package models

import (
	"encoding/json"
	"time"
)

// ActivityAction identifies what an activity log entry records.
type ActivityAction int

const (
	ActionApproveVersion       ActivityAction = 21
	ActionEscalateVersion      ActivityAction = 23
	ActionRequestVersion       ActivityAction = 24
	ActionPreliminaryVersion   ActivityAction = 42
	ActionRejectVersion        ActivityAction = 43
	ActionRequestInformation   ActivityAction = 44
	ActionCommentVersion       ActivityAction = 49
	ActionDeveloperReply       ActivityAction = 141
	ActionApprovalNotesChanged ActivityAction = 142
	ActionSourceCodeUploaded   ActivityAction = 143
)

// DeveloperVisibleReviewActions are the review queue actions shown to the
// add-on's developers. Escalations and reviewer-only comments are not.
var DeveloperVisibleReviewActions = []ActivityAction{
	ActionApproveVersion,
	ActionRequestVersion,
	ActionPreliminaryVersion,
	ActionRejectVersion,
	ActionRequestInformation,
	ActionDeveloperReply,
	ActionApprovalNotesChanged,
	ActionSourceCodeUploaded,
}

// ActivityLog is one entry of the moderation activity log.
type ActivityLog struct {
	ID        int64
	UserID    *int64
	Action    ActivityAction
	Details   json.RawMessage
	CreatedAt time.Time
}

// HistoryEntry records an email address a user had before changing it.
type HistoryEntry struct {
	ID        int64
	UserID    int64
	Email     string
	CreatedAt time.Time
}
