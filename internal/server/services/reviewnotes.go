package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"github.com/dmitrijs2005/addonaccounts/internal/logging"
	"github.com/dmitrijs2005/addonaccounts/internal/server/access"
	"github.com/dmitrijs2005/addonaccounts/internal/server/metrics"
	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/repomanager"
)

// ReviewNote is a review activity entry of a version as shown to the
// add-on's developers. Highlight marks entries still awaiting a reply.
type ReviewNote struct {
	models.ActivityLog
	Highlight bool
}

var reviewNotesPermission = access.AnyOf(
	access.AllowAddonAuthor,
	access.AllowReviewer,
	access.AllowReviewerUnlisted,
)

type ReviewNotesService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	metrics     *metrics.Metrics
	log         logging.Logger
}

func NewReviewNotesService(db *sql.DB, m repomanager.RepositoryManager, mt *metrics.Metrics, log logging.Logger) *ReviewNotesService {
	if log == nil {
		log = logging.Discard()
	}
	return &ReviewNotesService{db: db, repomanager: m, metrics: mt, log: log}
}

// List returns the review notes of a version, newest first.
func (s *ReviewNotesService) List(ctx context.Context, callerID, addonID, versionID int64) ([]ReviewNote, error) {
	notes, err := s.list(ctx, callerID, addonID, versionID)
	s.record(ctx, err)
	return notes, err
}

// Get returns a single review note of a version.
func (s *ReviewNotesService) Get(ctx context.Context, callerID, addonID, versionID, noteID int64) (*ReviewNote, error) {
	notes, err := s.list(ctx, callerID, addonID, versionID)
	if err == nil {
		for i := range notes {
			if notes[i].ID == noteID {
				s.record(ctx, nil)
				return &notes[i], nil
			}
		}
		err = common.ErrorNotFound
	}
	s.record(ctx, err)
	return nil, err
}

func (s *ReviewNotesService) list(ctx context.Context, callerID, addonID, versionID int64) ([]ReviewNote, error) {
	if callerID == 0 {
		return nil, common.ErrorUnauthorized
	}

	addons := s.repomanager.Addons(s.db)
	addon, err := addons.Get(ctx, addonID)
	if err != nil {
		return nil, err
	}

	caller, err := s.repomanager.Users(s.db).GetByID(ctx, callerID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if caller.Groups, err = s.repomanager.Groups(s.db).ForUser(ctx, callerID); err != nil {
		return nil, err
	}
	isAuthor, err := addons.IsAuthor(ctx, addonID, callerID)
	if err != nil {
		return nil, err
	}
	if !reviewNotesPermission(access.Subject{User: caller, Addon: addon, IsAuthor: isAuthor}) {
		return nil, common.ErrorForbidden
	}

	version, err := addons.GetVersion(ctx, addonID, versionID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repomanager.ActivityLog(s.db).ForVersion(ctx, version.ID, models.DeveloperVisibleReviewActions)
	if err != nil {
		return nil, err
	}
	return highlightPending(entries), nil
}

// highlightPending marks the entries newer than the latest developer reply.
// Without a reply every entry is pending. entries must be newest first.
func highlightPending(entries []models.ActivityLog) []ReviewNote {
	notes := make([]ReviewNote, len(entries))
	var latestReply *models.ActivityLog
	for i := range entries {
		if entries[i].Action == models.ActionDeveloperReply {
			latestReply = &entries[i]
			break
		}
	}
	for i, e := range entries {
		notes[i] = ReviewNote{
			ActivityLog: e,
			Highlight:   latestReply == nil || e.CreatedAt.After(latestReply.CreatedAt),
		}
	}
	return notes
}

func (s *ReviewNotesService) record(ctx context.Context, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorUnauthorized):
		result = "unauthorized"
	case errors.Is(err, common.ErrorForbidden):
		result = "forbidden"
	case errors.Is(err, common.ErrorNotFound):
		result = "not_found"
	default:
		result = "error"
		s.log.Error(ctx, "error loading review notes", "error", err)
	}
	s.metrics.ReviewNotesRequest(result)
}
