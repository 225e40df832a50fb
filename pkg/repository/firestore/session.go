package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/session"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (r *Firestore) PutSession(ctx context.Context, s *session.Session) error {
	if err := s.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid session")
	}

	if _, err := r.db.Collection(collectionSessions).Doc(s.ID.String()).Set(ctx, s); err != nil {
		return r.eb.Wrap(err, "failed to put session",
			goerr.TV(errs.SessionIDKey, s.ID),
			goerr.T(errs.TagStorage))
	}
	return nil
}

func (r *Firestore) GetSession(ctx context.Context, id types.SessionID) (*session.Session, error) {
	doc, err := r.db.Collection(collectionSessions).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, r.eb.Wrap(err, "failed to get session",
			goerr.TV(errs.SessionIDKey, id),
			goerr.T(errs.TagStorage))
	}

	var s session.Session
	if err := doc.DataTo(&s); err != nil {
		return nil, r.eb.Wrap(err, "failed to convert data to session",
			goerr.TV(errs.SessionIDKey, id),
			goerr.T(errs.TagInternal))
	}
	return &s, nil
}

func (r *Firestore) GetUserSession(ctx context.Context, userID types.UserID, id types.SessionID) (*session.Session, error) {
	s, err := r.GetSession(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, nil
	}
	return s, nil
}

// Answers to all prompts of a session may arrive at once.
const sessionUpdateAttempts = 16

// UpdateUserSession runs fn inside a transaction. Firestore may retry the
// transaction, so fn can be called more than once with a fresh session.
func (r *Firestore) UpdateUserSession(ctx context.Context, userID types.UserID, id types.SessionID, fn func(s *session.Session) error) (*session.Session, error) {
	ref := r.db.Collection(collectionSessions).Doc(id.String())

	var (
		updated *session.Session
		fnErr   error
	)
	err := r.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		updated, fnErr = nil, nil

		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil
			}
			return err
		}

		var s session.Session
		if err := doc.DataTo(&s); err != nil {
			return goerr.Wrap(err, "failed to convert data to session", goerr.T(errs.TagInternal))
		}
		if s.UserID != userID {
			return nil
		}

		if err := fn(&s); err != nil {
			fnErr = err
			return err
		}
		if err := s.Validate(); err != nil {
			fnErr = err
			return err
		}
		if err := tx.Set(ref, &s); err != nil {
			return err
		}
		updated = &s
		return nil
	}, firestore.MaxAttempts(sessionUpdateAttempts))
	if fnErr != nil {
		return nil, fnErr
	}
	if err != nil {
		return nil, r.eb.Wrap(err, "failed to update session",
			goerr.TV(errs.SessionIDKey, id),
			goerr.T(errs.TagStorage))
	}
	return updated, nil
}

// DeleteSession removes the session document. Prompts and answers are
// embedded so they go with it.
func (r *Firestore) DeleteSession(ctx context.Context, id types.SessionID) error {
	if _, err := r.db.Collection(collectionSessions).Doc(id.String()).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return r.eb.Wrap(err, "failed to delete session",
			goerr.TV(errs.SessionIDKey, id),
			goerr.T(errs.TagStorage))
	}
	return nil
}

func (r *Firestore) collectSessions(iter *firestore.DocumentIterator, userID types.UserID) ([]*session.Session, error) {
	defer iter.Stop()

	var sessions []*session.Session
	for {
		doc, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, r.eb.Wrap(err, "failed to iterate sessions",
				goerr.TV(errs.UserIDKey, userID),
				goerr.T(errs.TagStorage))
		}

		var s session.Session
		if err := doc.DataTo(&s); err != nil {
			return nil, r.eb.Wrap(err, "failed to convert data to session",
				goerr.V("doc_id", doc.Ref.ID),
				goerr.T(errs.TagInternal))
		}
		sessions = append(sessions, &s)
	}
	return sessions, nil
}

func (r *Firestore) ListUserSessions(ctx context.Context, userID types.UserID, offset, limit int) ([]*session.Session, error) {
	if offset < 0 || limit < 0 {
		return nil, r.eb.New("invalid page",
			goerr.V("offset", offset),
			goerr.V("limit", limit),
			goerr.T(errs.TagInvalidArgument))
	}
	if limit == 0 {
		return []*session.Session{}, nil
	}

	iter := r.db.Collection(collectionSessions).
		Where("user_id", "==", userID.String()).
		OrderBy("created_at", firestore.Desc).
		Offset(offset).
		Limit(limit).
		Documents(ctx)

	sessions, err := r.collectSessions(iter, userID)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []*session.Session{}
	}
	return sessions, nil
}

func (r *Firestore) CountUserSessions(ctx context.Context, userID types.UserID) (int, error) {
	q := r.db.Collection(collectionSessions).Where("user_id", "==", userID.String())
	result, err := q.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, r.eb.Wrap(err, "failed to count sessions",
			goerr.TV(errs.UserIDKey, userID),
			goerr.T(errs.TagStorage))
	}

	return extractCountFromAggregationResult(result, "total")
}

func (r *Firestore) GetLatestScoredSession(ctx context.Context, userID types.UserID) (*session.Session, error) {
	iter := r.db.Collection(collectionSessions).
		Where("user_id", "==", userID.String()).
		Where("status", "==", types.SessionStatusScored.String()).
		OrderBy("analyze_time", firestore.Desc).
		Limit(1).
		Documents(ctx)

	sessions, err := r.collectSessions(iter, userID)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return sessions[0], nil
}

func (r *Firestore) GetScoredSessionsBySpan(ctx context.Context, userID types.UserID, begin, end time.Time) ([]*session.Session, error) {
	iter := r.db.Collection(collectionSessions).
		Where("user_id", "==", userID.String()).
		Where("status", "==", types.SessionStatusScored.String()).
		Where("analyze_time", ">=", begin).
		Where("analyze_time", "<", end).
		OrderBy("analyze_time", firestore.Asc).
		Documents(ctx)

	return r.collectSessions(iter, userID)
}
