package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const voiceColumns = "id, stored_name, access_url, source_key, content_type, size, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVoice(row rowScanner) (*voice.Voice, error) {
	var (
		v         voice.Voice
		sourceKey sql.NullString
		createdAt int64
	)
	if err := row.Scan(&v.ID, &v.StoredName, &v.AccessURL, &sourceKey, &v.ContentType, &v.Size, &createdAt); err != nil {
		return nil, err
	}
	v.SourceKey = types.PromptKey(sourceKey.String)
	v.CreatedAt = fromUnix(createdAt)
	return &v, nil
}

func nullableKey(key types.PromptKey) sql.NullString {
	return sql.NullString{String: key.String(), Valid: key != ""}
}

func (r *SQLite) queryVoice(ctx context.Context, where string, arg any) (*voice.Voice, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+voiceColumns+" FROM voices WHERE "+where, arg)
	v, err := scanVoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.eb.Wrap(err, "failed to get voice",
			goerr.V("where", where),
			goerr.V("arg", arg),
			goerr.T(errs.TagStorage))
	}
	return v, nil
}

func (r *SQLite) GetVoice(ctx context.Context, id types.VoiceID) (*voice.Voice, error) {
	return r.queryVoice(ctx, "id = ?", id.String())
}

func (r *SQLite) GetVoiceBySourceKey(ctx context.Context, key types.PromptKey) (*voice.Voice, error) {
	return r.queryVoice(ctx, "source_key = ?", key.String())
}

func (r *SQLite) InsertVoiceIfAbsent(ctx context.Context, v *voice.Voice) (*voice.Voice, bool, error) {
	if err := v.Validate(); err != nil {
		return nil, false, r.eb.Wrap(err, "invalid voice")
	}
	if !v.IsSynthesized() {
		return nil, false, r.eb.New("voice has no source key",
			goerr.TV(errs.VoiceIDKey, v.ID),
			goerr.T(errs.TagInvalidArgument))
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO voices ("+voiceColumns+") VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING",
		v.ID.String(), v.StoredName, v.AccessURL, nullableKey(v.SourceKey), v.ContentType, v.Size, toUnix(v.CreatedAt))
	if err != nil {
		return nil, false, r.eb.Wrap(err, "failed to insert voice",
			goerr.TV(errs.VoiceIDKey, v.ID),
			goerr.T(errs.TagStorage))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, r.eb.Wrap(err, "failed to get affected rows", goerr.T(errs.TagStorage))
	}
	if n == 1 {
		stored := *v
		return &stored, true, nil
	}

	existing, err := r.GetVoiceBySourceKey(ctx, v.SourceKey)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, r.eb.New("voice vanished after conflicting insert",
			goerr.TV(errs.VoiceIDKey, v.ID),
			goerr.T(errs.TagStorage))
	}
	return existing, false, nil
}

func (r *SQLite) PutVoice(ctx context.Context, v *voice.Voice) error {
	if err := v.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid voice")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO voices (`+voiceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			stored_name = excluded.stored_name,
			access_url = excluded.access_url,
			source_key = excluded.source_key,
			content_type = excluded.content_type,
			size = excluded.size,
			created_at = excluded.created_at`,
		v.ID.String(), v.StoredName, v.AccessURL, nullableKey(v.SourceKey), v.ContentType, v.Size, toUnix(v.CreatedAt))
	if err != nil {
		return r.eb.Wrap(err, "failed to put voice",
			goerr.TV(errs.VoiceIDKey, v.ID),
			goerr.T(errs.TagStorage))
	}
	return nil
}

func (r *SQLite) DeleteVoice(ctx context.Context, id types.VoiceID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM voices WHERE id = ?", id.String()); err != nil {
		return r.eb.Wrap(err, "failed to delete voice",
			goerr.TV(errs.VoiceIDKey, id),
			goerr.T(errs.TagStorage))
	}
	return nil
}
