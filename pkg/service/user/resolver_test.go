package user_test

import (
	"testing"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/user"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/feelcast/feelcast/pkg/repository"
	svc "github.com/feelcast/feelcast/pkg/service/user"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestResolver(t *testing.T) {
	repo := repository.NewMemory()
	u, err := user.New(t.Context(), "12345", types.SocialTypeKakao)
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.PutUser(t.Context(), u)).Required()

	resolver := svc.NewResolver(repo)

	t.Run("known user", func(t *testing.T) {
		got, err := resolver.LookupUser(t.Context(), "12345_KAKAO")
		gt.NoError(t, err).Required()
		gt.Equal(t, got.ID, u.ID)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := resolver.LookupUser(t.Context(), "12345_GOOGLE")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	})

	t.Run("malformed reference", func(t *testing.T) {
		for _, ref := range []string{"", "12345", "12345_", "_KAKAO", "12345_LINE"} {
			_, err := resolver.LookupUser(t.Context(), ref)
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, errs.TagInvalidArgument))
		}
	})
}
