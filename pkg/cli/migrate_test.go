package cli_test

import (
	"testing"

	"github.com/feelcast/feelcast/pkg/cli"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
)

func TestDefineFirestoreIndexes(t *testing.T) {
	config := cli.DefineFirestoreIndexes()

	gt.Value(t, config).NotNil()
	gt.A(t, config.Collections).Length(1)

	col := config.Collections[0]
	gt.Equal(t, col.Name, "sessions")
	gt.A(t, col.Indexes).Length(3)

	t.Run("history index", func(t *testing.T) {
		idx := col.Indexes[0]
		gt.A(t, idx.Fields).Length(2)
		gt.Equal(t, idx.Fields[0].Path, "user_id")
		gt.Equal(t, idx.Fields[1].Path, "created_at")
		gt.Equal(t, idx.Fields[1].Order, fireconf.OrderDescending)
	})

	t.Run("scored indexes", func(t *testing.T) {
		asc, desc := col.Indexes[1], col.Indexes[2]
		for _, idx := range []fireconf.Index{asc, desc} {
			gt.Equal(t, idx.QueryScope, fireconf.QueryScopeCollection)
			gt.A(t, idx.Fields).Length(3)
			gt.Equal(t, idx.Fields[0].Path, "user_id")
			gt.Equal(t, idx.Fields[1].Path, "status")
			gt.Equal(t, idx.Fields[2].Path, "analyze_time")
		}
		gt.Equal(t, asc.Fields[2].Order, fireconf.OrderAscending)
		gt.Equal(t, desc.Fields[2].Order, fireconf.OrderDescending)
	})
}
