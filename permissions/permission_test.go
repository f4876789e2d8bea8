package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadflow/permissions"
)

func TestFindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	t.Run("evaluators can set their own availability", func(t *testing.T) {
		permission := data.FindPermissions("/v1/availability/{evaluatorID}/{date}", "PUT")

		assert.False(t, permission.Skip)
		assert.Contains(t, permission.Permissions, "evaluator")
		assert.Contains(t, permission.Permissions, "manager")
		assert.Contains(t, permission.Permissions, "admin")
	})

	t.Run("campaign intake is public", func(t *testing.T) {
		permission := data.FindPermissions("/v1/c/{slug}/leads", "POST")

		assert.True(t, permission.Skip)
	})

	t.Run("unknown route has no permissions", func(t *testing.T) {
		permission := data.FindPermissions("/v1/nope", "GET")

		assert.Empty(t, permission.Permissions)
		assert.False(t, permission.Skip)
	})
}
