package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efub/community-board/internal/domain/member"
)

func TestBuildMemberSearchQuery_NoConditions(t *testing.T) {
	for _, nickname := range []string{"", "   "} {
		query, args, err := buildMemberSearchQuery(member.ByNickname(nickname))
		require.NoError(t, err)

		assert.NotContains(t, query, "WHERE")
		assert.Contains(t, query, "ORDER BY id DESC")
		assert.Empty(t, args)
	}
}

func TestBuildMemberSearchQuery_Nickname(t *testing.T) {
	query, args, err := buildMemberSearchQuery(member.ByNickname("ann"))
	require.NoError(t, err)

	assert.Contains(t, query, `WHERE nickname ILIKE $1 ESCAPE '\'`)
	assert.Contains(t, query, "ORDER BY id DESC")
	assert.Equal(t, []any{"%ann%"}, args)
}

func TestBuildMemberSearchQuery_TokenKeptVerbatimAndEscaped(t *testing.T) {
	_, args, err := buildMemberSearchQuery(member.ByNickname(" 5%_off "))
	require.NoError(t, err)

	assert.Equal(t, []any{`% 5\%\_off %`}, args)
}

func TestMigrations_AreOrdered(t *testing.T) {
	migs := Migrations()
	require.NotEmpty(t, migs)

	for i, m := range migs {
		assert.Equal(t, i+1, m.Version)
		assert.NotEmpty(t, m.UpSQL, m.Name)
		assert.NotEmpty(t, m.DownSQL, m.Name)
	}
}
