package member

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efub/community-board/internal/domain/shared"
)

func validParams() NewMemberParams {
	return NewMemberParams{
		StudentID:    "2025",
		University:   "Ewha",
		Nickname:     "란란란",
		Email:        "rann@test.com",
		PasswordHash: "hash",
	}
}

func TestNewMember(t *testing.T) {
	m, err := NewMember(validParams())
	require.NoError(t, err)

	assert.Equal(t, StatusRegistered, m.Status)
	assert.Equal(t, "란란란", m.Nickname)
	assert.Zero(t, m.ID)
	assert.True(t, m.IsActive())
}

func TestNewMember_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *NewMemberParams)
	}{
		{"missing student id", func(p *NewMemberParams) { p.StudentID = " " }},
		{"missing university", func(p *NewMemberParams) { p.University = "" }},
		{"blank nickname", func(p *NewMemberParams) { p.Nickname = "   " }},
		{"bad email", func(p *NewMemberParams) { p.Email = "not-an-email" }},
		{"missing password", func(p *NewMemberParams) { p.PasswordHash = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.modify(&p)

			_, err := NewMember(p)
			assert.True(t, shared.IsValidation(err), "got %v", err)
		})
	}
}

func TestMember_RenameAndWithdraw(t *testing.T) {
	m, err := NewMember(validParams())
	require.NoError(t, err)

	require.NoError(t, m.Rename("new란"))
	assert.Equal(t, "new란", m.Nickname)

	m.Withdraw()
	assert.False(t, m.IsActive())
	assert.ErrorIs(t, m.Rename("again"), ErrMemberWithdrawn)
}
