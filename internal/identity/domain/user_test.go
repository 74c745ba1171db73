package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"user", RoleUser, false},
		{"admin", RoleAdmin, false},
		{" surveyor ", RoleSurveyor, false},
		{"pro-user", RoleProUser, false},
		{"Admin", "", true},
		{"root", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasRole(t *testing.T) {
	admin := &User{Email: "a@x.com", Role: RoleAdmin}

	assert.True(t, HasRole(admin, RoleAdmin))
	assert.False(t, HasRole(admin, RoleSurveyor))
	assert.False(t, HasRole(nil, RoleUser))
	assert.False(t, HasRole(&User{Email: "b@x.com"}, RoleUser))
}
