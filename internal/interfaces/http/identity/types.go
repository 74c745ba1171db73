package identity

import (
	"time"

	"github.com/sngm3741/survey-services/api/internal/identity/domain"
)

type userResponse struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type userCreateRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

type roleUpdateRequest struct {
	Role string `json:"role" validate:"required"`
}

func userToResponse(user domain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		PhotoURL:  user.PhotoURL,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt,
	}
}

func usersToResponse(users []domain.User) []userResponse {
	items := make([]userResponse, 0, len(users))
	for _, user := range users {
		items = append(items, userToResponse(user))
	}
	return items
}
