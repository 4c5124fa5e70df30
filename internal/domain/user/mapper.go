package user

// Mapper converts User entities to response DTOs. UserResponse has no
// password field, so there is structurally no path for the digest to reach
// a caller.
type Mapper struct{}

// NewMapper creates a new user mapper
func NewMapper() *Mapper {
	return &Mapper{}
}

// ToResponse maps a single user; nil maps to nil
func (m *Mapper) ToResponse(u *User) *UserResponse {
	if u == nil {
		return nil
	}

	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToResponseList maps element-wise; empty or nil input maps to an empty
// slice, never nil
func (m *Mapper) ToResponseList(users []*User) []*UserResponse {
	responses := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, m.ToResponse(u))
	}
	return responses
}
