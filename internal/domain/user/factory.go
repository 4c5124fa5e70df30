package user

import "errors"

// Factory builds unsaved User records from create requests. It is the only
// component that converts a plaintext password into a stored digest: it runs
// the validator, normalizes username and email, hashes the password, and
// returns a User with Active set. ID and timestamps are left zero; the
// service assigns timestamps and the repository generates the ID on insert.
type Factory struct {
	validator *Validator
	hasher    PasswordHasher
}

// NewFactory creates a new user factory
func NewFactory(validator *Validator, hasher PasswordHasher) *Factory {
	return &Factory{
		validator: validator,
		hasher:    hasher,
	}
}

// Build validates the request and constructs an unsaved User
func (f *Factory) Build(req *CreateUserRequest) (*User, error) {
	if req == nil {
		return nil, errors.New("create user request must not be nil")
	}

	if err := f.validator.Validate(req.Username, req.Email, req.Password); err != nil {
		return nil, err
	}

	digest, err := f.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	return &User{
		Username: Normalize(req.Username),
		Email:    Normalize(req.Email),
		Password: digest,
		Active:   true,
	}, nil
}
