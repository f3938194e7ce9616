package service

import (
	"context"

	"github.com/google/uuid"

	"hondaapi/internal/model"
)

// UserService manages user profiles. Accounts in the identity provider are
// not touched; the profile document id doubles as the user's uid.
type UserService struct {
	coll  collection[model.User]
	newID func() string
}

var _ Resource[model.User, UserInput] = (*UserService)(nil)

func NewUserService(d Deps) *UserService {
	d = d.withDefaults()
	return &UserService{
		coll:  newCollection(d, model.CollectionUsers, d.Projector.User),
		newID: uuid.NewString,
	}
}

func (s *UserService) List(ctx context.Context, search string) ([]model.User, error) {
	return s.coll.list(ctx, search)
}

// Create stores the profile under a fresh id, written to uid as well.
func (s *UserService) Create(ctx context.Context, in UserInput) (string, error) {
	if err := validate(in); err != nil {
		return "", err
	}
	id := s.newID()
	fields := in.fields()
	fields["uid"] = id
	if _, ok := fields["phone"]; !ok {
		fields["phone"] = ""
	}
	if err := s.coll.Store.Set(ctx, s.coll.name, id, fields); err != nil {
		return "", err
	}
	s.coll.Log.Info(ctx, "document created", "id", id)
	return id, nil
}

// Update keeps the stored phone number when in.Phone is blank.
func (s *UserService) Update(ctx context.Context, id string, in UserInput) error {
	if err := validate(in); err != nil {
		return err
	}
	return s.coll.update(ctx, id, in.fields())
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.coll.delete(ctx, id)
}
