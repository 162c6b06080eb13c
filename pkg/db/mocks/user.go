package mocks

import (
	"context"
	"errors"

	kdb "github.com/opst/landmarks/pkg/db"
)

type UserInterface struct {
	Impl struct {
		Register   func(ctx context.Context, spec kdb.UserSpec) (kdb.User, error)
		Find       func(ctx context.Context) ([]kdb.User, error)
		Get        func(ctx context.Context, id int64) (kdb.User, error)
		GetByEmail func(ctx context.Context, email string) (kdb.User, error)
	}

	Calls struct {
		Register   CallLog[kdb.UserSpec]
		Find       CallLog[struct{}]
		Get        CallLog[int64]
		GetByEmail CallLog[string]
	}
}

func NewUserInterface() *UserInterface {
	return &UserInterface{}
}

var _ kdb.UserInterface = &UserInterface{}

func (m *UserInterface) Register(ctx context.Context, spec kdb.UserSpec) (kdb.User, error) {
	m.Calls.Register = append(m.Calls.Register, spec)
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Find(ctx context.Context) ([]kdb.User, error) {
	m.Calls.Find = append(m.Calls.Find, struct{}{})
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Get(ctx context.Context, id int64) (kdb.User, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) GetByEmail(ctx context.Context, email string) (kdb.User, error) {
	m.Calls.GetByEmail = append(m.Calls.GetByEmail, email)
	if m.Impl.GetByEmail != nil {
		return m.Impl.GetByEmail(ctx, email)
	}
	panic(errors.New("it should not be called"))
}
