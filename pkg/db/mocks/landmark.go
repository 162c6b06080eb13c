package mocks

import (
	"context"
	"errors"

	kdb "github.com/opst/landmarks/pkg/db"
)

type LandmarkInterface struct {
	Impl struct {
		Find          func(ctx context.Context, query kdb.LandmarkQuery) ([]kdb.Landmark, error)
		Get           func(ctx context.Context, owner int64, id int64) (kdb.Landmark, error)
		Create        func(ctx context.Context, owner *int64, patch kdb.LandmarkPatch) (kdb.Landmark, error)
		Update        func(ctx context.Context, owner int64, id int64, patch kdb.LandmarkPatch) (kdb.Landmark, *string, error)
		Delete        func(ctx context.Context, owner int64, id int64) (kdb.Landmark, error)
		AssignUnowned func(ctx context.Context, email string) (int, error)
		Purge         func(ctx context.Context) ([]kdb.Landmark, error)
	}

	Calls struct {
		Find   CallLog[kdb.LandmarkQuery]
		Get    CallLog[OwnedId]
		Create CallLog[struct {
			Owner *int64
			Patch kdb.LandmarkPatch
		}]
		Update CallLog[struct {
			OwnedId
			Patch kdb.LandmarkPatch
		}]
		Delete        CallLog[OwnedId]
		AssignUnowned CallLog[string]
		Purge         CallLog[struct{}]
	}
}

type OwnedId struct {
	Owner int64
	Id    int64
}

func NewLandmarkInterface() *LandmarkInterface {
	return &LandmarkInterface{}
}

var _ kdb.LandmarkInterface = &LandmarkInterface{}

func (m *LandmarkInterface) Find(ctx context.Context, query kdb.LandmarkQuery) ([]kdb.Landmark, error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *LandmarkInterface) Get(ctx context.Context, owner int64, id int64) (kdb.Landmark, error) {
	m.Calls.Get = append(m.Calls.Get, OwnedId{Owner: owner, Id: id})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, owner, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *LandmarkInterface) Create(ctx context.Context, owner *int64, patch kdb.LandmarkPatch) (kdb.Landmark, error) {
	m.Calls.Create = append(m.Calls.Create, struct {
		Owner *int64
		Patch kdb.LandmarkPatch
	}{Owner: owner, Patch: patch})
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, owner, patch)
	}
	panic(errors.New("it should not be called"))
}

func (m *LandmarkInterface) Update(ctx context.Context, owner int64, id int64, patch kdb.LandmarkPatch) (kdb.Landmark, *string, error) {
	m.Calls.Update = append(m.Calls.Update, struct {
		OwnedId
		Patch kdb.LandmarkPatch
	}{OwnedId: OwnedId{Owner: owner, Id: id}, Patch: patch})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, owner, id, patch)
	}
	panic(errors.New("it should not be called"))
}

func (m *LandmarkInterface) Delete(ctx context.Context, owner int64, id int64) (kdb.Landmark, error) {
	m.Calls.Delete = append(m.Calls.Delete, OwnedId{Owner: owner, Id: id})
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, owner, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *LandmarkInterface) AssignUnowned(ctx context.Context, email string) (int, error) {
	m.Calls.AssignUnowned = append(m.Calls.AssignUnowned, email)
	if m.Impl.AssignUnowned != nil {
		return m.Impl.AssignUnowned(ctx, email)
	}
	panic(errors.New("it should not be called"))
}

func (m *LandmarkInterface) Purge(ctx context.Context) ([]kdb.Landmark, error) {
	m.Calls.Purge = append(m.Calls.Purge, struct{}{})
	if m.Impl.Purge != nil {
		return m.Impl.Purge(ctx)
	}
	panic(errors.New("it should not be called"))
}
