package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/suite"

	identity "github.com/nova19-exe/eBhutanza/internal/identity/models"
	"github.com/nova19-exe/eBhutanza/internal/kv/memory"
	"github.com/nova19-exe/eBhutanza/internal/profile/models"
	"github.com/nova19-exe/eBhutanza/internal/profile/store"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
)

type accountsStub struct {
	user      *identity.User
	renameErr error
}

func (a *accountsStub) GetUser(_ context.Context, _ id.UserID) (*identity.User, error) {
	u := *a.user
	return &u, nil
}

func (a *accountsStub) UpdateDisplayName(_ context.Context, _ id.UserID, name string) (*identity.User, error) {
	if a.renameErr != nil {
		return nil, a.renameErr
	}
	a.user.DisplayName = name
	u := *a.user
	return &u, nil
}

type ProfileServiceSuite struct {
	suite.Suite
	ctx      context.Context
	kv       *memory.Store
	photos   *store.PhotoStore
	accounts *accountsStub
	svc      *Service
	userID   id.UserID
}

func TestProfileServiceSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceSuite))
}

func (s *ProfileServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.kv = memory.New()
	s.photos = store.New(s.kv)
	s.userID = id.NewUserID()
	s.accounts = &accountsStub{user: &identity.User{ID: s.userID, Email: "karma@example.bt", DisplayName: "Karma"}}
	s.svc = New(s.accounts, s.photos)
}

func photoURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
}

func (s *ProfileServiceSuite) TestUpdateStoresPhoto() {
	photo := photoURL()
	res, err := s.svc.Update(s.ctx, s.userID, &models.UpdateRequest{DisplayName: "Karma Wangchuk", Photo: &photo})
	s.Require().NoError(err)

	s.Equal("Karma Wangchuk", res.Provisional.DisplayName)
	s.Empty(res.Provisional.PhotoURL, "photo is pending in the provisional phase")
	s.Equal(photo, res.Confirmed.PhotoURL)
	s.Equal(models.PhotoStored, res.PhotoStatus)
	s.Empty(res.Notice)

	got, err := s.svc.Get(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(photo, got.PhotoURL)
}

func (s *ProfileServiceSuite) TestPhotoFailureKeepsRename() {
	s.kv.FailWrites(true)
	photo := photoURL()
	res, err := s.svc.Update(s.ctx, s.userID, &models.UpdateRequest{DisplayName: "Karma Wangchuk", Photo: &photo})
	s.Require().NoError(err)

	s.Equal(models.PhotoReverted, res.PhotoStatus)
	s.Equal(models.NoticePhotoNotSaved, res.Notice)
	s.Equal("Karma Wangchuk", res.Confirmed.DisplayName)
	s.Empty(res.Confirmed.PhotoURL)
	s.Equal("Karma Wangchuk", s.accounts.user.DisplayName)
}

func (s *ProfileServiceSuite) TestRenameFailureFailsUpdate() {
	s.accounts.renameErr = dErrors.New(dErrors.CodeUnavailable, "failed to update account")
	photo := photoURL()
	_, err := s.svc.Update(s.ctx, s.userID, &models.UpdateRequest{DisplayName: "Karma Wangchuk", Photo: &photo})
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Equal(0, s.kv.Len(), "photo is not written when the rename fails")
}

func (s *ProfileServiceSuite) TestRemovePhoto() {
	s.Require().NoError(s.photos.Save(s.ctx, s.userID, photoURL()))
	res, err := s.svc.Update(s.ctx, s.userID, &models.UpdateRequest{DisplayName: "Karma", RemovePhoto: true})
	s.Require().NoError(err)
	s.Equal(models.PhotoRemoved, res.PhotoStatus)
	s.NotEmpty(res.Provisional.PhotoURL)
	s.Empty(res.Confirmed.PhotoURL)
}

func (s *ProfileServiceSuite) TestValidation() {
	_, err := s.svc.Update(s.ctx, s.userID, &models.UpdateRequest{DisplayName: "K"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.svc.Get(s.ctx, id.UserID{})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ProfileServiceSuite) TestDeletePhoto() {
	s.Require().NoError(s.photos.Save(s.ctx, s.userID, photoURL()))
	s.Require().NoError(s.svc.DeletePhoto(s.ctx, s.userID))
	s.Equal(0, s.kv.Len())

	s.Require().NoError(s.photos.Save(s.ctx, s.userID, photoURL()))
	s.kv.FailWrites(true)
	err := s.svc.DeletePhoto(s.ctx, s.userID)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}
