package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	application "github.com/nova19-exe/eBhutanza/internal/application/models"
	"github.com/nova19-exe/eBhutanza/internal/dashboard/models"
	identity "github.com/nova19-exe/eBhutanza/internal/identity/models"
	incorporation "github.com/nova19-exe/eBhutanza/internal/incorporation/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
)

type usersStub struct{ user *identity.User }

func (u usersStub) GetUser(context.Context, id.UserID) (*identity.User, error) { return u.user, nil }

type draftsStub struct {
	profile application.ApplicantProfile
	err     error
}

func (d draftsStub) LoadDraft(context.Context, id.UserID) (application.ApplicantProfile, error) {
	return d.profile, d.err
}

type incorporationsStub struct{ n int }

func (i incorporationsStub) List(context.Context, id.UserID) ([]*incorporation.Request, error) {
	return make([]*incorporation.Request, i.n), nil
}

func action(summary *models.Summary, actionID string) models.QuickAction {
	for _, a := range summary.QuickActions {
		if a.ID == actionID {
			return a
		}
	}
	return models.QuickAction{}
}

func TestSummaryInProgress(t *testing.T) {
	uid := id.NewUserID()
	svc := New(
		usersStub{&identity.User{ID: uid, Email: "pema@example.bt"}},
		draftsStub{profile: application.ApplicantProfile{UserID: uid, ProgressPercent: 40, StatusKey: application.StatusInProgress}},
	)

	summary, err := svc.Summary(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "pema", summary.WelcomeName)
	assert.Equal(t, 40, summary.ProgressPercent)
	assert.Equal(t, application.StatusInProgress, summary.StatusKey)
	assert.False(t, action(summary, models.ActionIncorporation).Available)
	assert.True(t, action(summary, models.ActionCompliance).Available)
}

func TestSummarySubmitted(t *testing.T) {
	uid := id.NewUserID()
	svc := New(
		usersStub{&identity.User{ID: uid, DisplayName: "Pema Choden"}},
		draftsStub{profile: application.ApplicantProfile{UserID: uid, ProgressPercent: 100, StatusKey: application.StatusSubmittedForReview}},
		WithIncorporations(incorporationsStub{n: 2}),
	)

	summary, err := svc.Summary(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "Pema Choden", summary.WelcomeName)
	assert.True(t, action(summary, models.ActionIncorporation).Available)
	assert.Equal(t, 2, summary.IncorporationCount)
}

func TestSummaryDraftUnavailable(t *testing.T) {
	uid := id.NewUserID()
	svc := New(
		usersStub{&identity.User{ID: uid}},
		draftsStub{err: dErrors.New(dErrors.CodeUnavailable, "draft storage is unavailable")},
	)

	summary, err := svc.Summary(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "User", summary.WelcomeName)
	assert.Equal(t, application.StatusPendingSubmission, summary.StatusKey)
	assert.Equal(t, 0, summary.ProgressPercent)
}
