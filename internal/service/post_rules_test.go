package service

import (
	"fmt"
	"testing"

	"blog_platform/internal/model"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []string{
	model.StatusDraft,
	model.StatusPendingReview,
	model.StatusPublished,
	model.StatusRejected,
}

var allActions = []model.PostAction{
	model.ActionEdit,
	model.ActionDelete,
	model.ActionSubmit,
	model.ActionPublish,
	model.ActionReject,
}

// expectedOutcome mirrors the policy table: authorization first, then state.
func expectedOutcome(role string, isAuthor bool, action model.PostAction, status string) error {
	adminOnly := action == model.ActionPublish || action == model.ActionReject

	if adminOnly {
		if role != model.RoleAdmin {
			return ErrForbidden
		}
	} else if !isAuthor && role != model.RoleAdmin {
		return ErrForbidden
	}

	switch action {
	case model.ActionEdit, model.ActionDelete, model.ActionSubmit:
		if status != model.StatusDraft {
			return ErrInvalidState
		}
	case model.ActionPublish:
		if status != model.StatusDraft && status != model.StatusPendingReview {
			return ErrInvalidState
		}
	case model.ActionReject:
		if status != model.StatusPendingReview {
			return ErrInvalidState
		}
	}
	return nil
}

func TestEvaluateAction_Exhaustive(t *testing.T) {
	for _, role := range []string{model.RoleUser, model.RoleAdmin} {
		for _, isAuthor := range []bool{true, false} {
			for _, action := range allActions {
				for _, status := range allStatuses {
					name := fmt.Sprintf("%s/author=%v/%s/%s", role, isAuthor, action, status)
					t.Run(name, func(t *testing.T) {
						want := expectedOutcome(role, isAuthor, action, status)
						got := EvaluateAction(role, isAuthor, action, status)
						assert.ErrorIs(t, got, want)
					})
				}
			}
		}
	}
}

func TestEvaluateAction_AuthorizationPrecedesState(t *testing.T) {
	// A stranger asking to edit a published post must get Forbidden, not
	// InvalidState: nothing about the post's status leaks to them.
	err := EvaluateAction(model.RoleUser, false, model.ActionEdit, model.StatusPublished)
	assert.ErrorIs(t, err, ErrForbidden)

	// A non-admin author asking to publish their own pending post is still
	// Forbidden even though the status would be valid.
	err = EvaluateAction(model.RoleUser, true, model.ActionPublish, model.StatusPendingReview)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestEvaluateAction_AdminOverride(t *testing.T) {
	// Admins may edit, delete and submit drafts they do not own.
	for _, action := range []model.PostAction{model.ActionEdit, model.ActionDelete, model.ActionSubmit} {
		assert.NoError(t, EvaluateAction(model.RoleAdmin, false, action, model.StatusDraft))
	}
}

func TestEvaluateAction_TerminalStatuses(t *testing.T) {
	// Published and rejected are terminal: nobody can move a post out of them.
	for _, status := range []string{model.StatusPublished, model.StatusRejected} {
		for _, action := range allActions {
			err := EvaluateAction(model.RoleAdmin, true, action, status)
			assert.ErrorIs(t, err, ErrInvalidState, "action %s from %s should be rejected", action, status)
		}
	}
}

func TestEvaluateAction_UnknownAction(t *testing.T) {
	err := EvaluateAction(model.RoleAdmin, true, model.PostAction("archive"), model.StatusDraft)
	assert.ErrorIs(t, err, ErrForbidden)
}
