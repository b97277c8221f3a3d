package service

import "blog_platform/internal/model"

// EvaluateAction is the pure decision function for the post lifecycle. Given
// the actor's role, whether the actor authored the post, the requested
// action and the post's current status, it returns nil when the action is
// allowed, ErrForbidden when the actor may never perform it on this post,
// or ErrInvalidState when the actor could but the post is in the wrong
// status. Authorization is checked before state validity, so a stranger is
// told "forbidden" rather than learning anything about the post's status.
//
// Policy in force:
//
//	edit, delete  author or admin   draft only
//	submit        author or admin   draft -> pending_review
//	publish       admin only        draft or pending_review -> published
//	reject        admin only        pending_review -> rejected (terminal)
func EvaluateAction(role string, isAuthor bool, action model.PostAction, status string) error {
	switch action {
	case model.ActionEdit, model.ActionDelete, model.ActionSubmit:
		if !isAuthor && role != model.RoleAdmin {
			return ErrForbidden
		}
		if status != model.StatusDraft {
			return ErrInvalidState
		}
		return nil

	case model.ActionPublish:
		if role != model.RoleAdmin {
			return ErrForbidden
		}
		if status != model.StatusDraft && status != model.StatusPendingReview {
			return ErrInvalidState
		}
		return nil

	case model.ActionReject:
		if role != model.RoleAdmin {
			return ErrForbidden
		}
		if status != model.StatusPendingReview {
			return ErrInvalidState
		}
		return nil
	}
	return ErrForbidden
}
