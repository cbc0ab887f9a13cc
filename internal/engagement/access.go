package engagement

import "github.com/BloggingApp/post-service/internal/model"

// CanUpdatePost is owner-only. Admins may delete a post they don't own but
// may not edit it.
func CanUpdatePost(actor model.Actor, post *model.Post) bool {
	return actor.ID == post.AuthorID
}

func CanDeletePost(actor model.Actor, post *model.Post) bool {
	return actor.ID == post.AuthorID || actor.IsAdmin()
}

func CanDeleteComment(actor model.Actor, post *model.Post, comment *model.Comment) bool {
	return actor.ID == comment.AuthorID || actor.ID == post.AuthorID || actor.IsAdmin()
}
