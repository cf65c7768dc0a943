package service

import (
	"context"
	"fmt"

	"github.com/geocoder89/recipehub/internal/domain/comment"
	"github.com/geocoder89/recipehub/internal/utils"
)

// Comments lets anyone signed in comment and only the author delete.
type Comments struct {
	comments CommentStore
	users    UserStore
}

func NewComments(comments CommentStore, users UserStore) *Comments {
	return &Comments{comments: comments, users: users}
}

// Create does not check that the recipe exists.
func (s *Comments) Create(ctx context.Context, authorID string, req comment.CreateCommentRequest) (comment.View, error) {
	c, err := comment.New(authorID, req)
	if err != nil {
		return comment.View{}, err
	}

	if !utils.IsUUID(c.RecipeID) {
		return comment.View{}, comment.ErrInvalid
	}

	if err := s.comments.Create(ctx, c); err != nil {
		return comment.View{}, fmt.Errorf("create comment: %w", err)
	}

	vs, err := s.views(ctx, []comment.Comment{c})
	if err != nil {
		return comment.View{}, err
	}
	return vs[0], nil
}

// ListForRecipe returns an empty list, not an error, for unknown recipes.
func (s *Comments) ListForRecipe(ctx context.Context, recipeID string) ([]comment.View, error) {
	if !utils.IsUUID(recipeID) {
		return []comment.View{}, nil
	}

	cs, err := s.comments.ListByRecipe(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return s.views(ctx, cs)
}

func (s *Comments) Delete(ctx context.Context, id, callerID string) error {
	if !utils.IsUUID(id) {
		return comment.ErrNotFound
	}

	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if c.UserID != callerID {
		return comment.ErrNotAuthor
	}

	return s.comments.Delete(ctx, id)
}

func (s *Comments) views(ctx context.Context, cs []comment.Comment) ([]comment.View, error) {
	ids := make([]string, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.UserID)
	}

	people, err := lookupUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	out := make([]comment.View, 0, len(cs))
	for _, c := range cs {
		author := summaryOf(people, c.UserID)
		author.Email = ""

		out = append(out, comment.View{
			ID:        c.ID,
			Text:      c.Text,
			RecipeID:  c.RecipeID,
			User:      author,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return out, nil
}
