package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/recipehub/internal/domain/comment"
	"github.com/geocoder89/recipehub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const commentColumns = `id, text, recipe_id, user_id, created_at, updated_at`

type CommentsRepo struct {
	base
}

func NewCommentsRepo(pool *pgxpool.Pool, prom *observability.Prom) *CommentsRepo {
	return &CommentsRepo{base{pool: pool, prom: prom}}
}

func scanComment(row pgx.Row) (comment.Comment, error) {
	var c comment.Comment
	err := row.Scan(&c.ID, &c.Text, &c.RecipeID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *CommentsRepo) Create(ctx context.Context, c comment.Comment) error {
	return r.observe("comments.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO comments (`+commentColumns+`) VALUES ($1,$2,$3,$4,$5,$6)`,
			c.ID, c.Text, c.RecipeID, c.UserID, c.CreatedAt, c.UpdatedAt,
		)
		return err
	})
}

func (r *CommentsRepo) GetByID(ctx context.Context, id string) (comment.Comment, error) {
	var (
		c    comment.Comment
		miss bool
	)

	err := r.observe("comments.get_by_id", func() error {
		var err error
		c, err = scanComment(r.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			miss = true
			return nil
		}
		return err
	})

	if err != nil {
		return comment.Comment{}, err
	}
	if miss {
		return comment.Comment{}, comment.ErrNotFound
	}
	return c, nil
}

func (r *CommentsRepo) ListByRecipe(ctx context.Context, recipeID string) ([]comment.Comment, error) {
	var rows pgx.Rows

	err := r.observe("comments.list_by_recipe", func() error {
		var err error
		rows, err = r.pool.Query(ctx,
			`SELECT `+commentColumns+` FROM comments
			 WHERE recipe_id = $1
			 ORDER BY created_at DESC, id DESC`,
			recipeID,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]comment.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		if r.prom != nil {
			r.prom.DbErrorsTotal.WithLabelValues("comments.list_by_recipe", "rows_err").Inc()
		}
		return nil, err
	}
	return out, nil
}

func (r *CommentsRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("comments.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return err
	}
	if affected == 0 {
		return comment.ErrNotFound
	}
	return nil
}
