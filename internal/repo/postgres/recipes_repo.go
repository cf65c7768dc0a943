package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/geocoder89/recipehub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// likes ride along as an array, newest first
const recipeSelect = `
	SELECT r.id, r.title, r.ingredients, r.instructions, r.image_url, r.created_by,
	       r.created_at, r.updated_at,
	       COALESCE(
	         (SELECT array_agg(l.user_id ORDER BY l.liked_at DESC, l.user_id)
	          FROM recipe_likes l WHERE l.recipe_id = r.id),
	         '{}'
	       ) AS likes
	FROM recipes r`

type RecipesRepo struct {
	base
}

func NewRecipesRepo(pool *pgxpool.Pool, prom *observability.Prom) *RecipesRepo {
	return &RecipesRepo{base{pool: pool, prom: prom}}
}

func scanRecipe(row pgx.Row) (recipe.Recipe, error) {
	var rec recipe.Recipe

	err := row.Scan(
		&rec.ID,
		&rec.Title,
		&rec.Ingredients,
		&rec.Instructions,
		&rec.ImageURL,
		&rec.CreatedBy,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.Likes,
	)
	if rec.Likes == nil {
		rec.Likes = []string{}
	}
	return rec, err
}

func (r *RecipesRepo) Create(ctx context.Context, rec recipe.Recipe) error {
	return r.observe("recipes.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO recipes (id, title, ingredients, instructions, image_url, created_by, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			rec.ID, rec.Title, rec.Ingredients, rec.Instructions, rec.ImageURL, rec.CreatedBy, rec.CreatedAt, rec.UpdatedAt,
		)
		return err
	})
}

func (r *RecipesRepo) GetByID(ctx context.Context, id string) (recipe.Recipe, error) {
	var (
		rec  recipe.Recipe
		miss bool
	)

	err := r.observe("recipes.get_by_id", func() error {
		var err error
		rec, err = scanRecipe(r.pool.QueryRow(ctx, recipeSelect+` WHERE r.id = $1`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			miss = true
			return nil
		}
		return err
	})

	if err != nil {
		return recipe.Recipe{}, err
	}
	if miss {
		return recipe.Recipe{}, recipe.ErrNotFound
	}
	return rec, nil
}

func (r *RecipesRepo) List(ctx context.Context) ([]recipe.Recipe, error) {
	return r.list(ctx, "recipes.list", recipeSelect+` ORDER BY r.created_at DESC, r.id DESC`)
}

func (r *RecipesRepo) ListByOwner(ctx context.Context, ownerID string) ([]recipe.Recipe, error) {
	return r.list(ctx, "recipes.list_by_owner",
		recipeSelect+` WHERE r.created_by = $1 ORDER BY r.created_at DESC, r.id DESC`, ownerID)
}

func (r *RecipesRepo) list(ctx context.Context, op, query string, args ...any) ([]recipe.Recipe, error) {
	var rows pgx.Rows

	err := r.observe(op, func() error {
		var err error
		rows, err = r.pool.Query(ctx, query, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]recipe.Recipe, 0)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		if r.prom != nil {
			r.prom.DbErrorsTotal.WithLabelValues(op, "rows_err").Inc()
		}
		return nil, err
	}
	return out, nil
}

// Update rewrites the editable fields. Likes and ownership are untouched.
func (r *RecipesRepo) Update(ctx context.Context, rec recipe.Recipe) error {
	var affected int64

	err := r.observe("recipes.update", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE recipes
			 SET title = $2, ingredients = $3, instructions = $4, image_url = $5, updated_at = $6
			 WHERE id = $1`,
			rec.ID, rec.Title, rec.Ingredients, rec.Instructions, rec.ImageURL, rec.UpdatedAt,
		)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return err
	}
	if affected == 0 {
		return recipe.ErrNotFound
	}
	return nil
}

// Delete drops the recipe; its likes go with it by cascade.
func (r *RecipesRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("recipes.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return err
	}
	if affected == 0 {
		return recipe.ErrNotFound
	}
	return nil
}

// AddLike relies on the (recipe_id, user_id) primary key so a racing
// duplicate like fails instead of being counted twice.
func (r *RecipesRepo) AddLike(ctx context.Context, recipeID, userID string) ([]string, error) {
	err := r.observe("recipes.add_like", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO recipe_likes (recipe_id, user_id, liked_at) VALUES ($1, $2, $3)`,
			recipeID, userID, time.Now().UTC(),
		)
		return err
	})

	if err != nil {
		return nil, likeError(err)
	}

	return r.likes(ctx, recipeID)
}

// constraint names from the recipe_likes migration
const (
	likesRecipeFK = "recipe_likes_recipe_fk"
	likesUserFK   = "recipe_likes_user_fk"
)

// likeError maps an AddLike insert failure. Each foreign key names its own
// missing side: a stale token for a removed user is not a missing recipe.
func likeError(err error) error {
	if IsUniqueViolation(err) {
		return recipe.ErrAlreadyLiked
	}

	switch constraint, ok := foreignKeyViolation(err); {
	case !ok:
		return err
	case constraint == likesUserFK:
		return user.ErrNotFound
	case constraint == likesRecipeFK:
		return recipe.ErrNotFound
	}
	return err
}

func (r *RecipesRepo) RemoveLike(ctx context.Context, recipeID, userID string) ([]string, error) {
	var affected int64

	err := r.observe("recipes.remove_like", func() error {
		tag, err := r.pool.Exec(ctx,
			`DELETE FROM recipe_likes WHERE recipe_id = $1 AND user_id = $2`, recipeID, userID)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, recipe.ErrNotYetLiked
	}

	return r.likes(ctx, recipeID)
}

func (r *RecipesRepo) likes(ctx context.Context, recipeID string) ([]string, error) {
	var rows pgx.Rows

	err := r.observe("recipes.likes", func() error {
		var err error
		rows, err = r.pool.Query(ctx,
			`SELECT user_id FROM recipe_likes WHERE recipe_id = $1 ORDER BY liked_at DESC, user_id`, recipeID)
		return err
	})
	if err != nil {
		return nil, err
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
