package repository

import (
	"context"
	"errors"
	"fmt"

	"clinic_booking/internal/model"

	"github.com/jackc/pgx/v5"
)

// ArticleRepository defines operations for articles and their comments
type ArticleRepository interface {
	Create(ctx context.Context, a *model.Article) error
	FindByID(ctx context.Context, id string) (*model.Article, error)
	List(ctx context.Context) ([]model.Article, error)
	Update(ctx context.Context, id string, req model.UpdateArticleRequest) error
	Delete(ctx context.Context, id string) error

	CreateComment(ctx context.Context, c *model.Comment) error
	FindCommentByID(ctx context.Context, id string) (*model.Comment, error)
	ListComments(ctx context.Context, articleID string) ([]model.Comment, error)
	UpdateComment(ctx context.Context, id, text string) error
	DeleteComment(ctx context.Context, id string) error
}

type articleRepository struct {
	db DB
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, a *model.Article) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO articles (id, doctor_id, doctor_name, title, content)
		 VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`,
		a.ID, a.DoctorID, a.DoctorName, a.Title, a.Content,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

// FindByID retrieves an article by its ID. Not found is (nil, nil).
func (r *articleRepository) FindByID(ctx context.Context, id string) (*model.Article, error) {
	a := &model.Article{}
	err := r.db.QueryRow(ctx,
		`SELECT id, doctor_id, doctor_name, title, content, created_at, updated_at
		 FROM articles WHERE id = $1`, id,
	).Scan(&a.ID, &a.DoctorID, &a.DoctorName, &a.Title, &a.Content, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find article by ID: %w", err)
	}
	return a, nil
}

func (r *articleRepository) List(ctx context.Context) ([]model.Article, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, doctor_id, doctor_name, title, content, created_at, updated_at
		 FROM articles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var out []model.Article
	for rows.Next() {
		a := model.Article{}
		if err := rows.Scan(&a.ID, &a.DoctorID, &a.DoctorName, &a.Title, &a.Content, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}
	return out, nil
}

func (r *articleRepository) Update(ctx context.Context, id string, req model.UpdateArticleRequest) error {
	a, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return pgx.ErrNoRows
	}
	title, content := a.Title, a.Content
	if req.Title != nil {
		title = *req.Title
	}
	if req.Content != nil {
		content = *req.Content
	}
	_, err = r.db.Exec(ctx,
		`UPDATE articles SET title = $2, content = $3, updated_at = NOW() WHERE id = $1`,
		id, title, content,
	)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) CreateComment(ctx context.Context, c *model.Comment) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO comments (id, article_id, user_id, user_name, text)
		 VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`,
		c.ID, c.ArticleID, c.UserID, c.UserName, c.Text,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// FindCommentByID retrieves a comment by its ID. Not found is (nil, nil).
func (r *articleRepository) FindCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	c := &model.Comment{}
	err := r.db.QueryRow(ctx,
		`SELECT id, article_id, user_id, user_name, text, created_at, updated_at
		 FROM comments WHERE id = $1`, id,
	).Scan(&c.ID, &c.ArticleID, &c.UserID, &c.UserName, &c.Text, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find comment by ID: %w", err)
	}
	return c, nil
}

func (r *articleRepository) ListComments(ctx context.Context, articleID string) ([]model.Comment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, article_id, user_id, user_name, text, created_at, updated_at
		 FROM comments WHERE article_id = $1 ORDER BY created_at`, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var out []model.Comment
	for rows.Next() {
		c := model.Comment{}
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.UserID, &c.UserName, &c.Text, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		out = append(out, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return out, nil
}

func (r *articleRepository) UpdateComment(ctx context.Context, id, text string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE comments SET text = $2, updated_at = NOW() WHERE id = $1`, id, text)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) DeleteComment(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
