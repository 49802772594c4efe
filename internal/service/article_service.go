package service

import (
	"context"
	"errors"

	"clinic_booking/internal/model"
	"clinic_booking/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// ArticleService covers doctor-authored articles and user comments.
type ArticleService interface {
	CreateArticle(ctx context.Context, doctor *model.Doctor, req model.CreateArticleRequest) (*model.Article, error)
	GetArticle(ctx context.Context, id string) (*model.Article, []model.Comment, error)
	ListArticles(ctx context.Context) ([]model.Article, error)
	UpdateArticle(ctx context.Context, id, doctorID string, req model.UpdateArticleRequest) (*model.Article, error)
	DeleteArticle(ctx context.Context, id, doctorID string) error

	AddComment(ctx context.Context, articleID string, user *model.User, req model.CreateCommentRequest) (*model.Comment, error)
	EditComment(ctx context.Context, commentID, userID, text string) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID, requesterRole, requesterID string) error
}

type articleService struct {
	articleRepo repository.ArticleRepository
}

// NewArticleService creates a new ArticleService
func NewArticleService(articleRepo repository.ArticleRepository) ArticleService {
	return &articleService{articleRepo: articleRepo}
}

func (s *articleService) CreateArticle(ctx context.Context, doctor *model.Doctor, req model.CreateArticleRequest) (*model.Article, error) {
	article := &model.Article{
		ID:         uuid.New().String(),
		DoctorID:   doctor.ID,
		DoctorName: doctor.Name,
		Title:      req.Title,
		Content:    req.Content,
	}
	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) GetArticle(ctx context.Context, id string) (*model.Article, []model.Comment, error) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if article == nil {
		return nil, nil, ErrArticleNotFound
	}
	comments, err := s.articleRepo.ListComments(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return article, comments, nil
}

func (s *articleService) ListArticles(ctx context.Context) ([]model.Article, error) {
	return s.articleRepo.List(ctx)
}

// UpdateArticle edits the doctor's own article.
func (s *articleService) UpdateArticle(ctx context.Context, id, doctorID string, req model.UpdateArticleRequest) (*model.Article, error) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	if article.DoctorID != doctorID {
		return nil, ErrForbidden
	}

	if err := s.articleRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	return s.articleRepo.FindByID(ctx, id)
}

// DeleteArticle removes the doctor's own article and its comments.
func (s *articleService) DeleteArticle(ctx context.Context, id, doctorID string) error {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrArticleNotFound
	}
	if article.DoctorID != doctorID {
		return ErrForbidden
	}
	return s.articleRepo.Delete(ctx, id)
}

func (s *articleService) AddComment(ctx context.Context, articleID string, user *model.User, req model.CreateCommentRequest) (*model.Comment, error) {
	article, err := s.articleRepo.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}

	comment := &model.Comment{
		ID:        uuid.New().String(),
		ArticleID: articleID,
		UserID:    user.ID,
		UserName:  user.Name,
		Text:      req.Text,
	}
	if err := s.articleRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// EditComment edits the user's own comment.
func (s *articleService) EditComment(ctx context.Context, commentID, userID, text string) (*model.Comment, error) {
	comment, err := s.articleRepo.FindCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if comment.UserID != userID {
		return nil, ErrForbidden
	}

	if err := s.articleRepo.UpdateComment(ctx, commentID, text); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return s.articleRepo.FindCommentByID(ctx, commentID)
}

// DeleteComment removes a comment: the authoring user or the admin may do it.
func (s *articleService) DeleteComment(ctx context.Context, commentID, requesterRole, requesterID string) error {
	comment, err := s.articleRepo.FindCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if requesterRole != model.RoleAdmin && comment.UserID != requesterID {
		return ErrForbidden
	}
	return s.articleRepo.DeleteComment(ctx, commentID)
}
