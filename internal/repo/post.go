package repo

import (
	"SocialSphere/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// PostStats — счётчики поста для конкретного читателя.
type PostStats struct {
	Likes    int64
	Comments int64
	Liked    bool
}

// PostRepository — посты и лайки.
type PostRepository interface {
	Create(ctx context.Context, p *model.Post) (*model.Post, error)
	// GetByID подгружает автора; (nil, gorm.ErrRecordNotFound), если поста нет.
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	// List возвращает страницу постов, новые первыми, и общее количество.
	List(ctx context.Context, offset, limit int) ([]model.Post, int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) (*model.Post, error)
	// Delete удаляет пост вместе с его лайками и комментариями.
	Delete(ctx context.Context, id int64) error
	// ToggleLike ставит лайк, если его нет, иначе снимает. true — лайк поставлен.
	ToggleLike(ctx context.Context, userID, postID int64) (bool, error)
	// Stats считает лайки/комментарии постов; viewerID 0 — анонимный читатель.
	Stats(ctx context.Context, postIDs []int64, viewerID int64) (map[int64]PostStats, error)
}

type postRepo struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepo{db: db}
}

func (r *postRepo) Create(ctx context.Context, p *model.Post) (*model.Post, error) {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, p.ID)
}

func (r *postRepo) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).Preload("User").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepo) List(ctx context.Context, offset, limit int) ([]model.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []model.Post
	err := r.db.WithContext(ctx).Preload("User").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepo) Update(ctx context.Context, id int64, updates map[string]any) (*model.Post, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetByID(ctx, id)
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *postRepo) ToggleLike(ctx context.Context, userID, postID int64) (bool, error) {
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var like model.Like
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error
		switch {
		case err == nil:
			return tx.Delete(&like).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			liked = true
			return tx.Create(&model.Like{UserID: userID, PostID: postID}).Error
		default:
			return err
		}
	})
	return liked, err
}

type countRow struct {
	PostID int64
	N      int64
}

func (r *postRepo) Stats(ctx context.Context, postIDs []int64, viewerID int64) (map[int64]PostStats, error) {
	out := make(map[int64]PostStats, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	db := r.db.WithContext(ctx)

	var likes, comments []countRow
	if err := db.Model(&model.Like{}).Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).Group("post_id").Scan(&likes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Comment{}).Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).Group("post_id").Scan(&comments).Error; err != nil {
		return nil, err
	}
	var liked []int64
	if viewerID != 0 {
		if err := db.Model(&model.Like{}).Where("user_id = ? AND post_id IN ?", viewerID, postIDs).
			Pluck("post_id", &liked).Error; err != nil {
			return nil, err
		}
	}

	for _, row := range likes {
		s := out[row.PostID]
		s.Likes = row.N
		out[row.PostID] = s
	}
	for _, row := range comments {
		s := out[row.PostID]
		s.Comments = row.N
		out[row.PostID] = s
	}
	for _, id := range liked {
		s := out[id]
		s.Liked = true
		out[id] = s
	}
	return out, nil
}
