package blog

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"inkwell/auth"
	"inkwell/models"
)

// Engine owns the mutating interactions on a post: the like toggle, the view
// counter and comment attachment.
type Engine struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[likeKey]*sync.Mutex
}

type likeKey struct {
	postID int
	userID int
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{
		db:    db,
		locks: make(map[likeKey]*sync.Mutex),
	}
}

// lockFor hands out the mutex for one (post, user) pair. Different pairs get
// different mutexes and never contend.
func (e *Engine) lockFor(postID, userID int) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := likeKey{postID: postID, userID: userID}
	lock, ok := e.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[key] = lock
	}
	return lock
}

// IncrementViews bumps the view counter by one in a single SQL update. Counts
// only ever go up from here.
func (e *Engine) IncrementViews(postID int) error {
	err := e.db.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil
}

// ToggleLike flips the viewer's membership in the post's liked-by set and
// adjusts the counter to match. The membership test and the mutation run
// under the (post, user) lock, so the same user toggling from two requests at
// once cannot append twice; unrelated users proceed independently. The
// resulting count is returned so the caller needs no second fetch.
func (e *Engine) ToggleLike(postID int, viewer auth.Identity) (int64, error) {
	if !viewer.Authenticated() {
		return 0, ErrUnauthorized
	}

	lock := e.lockFor(postID, viewer.UserID)
	lock.Lock()
	defer lock.Unlock()

	var likes int64
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return storeErr(err)
		}

		var existing models.PostLike
		err := tx.Where("post_id = ? AND user_id = ?", postID, viewer.UserID).
			First(&existing).Error

		switch {
		case err == nil:
			// Liked -> NotLiked
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("likes", gorm.Expr("likes - 1")).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}

		case errors.Is(err, gorm.ErrRecordNotFound):
			// NotLiked -> Liked
			like := models.PostLike{PostID: postID, UserID: viewer.UserID, CreatedAt: time.Now()}
			if err := tx.Create(&like).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}

		default:
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		var updated models.Post
		if err := tx.First(&updated, postID).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		likes = updated.Likes
		return nil
	})
	if err != nil {
		return 0, err
	}

	return likes, nil
}

// AddComment attaches a comment to a post, snapshotting the author and
// recipient identities at write time. Those fields are never re-synced if a
// user renames later.
func (e *Engine) AddComment(postID int, body string, viewer auth.Identity) (*models.Comment, error) {
	if !viewer.Authenticated() {
		return nil, ErrUnauthorized
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: please enter a comment", ErrValidation)
	}

	var post models.Post
	if err := e.db.First(&post, postID).Error; err != nil {
		return nil, storeErr(err)
	}

	comment := models.Comment{
		PostID:         postID,
		AuthorEmail:    viewer.Email,
		AuthorName:     viewer.Name,
		RecipientEmail: post.AuthorEmail,
		Body:           body,
		CreatedAt:      time.Now(),
	}

	if err := e.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return &comment, nil
}

// CommentsForPost returns every comment on a post. Comments are public once
// posted, so there is no visibility filter here.
func (e *Engine) CommentsForPost(postID int) ([]models.Comment, error) {
	var comments []models.Comment
	if err := e.db.Where("post_id = ?", postID).Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return comments, nil
}

// CommentCount returns the number of comments on a post without loading them.
func (e *Engine) CommentCount(postID int) (int64, error) {
	var count int64
	err := e.db.Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return count, nil
}

// LikedBy reports whether the user is currently in the post's liked-by set.
func (e *Engine) LikedBy(postID, userID int) (bool, error) {
	var count int64
	err := e.db.Model(&models.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return count > 0, nil
}
