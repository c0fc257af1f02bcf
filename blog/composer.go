package blog

import (
	"errors"
	"html/template"

	"gorm.io/gorm"

	"inkwell/auth"
	"inkwell/models"
)

// Fallbacks when the author record behind a post no longer exists. A missing
// author must never take down the detail page.
const (
	unknownAuthor = "Unknown"
	noBio         = "No bio available"
)

// DetailView is everything the detail page needs, assembled in one pass.
type DetailView struct {
	Post         *models.Post
	ContentHTML  template.HTML
	AuthorName   string
	AuthorEmail  string
	AuthorBio    string
	Comments     []models.Comment
	CommentCount int
	RelatedPosts []models.Post
	AuthorPosts  []models.Post
	ViewerName   string
	Views        int64
}

// Composer joins a post with its author, comments and related content. Its
// only write is the view counter bump.
type Composer struct {
	db     *gorm.DB
	store  *Store
	engine *Engine
}

func NewComposer(db *gorm.DB, store *Store, engine *Engine) *Composer {
	return &Composer{db: db, store: store, engine: engine}
}

// ComposeDetail builds the detail view model for a post. Private posts exist
// only for their author; everyone else gets ErrNotFound rather than a hint
// that there is something to see.
func (cp *Composer) ComposeDetail(postID int, viewer auth.Identity) (*DetailView, error) {
	post, err := cp.store.FindPostByID(postID)
	if err != nil {
		return nil, err
	}

	if post.Visibility == models.VisibilityPrivate && viewer.Email != post.AuthorEmail {
		return nil, ErrNotFound
	}

	authorName := unknownAuthor
	authorEmail := unknownAuthor
	authorBio := noBio

	var author models.User
	err = cp.db.Where("email = ?", post.AuthorEmail).First(&author).Error
	switch {
	case err == nil:
		authorName = author.FullName
		authorEmail = author.Email
		if author.Bio != "" {
			authorBio = author.Bio
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// degrade to the fallbacks
	default:
		return nil, storeErr(err)
	}

	comments, err := cp.engine.CommentsForPost(post.ID)
	if err != nil {
		return nil, err
	}

	related, err := cp.store.RelatedPosts(post)
	if err != nil {
		return nil, err
	}

	authorPosts, err := cp.store.PostsByAuthor(post.AuthorEmail, post.ID)
	if err != nil {
		return nil, err
	}

	// persist the view after the joins; the response carries the bumped count
	// without re-reading the row we just touched
	if err := cp.engine.IncrementViews(post.ID); err != nil {
		return nil, err
	}
	post.Views++

	return &DetailView{
		Post:         post,
		ContentHTML:  template.HTML(renderCached(post.Content)),
		AuthorName:   authorName,
		AuthorEmail:  authorEmail,
		AuthorBio:    authorBio,
		Comments:     comments,
		CommentCount: len(comments),
		RelatedPosts: related,
		AuthorPosts:  authorPosts,
		ViewerName:   viewer.DisplayName(),
		Views:        post.Views,
	}, nil
}
