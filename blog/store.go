package blog

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"inkwell/models"
)

const (
	relatedPostLimit = 3
	authorPostLimit  = 5
)

// Store is the query surface over posts. Anything reachable without the
// author's own identity only ever sees public posts.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// PostDraft is the input to CreatePost, before validation and normalization.
type PostDraft struct {
	Title          string
	Content        string
	Category       string
	CustomCategory string
	Tags           string // comma-separated, as typed into the form
	Visibility     string
	AuthorEmail    string
	AuthorName     string
	ImagePath      string
}

// CreatePost validates and normalizes a draft and persists it.
func (s *Store) CreatePost(draft PostDraft) (*models.Post, error) {
	title := strings.TrimSpace(draft.Title)
	content := strings.TrimSpace(draft.Content)
	category := strings.TrimSpace(draft.Category)
	customCategory := strings.TrimSpace(draft.CustomCategory)

	if title == "" || content == "" || (category == "" && customCategory == "") {
		return nil, fmt.Errorf("%w: all required fields are not provided", ErrValidation)
	}

	// the Custom marker stays in category, the free text in customCategory;
	// named categories carry no custom text
	if category == models.CategoryCustom {
		if customCategory == "" {
			return nil, fmt.Errorf("%w: custom category is empty", ErrValidation)
		}
	} else {
		if category == "" {
			category = customCategory
		}
		customCategory = ""
	}

	visibility := draft.Visibility
	switch visibility {
	case "":
		visibility = models.VisibilityPublic
	case models.VisibilityPublic, models.VisibilityPrivate:
	default:
		return nil, fmt.Errorf("%w: unknown visibility %q", ErrValidation, visibility)
	}

	imagePath := draft.ImagePath
	if imagePath == "" {
		imagePath = models.NoImage
	}

	post := models.Post{
		Title:          title,
		Content:        content,
		Category:       category,
		CustomCategory: customCategory,
		Tags:           strings.Join(ParseTags(draft.Tags), ","),
		Visibility:     visibility,
		AuthorEmail:    draft.AuthorEmail,
		Author:         draft.AuthorName,
		ImagePath:      imagePath,
		CreatedAt:      time.Now(),
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return &post, nil
}

// ParseTags splits a comma-separated tag string, trimming each entry and
// dropping empties. Order is preserved and duplicates are kept.
func ParseTags(raw string) []string {
	if raw == "" {
		return nil
	}

	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// FindPostByID fetches a post regardless of visibility. Callers decide who
// may actually see it; id well-formedness is ParseID's job and happens before
// this is called.
func (s *Store) FindPostByID(id int) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		return nil, storeErr(err)
	}
	return &post, nil
}

// SearchPosts matches the query as a case-insensitive substring of public
// post titles. Result order is whatever the store returns.
func (s *Store) SearchPosts(query string) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Where("visibility = ? AND LOWER(title) LIKE ?",
		models.VisibilityPublic, "%"+strings.ToLower(query)+"%").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return posts, nil
}

// RelatedPosts returns up to three public posts sharing the post's effective
// category, the post itself excluded.
func (s *Store) RelatedPosts(post *models.Post) ([]models.Post, error) {
	category := post.EffectiveCategory()

	var posts []models.Post
	err := s.db.Where("visibility = ? AND id != ? AND (category = ? OR (category = ? AND custom_category = ?))",
		models.VisibilityPublic, post.ID, category, models.CategoryCustom, category).
		Limit(relatedPostLimit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return posts, nil
}

// PostsByAuthor returns up to five of the author's other public posts.
func (s *Store) PostsByAuthor(email string, excludeID int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Where("author_email = ? AND visibility = ? AND id != ?",
		email, models.VisibilityPublic, excludeID).
		Limit(authorPostLimit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return posts, nil
}

// PostsForOwner is the author's own listing and the one read that may show
// private posts, scoped to that author alone.
func (s *Store) PostsForOwner(email string) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Where("author_email = ?", email).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return posts, nil
}

// PublicPosts is the home feed.
func (s *Store) PublicPosts() ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Where("visibility = ?", models.VisibilityPublic).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return posts, nil
}
