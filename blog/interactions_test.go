package blog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"inkwell/auth"
	"inkwell/models"
)

func likeMembers(db *gorm.DB, postID int) int64 {
	var count int64
	db.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count)
	return count
}

func postLikes(db *gorm.DB, postID int) int64 {
	var post models.Post
	db.First(&post, postID)
	return post.Likes
}

func TestToggleLike_Guest(t *testing.T) {
	db := setupTestDB()
	engine := NewEngine(db)
	post := createTestPost(db, "Likeable", models.VisibilityPublic, "a@example.com")

	likes, err := engine.ToggleLike(post.ID, auth.Guest)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int64(0), likes)
	assert.Equal(t, int64(0), likeMembers(db, post.ID))
	assert.Equal(t, int64(0), postLikes(db, post.ID))
}

func TestToggleLike_MissingPost(t *testing.T) {
	db := setupTestDB()
	engine := NewEngine(db)
	user := createTestUser(db, "Reader", "reader@example.com")

	_, err := engine.ToggleLike(999, viewerFor(user))

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleLike_RoundTrip(t *testing.T) {
	db := setupTestDB()
	engine := NewEngine(db)
	post := createTestPost(db, "Likeable", models.VisibilityPublic, "a@example.com")
	user := createTestUser(db, "Reader", "reader@example.com")
	viewer := viewerFor(user)

	likes, err := engine.ToggleLike(post.ID, viewer)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), likes)
	assert.Equal(t, int64(1), likeMembers(db, post.ID))
	assert.Equal(t, likeMembers(db, post.ID), postLikes(db, post.ID))

	likes, err = engine.ToggleLike(post.ID, viewer)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), likes)
	assert.Equal(t, int64(0), likeMembers(db, post.ID))
	assert.Equal(t, likeMembers(db, post.ID), postLikes(db, post.ID))
}

func TestToggleLike_TwoUsersIndependent(t *testing.T) {
	db := setupTestDB()
	engine := NewEngine(db)
	post := createTestPost(db, "Likeable", models.VisibilityPublic, "a@example.com")
	alice := createTestUser(db, "Alice", "alice@example.com")
	bob := createTestUser(db, "Bob", "bob@example.com")

	_, err := engine.ToggleLike(post.ID, viewerFor(alice))
	assert.NoError(t, err)
	likes, err := engine.ToggleLike(post.ID, viewerFor(bob))
	assert.NoError(t, err)

	assert.Equal(t, int64(2), likes)
	assert.Equal(t, int64(2), likeMembers(db, post.ID))

	// one user withdrawing leaves the other's like alone
	likes, err = engine.ToggleLike(post.ID, viewerFor(alice))
	assert.NoError(t, err)
	assert.Equal(t, int64(1), likes)

	var remaining models.PostLike
	assert.NoError(t, db.Where("post_id = ?", post.ID).First(&remaining).Error)
	assert.Equal(t, bob.ID, remaining.UserID)
}

func TestToggleLike_ConcurrentSameUser(t *testing.T) {
	db := setupTestDB()
	engine := NewEngine(db)
	post := createTestPost(db, "Likeable", models.VisibilityPublic, "a@example.com")
	user := createTestUser(db, "Reader", "reader@example.com")
	viewer := viewerFor(user)

	// an odd number of toggles must land on exactly one membership entry,
	// never a duplicate
	const toggles = 5
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.ToggleLike(post.ID, viewer)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), likeMembers(db, post.ID))
	assert.Equal(t, int64(1), postLikes(db, post.ID))
}

func TestToggleLike_ConcurrentDifferentUsers(t *testing.T) {
	db := setupTestDB()
	engine := NewEngine(db)
	post := createTestPost(db, "Likeable", models.VisibilityPublic, "a@example.com")

	users := []*models.User{
		createTestUser(db, "U1", "u1@example.com"),
		createTestUser(db, "U2", "u2@example.com"),
		createTestUser(db, "U3", "u3@example.com"),
	}

	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(1)
		go func(u *models.User) {
			defer wg.Done()
			_, err := engine.ToggleLike(post.ID, viewerFor(u))
			assert.NoError(t, err)
		}(u)
	}
	wg.Wait()

	assert.Equal(t, int64(3), likeMembers(db, post.ID))
	assert.Equal(t, int64(3), postLikes(db, post.ID))
}

func TestIncrementViews(t *testing.T) {
	db := setupTestDB()
	engine := NewEngine(db)
	post := createTestPost(db, "Viewed", models.VisibilityPublic, "a@example.com")

	assert.NoError(t, engine.IncrementViews(post.ID))
	assert.NoError(t, engine.IncrementViews(post.ID))

	var reloaded models.Post
	db.First(&reloaded, post.ID)
	assert.Equal(t, int64(2), reloaded.Views)
}

func TestAddComment_Guest(t *testing.T) {
	db := setupTestDB()
	engine := NewEngine(db)
	post := createTestPost(db, "Discussed", models.VisibilityPublic, "a@example.com")

	comment, err := engine.AddComment(post.ID, "nice post", auth.Guest)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Nil(t, comment)

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAddComment_EmptyBody(t *testing.T) {
	db := setupTestDB()
	engine := NewEngine(db)
	post := createTestPost(db, "Discussed", models.VisibilityPublic, "a@example.com")
	user := createTestUser(db, "Reader", "reader@example.com")

	for _, body := range []string{"", "   ", "\n\t "} {
		comment, err := engine.AddComment(post.ID, body, viewerFor(user))
		assert.ErrorIs(t, err, ErrValidation, "body %q", body)
		assert.Nil(t, comment)
	}

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAddComment_MissingPost(t *testing.T) {
	db := setupTestDB()
	engine := NewEngine(db)
	user := createTestUser(db, "Reader", "reader@example.com")

	comment, err := engine.AddComment(999, "hello", viewerFor(user))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, comment)
}

func TestAddComment_SnapshotsAuthorAndRecipient(t *testing.T) {
	db := setupTestDB()
	engine := NewEngine(db)
	post := createTestPost(db, "Discussed", models.VisibilityPublic, "author@example.com")
	user := createTestUser(db, "Reader", "reader@example.com")

	comment, err := engine.AddComment(post.ID, "  nice post  ", viewerFor(user))

	assert.NoError(t, err)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, "nice post", comment.Body)
	assert.Equal(t, "reader@example.com", comment.AuthorEmail)
	assert.Equal(t, "Reader", comment.AuthorName)
	assert.Equal(t, "author@example.com", comment.RecipientEmail)

	// snapshot stays as written even after the commenter renames
	user.FullName = "Renamed Reader"
	db.Save(user)

	var stored models.Comment
	db.First(&stored, comment.ID)
	assert.Equal(t, "Reader", stored.AuthorName)
}

func TestCommentsForPost(t *testing.T) {
	db := setupTestDB()
	engine := NewEngine(db)
	post := createTestPost(db, "Discussed", models.VisibilityPublic, "a@example.com")
	other := createTestPost(db, "Quiet", models.VisibilityPublic, "a@example.com")
	user := createTestUser(db, "Reader", "reader@example.com")

	engine.AddComment(post.ID, "first", viewerFor(user))
	engine.AddComment(post.ID, "second", viewerFor(user))
	engine.AddComment(other.ID, "elsewhere", viewerFor(user))

	comments, err := engine.CommentsForPost(post.ID)
	assert.NoError(t, err)
	assert.Len(t, comments, 2)

	count, err := engine.CommentCount(post.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestLikedBy(t *testing.T) {
	db := setupTestDB()
	engine := NewEngine(db)
	post := createTestPost(db, "Likeable", models.VisibilityPublic, "a@example.com")
	user := createTestUser(db, "Reader", "reader@example.com")

	liked, err := engine.LikedBy(post.ID, user.ID)
	assert.NoError(t, err)
	assert.False(t, liked)

	engine.ToggleLike(post.ID, viewerFor(user))

	liked, err = engine.LikedBy(post.ID, user.ID)
	assert.NoError(t, err)
	assert.True(t, liked)
}
