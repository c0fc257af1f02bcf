package blog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inkwell/auth"
	"inkwell/log"
	"inkwell/upload"
)

type BlogModule struct {
	db       *gorm.DB
	store    *Store
	engine   *Engine
	composer *Composer
}

func NewBlogModule(db *gorm.DB) *BlogModule {
	store := NewStore(db)
	engine := NewEngine(db)
	return &BlogModule{
		db:       db,
		store:    store,
		engine:   engine,
		composer: NewComposer(db, store, engine),
	}
}

func (b *BlogModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/addBlog", auth.RequireAuth, b.addBlogPage)
	router.POST("/addingBlog", auth.RequireAuth, b.createPost)
	router.GET("/allBlogs", auth.RequireAuth, b.listOwnPosts)
	router.GET("/posts/:id", b.postDetail)
	router.POST("/posts/comment/:id", auth.RequireAuth, b.addComment)
	router.GET("/search", b.search)
	router.POST("/blog/:id/like", b.toggleLike)
}

func (b *BlogModule) addBlogPage(c *gin.Context) {
	c.HTML(http.StatusOK, "add_blog.html", gin.H{
		"name": auth.Current(c).Name,
	})
}

func (b *BlogModule) createPost(c *gin.Context) {
	identity := auth.Current(c)

	imagePath, err := upload.SaveImage(c, "image")
	if err != nil {
		log.Error.Printf("saving upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	post, err := b.store.CreatePost(PostDraft{
		Title:          c.PostForm("title"),
		Content:        c.PostForm("content"),
		Category:       c.PostForm("category"),
		CustomCategory: c.PostForm("customCategory"),
		Tags:           c.PostForm("tags"),
		Visibility:     c.PostForm("visibility"),
		AuthorEmail:    identity.Email,
		AuthorName:     identity.Name,
		ImagePath:      imagePath,
	})
	switch {
	case errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "All required fields are not provided"})
		return
	case err != nil:
		log.Error.Printf("creating post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.Redirect(http.StatusFound, "/posts/"+strconv.Itoa(post.ID))
}

func (b *BlogModule) listOwnPosts(c *gin.Context) {
	identity := auth.Current(c)

	posts, err := b.store.PostsForOwner(identity.Email)
	if err != nil {
		log.Error.Printf("listing posts for %s: %v", identity.Email, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"errorCode":    http.StatusInternalServerError,
			"errorTitle":   "Internal Server Error",
			"errorMessage": "Something went wrong on our end. We are working on it!",
		})
		return
	}

	c.HTML(http.StatusOK, "all_blogs.html", gin.H{
		"blogs": posts,
		"name":  identity.Name,
	})
}

func (b *BlogModule) postDetail(c *gin.Context) {
	id, err := ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Blog ID"})
		return
	}

	view, err := b.composer.ComposeDetail(id, auth.Current(c))
	switch {
	case errors.Is(err, ErrNotFound):
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"errorCode":    http.StatusNotFound,
			"errorTitle":   "Page Not Found",
			"errorMessage": "The page you are looking for might have been removed, had its name changed, or is temporarily unavailable.",
		})
		return
	case err != nil:
		log.Error.Printf("composing detail for post %d: %v", id, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"errorCode":    http.StatusInternalServerError,
			"errorTitle":   "Internal Server Error",
			"errorMessage": "Something went wrong on our end. We are working on it!",
		})
		return
	}

	c.HTML(http.StatusOK, "post_detail.html", gin.H{
		"blog":         view.Post,
		"contentHTML":  view.ContentHTML,
		"author":       view.AuthorName,
		"email":        view.AuthorEmail,
		"authorBio":    view.AuthorBio,
		"comment":      view.Comments,
		"length":       view.CommentCount,
		"relatedPosts": view.RelatedPosts,
		"authorPosts":  view.AuthorPosts,
		"name":         view.ViewerName,
		"Views":        view.Views,
	})
}

func (b *BlogModule) addComment(c *gin.Context) {
	id, err := ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Blog ID"})
		return
	}

	_, err = b.engine.AddComment(id, c.PostForm("comments"), auth.Current(c))
	switch {
	case errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a comment"})
		return
	case errors.Is(err, ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login first"})
		return
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog post not found"})
		return
	case err != nil:
		log.Error.Printf("adding comment to post %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.Redirect(http.StatusFound, "/posts/"+strconv.Itoa(id))
}

func (b *BlogModule) search(c *gin.Context) {
	query := c.Query("query")

	results, err := b.store.SearchPosts(query)
	if err != nil {
		log.Error.Printf("searching posts: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"errorCode":    http.StatusInternalServerError,
			"errorTitle":   "Internal Server Error",
			"errorMessage": "Error searching posts",
		})
		return
	}

	viewData := gin.H{
		"results": results,
		"query":   query,
	}
	if identity := auth.Current(c); identity.Authenticated() {
		viewData["name"] = identity.Name
	}
	c.HTML(http.StatusOK, "search_results.html", viewData)
}

func (b *BlogModule) toggleLike(c *gin.Context) {
	id, err := ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid blog ID"})
		return
	}

	likes, err := b.engine.ToggleLike(id, auth.Current(c))
	switch {
	case errors.Is(err, ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login first"})
		return
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog post not found"})
		return
	case err != nil:
		log.Error.Printf("toggling like on post %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"likes": likes})
}
