package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"inkwell/auth"
	"inkwell/blog"
	"inkwell/log"
	"inkwell/models"
	"inkwell/token"
)

// AdminModule carries the account flows around the core: the home feed,
// registration, login/logout and the admin's user management screens.
type AdminModule struct {
	db     *gorm.DB
	tokens *token.Service
	store  *blog.Store
}

func NewAdminModule(db *gorm.DB, tokens *token.Service) *AdminModule {
	return &AdminModule{
		db:     db,
		tokens: tokens,
		store:  blog.NewStore(db),
	}
}

func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", a.home)
	router.GET("/register", a.registerPage)
	router.POST("/register", a.registerPost)
	router.GET("/login", a.loginPage)
	router.POST("/login", a.loginPost)
	router.GET("/logout", a.logout)

	adminGroup := router.Group("/admin")
	adminGroup.Use(auth.RequireRoles(models.RoleAdmin))
	{
		adminGroup.GET("", a.listUsers)
		adminGroup.GET("/edit/:id", a.editUser)
		adminGroup.POST("/edit/:id", a.updateUser)
		adminGroup.GET("/delete/:id", a.deleteUser)
	}

	router.GET("/settings", auth.RequireRoles(models.RoleAdmin), a.settings)
}

func (a *AdminModule) home(c *gin.Context) {
	posts, err := a.store.PublicPosts()
	if err != nil {
		log.Error.Printf("loading home feed: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"errorCode":    http.StatusInternalServerError,
			"errorTitle":   "Internal Server Error",
			"errorMessage": "Something went wrong on our end. We are working on it!",
		})
		return
	}

	identity := auth.Current(c)
	if identity.Authenticated() {
		c.HTML(http.StatusOK, "home.html", gin.H{
			"role":    identity.Role,
			"allData": posts,
			"name":    identity.Name,
			"title":   "Home Page",
		})
		return
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"role":    "Guest",
		"allData": posts,
		"title":   "Home Page",
	})
}

func (a *AdminModule) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"title": "Register Page"})
}

func (a *AdminModule) registerPost(c *gin.Context) {
	fullName := c.PostForm("fullName")
	email := c.PostForm("email")
	password := c.PostForm("password")

	if fullName == "" || email == "" || password == "" {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"title": "Register Page",
			"error": "All fields are required",
		})
		return
	}

	var existing models.User
	if err := a.db.Where("email = ?", email).First(&existing).Error; err == nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"title": "Register Page",
			"error": "Email is already in use",
		})
		return
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		log.Error.Printf("hashing password: %v", err)
		c.HTML(http.StatusInternalServerError, "register.html", gin.H{
			"title": "Register Page",
			"error": "Error creating account",
		})
		return
	}

	user := models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
	}
	if err := a.db.Create(&user).Error; err != nil {
		log.Error.Printf("creating user: %v", err)
		c.HTML(http.StatusInternalServerError, "register.html", gin.H{
			"title": "Register Page",
			"error": "Error creating account",
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (a *AdminModule) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"title": "Login Page"})
}

func (a *AdminModule) loginPost(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"error": "incorrect email or password",
			"email": email,
		})
		return
	}

	if !checkPasswordHash(password, user.PasswordHash) {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"error": "incorrect email or password",
			"email": email,
		})
		return
	}

	raw, err := a.tokens.Issue(user)
	if err != nil {
		log.Error.Printf("issuing token for %s: %v", user.Email, err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"error": "something went wrong, try again",
		})
		return
	}

	c.SetCookie(auth.CookieName, raw, int(token.TokenLifetime.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (a *AdminModule) logout(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (a *AdminModule) listUsers(c *gin.Context) {
	var users []models.User
	if err := a.db.Find(&users).Error; err != nil {
		log.Error.Printf("listing users: %v", err)
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"users": users,
		"name":  auth.Current(c).Name,
	})
}

func (a *AdminModule) editUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := a.db.First(&user, id).Error; err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"errorCode":    http.StatusNotFound,
			"errorTitle":   "Page Not Found",
			"errorMessage": "User not found",
		})
		return
	}

	c.HTML(http.StatusOK, "edit_user.html", gin.H{"user": user})
}

func (a *AdminModule) updateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := a.db.First(&user, id).Error; err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"errorCode":    http.StatusNotFound,
			"errorTitle":   "Page Not Found",
			"errorMessage": "User not found",
		})
		return
	}

	user.FullName = c.PostForm("name")
	user.Email = c.PostForm("email")

	if password := c.PostForm("password"); password != "" {
		passwordHash, err := hashPassword(password)
		if err != nil {
			log.Error.Printf("hashing password: %v", err)
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{
				"errorCode":    http.StatusInternalServerError,
				"errorTitle":   "Internal Server Error",
				"errorMessage": "An error occurred while updating the user",
			})
			return
		}
		user.PasswordHash = passwordHash
	}

	if err := a.db.Save(&user).Error; err != nil {
		log.Error.Printf("updating user %d: %v", id, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"errorCode":    http.StatusInternalServerError,
			"errorTitle":   "Internal Server Error",
			"errorMessage": "An error occurred while updating the user",
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

func (a *AdminModule) deleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := a.db.First(&user, id).Error; err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"errorCode":    http.StatusNotFound,
			"errorTitle":   "Page Not Found",
			"errorMessage": "User not found",
		})
		return
	}

	if err := a.db.Delete(&user).Error; err != nil {
		log.Error.Printf("deleting user %d: %v", id, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"errorCode":    http.StatusInternalServerError,
			"errorTitle":   "Internal Server Error",
			"errorMessage": "An error occurred while deleting the user",
		})
		return
	}

	c.HTML(http.StatusOK, "delete_user.html", gin.H{"user": user})
}

func (a *AdminModule) settings(c *gin.Context) {
	c.HTML(http.StatusOK, "settings.html", gin.H{
		"user": auth.Current(c),
	})
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
