package posts

import (
	"net/http"

	"github.com/Dafi-web/abunearegawi/db"
	"github.com/Dafi-web/abunearegawi/models"
	"github.com/Dafi-web/abunearegawi/utils"

	"github.com/gin-gonic/gin"
)

// @Summary List all posts
// @Description Retrieve all posts, optionally filtered by type (event, learning, bible, song)
// @Tags posts
// @Produce json
// @Param type query string false "Post type filter"
// @Success 200 {array} models.Post
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts [get]
func GetAllPosts(c *gin.Context) {
	query := db.DB.Preload("Author")
	if postType := c.Query("type"); postType != "" {
		query = query.Where("type = ?", postType)
	}

	var posts []models.Post
	result := query.Order("created_at DESC").Find(&posts)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// @Summary Get a post
// @Description Retrieve a single post by its ID
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} map[string]string "error: Post not found"
// @Router /posts/{id} [get]
func GetPost(c *gin.Context) {
	var post models.Post
	result := db.DB.Preload("Author").First(&post, "id = ?", c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// @Summary Create a post
// @Description Create a new post (admin only)
// @Tags posts
// @Accept json
// @Produce json
// @Param post body models.PostCreate true "Post content"
// @Security BearerAuth
// @Success 201 {object} models.Post
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts [post]
func CreatePost(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.PostCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	post := models.Post{
		Title:        input.Title,
		Content:      input.Content,
		Type:         input.Type,
		AuthorID:     userID.(string),
		Image:        input.Image,
		Video:        input.Video,
		VideoType:    input.VideoType,
		Featured:     input.Featured,
		EventDate:    input.EventDate,
		EventEndDate: input.EventEndDate,
		Location:     input.Location,
	}

	if err := db.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the post: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Post created")
	c.JSON(http.StatusCreated, post)
}

// @Summary Update a post
// @Description Update an existing post (admin only)
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param post body models.PostCreate true "Updated post content"
// @Security BearerAuth
// @Success 200 {object} models.Post
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts/{id} [put]
func UpdatePost(c *gin.Context) {
	var post models.Post
	if err := db.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var input models.PostCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	post.Title = input.Title
	post.Content = input.Content
	post.Type = input.Type
	post.Image = input.Image
	post.Video = input.Video
	post.VideoType = input.VideoType
	post.Featured = input.Featured
	post.EventDate = input.EventDate
	post.EventEndDate = input.EventEndDate
	post.Location = input.Location

	if err := db.DB.Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the post: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, post)
}

// @Summary Delete a post
// @Description Delete a post by its ID (admin only)
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Post deleted successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts/{id} [delete]
func DeletePost(c *gin.Context) {
	var post models.Post
	if err := db.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if err := db.DB.Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting the post: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// @Summary Upload a post image
// @Description Upload an image to Cloudinary and return its URL (admin only)
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Security BearerAuth
// @Success 200 {object} map[string]string "imageUrl: Cloudinary URL"
// @Failure 400 {object} map[string]string "error: No image file uploaded"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Upload error"
// @Router /posts/upload-image [post]
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file uploaded"})
		return
	}

	url, err := utils.UploadImage(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}

// @Summary Upload a post video
// @Description Upload a video to Cloudinary and return its URL (admin only)
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Param video formData file true "Video file"
// @Security BearerAuth
// @Success 200 {object} map[string]string "videoUrl: Cloudinary URL"
// @Failure 400 {object} map[string]string "error: No video file uploaded"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Upload error"
// @Router /posts/upload-video [post]
func UploadVideo(c *gin.Context) {
	file, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No video file uploaded"})
		return
	}

	url, err := utils.UploadVideo(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"videoUrl": url})
}
