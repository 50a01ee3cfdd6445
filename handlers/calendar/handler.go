package calendar

import (
	"net/http"
	"time"

	"github.com/Dafi-web/abunearegawi/db"
	"github.com/Dafi-web/abunearegawi/models"
	"github.com/Dafi-web/abunearegawi/utils"

	"github.com/gin-gonic/gin"
)

// @Summary List calendar events
// @Description Retrieve all calendar events, optionally restricted to a start/end range (RFC 3339 timestamps)
// @Tags calendar
// @Produce json
// @Param start query string false "Range start"
// @Param end query string false "Range end"
// @Success 200 {array} models.CalendarEvent
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /calendar [get]
func GetAllEvents(c *gin.Context) {
	query := db.DB.Preload("CreatedBy").Preload("Attendees")

	if start, err := time.Parse(time.RFC3339, c.Query("start")); err == nil {
		query = query.Where("start >= ?", start)
	}
	if end, err := time.Parse(time.RFC3339, c.Query("end")); err == nil {
		query = query.Where("\"end\" <= ?", end)
	}

	var events []models.CalendarEvent
	result := query.Order("start ASC").Find(&events)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}

	c.JSON(http.StatusOK, events)
}

// @Summary Get a calendar event
// @Description Retrieve a single calendar event by its ID
// @Tags calendar
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} models.CalendarEvent
// @Failure 404 {object} map[string]string "error: Event not found"
// @Router /calendar/{id} [get]
func GetEvent(c *gin.Context) {
	var event models.CalendarEvent
	result := db.DB.Preload("CreatedBy").Preload("Attendees").First(&event, "id = ?", c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, event)
}

// @Summary Create a calendar event
// @Description Create a new calendar event (admin only)
// @Tags calendar
// @Accept json
// @Produce json
// @Param event body models.CalendarEventCreate true "Event content"
// @Security BearerAuth
// @Success 201 {object} models.CalendarEvent
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /calendar [post]
func CreateEvent(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CalendarEventCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	event := models.CalendarEvent{
		Title:       input.Title,
		Description: input.Description,
		Start:       input.Start,
		End:         input.End,
		Location:    input.Location,
		CreatedByID: userID.(string),
	}

	if err := db.DB.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the event: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Calendar event created")
	c.JSON(http.StatusCreated, event)
}

// @Summary Update a calendar event
// @Description Update an existing calendar event (admin only)
// @Tags calendar
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param event body models.CalendarEventCreate true "Updated event content"
// @Security BearerAuth
// @Success 200 {object} models.CalendarEvent
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Event not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /calendar/{id} [put]
func UpdateEvent(c *gin.Context) {
	var event models.CalendarEvent
	if err := db.DB.First(&event, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var input models.CalendarEventCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	event.Title = input.Title
	event.Description = input.Description
	event.Start = input.Start
	event.End = input.End
	event.Location = input.Location

	if err := db.DB.Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the event: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, event)
}

// @Summary Delete a calendar event
// @Description Delete a calendar event by its ID (admin only)
// @Tags calendar
// @Produce json
// @Param id path string true "Event ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Event deleted successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Event not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /calendar/{id} [delete]
func DeleteEvent(c *gin.Context) {
	var event models.CalendarEvent
	if err := db.DB.First(&event, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	if err := db.DB.Delete(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting the event: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// @Summary Join a calendar event
// @Description Add the connected user to the event's attendee list
// @Tags calendar
// @Produce json
// @Param id path string true "Event ID"
// @Security BearerAuth
// @Success 200 {object} models.CalendarEvent
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Event or user not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /calendar/{id}/join [post]
func JoinEvent(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var event models.CalendarEvent
	if err := db.DB.Preload("Attendees").First(&event, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	for _, attendee := range event.Attendees {
		if attendee.ID == userID {
			c.JSON(http.StatusOK, event)
			return
		}
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := db.DB.Model(&event).Association("Attendees").Append(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error joining the event: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, event)
}
