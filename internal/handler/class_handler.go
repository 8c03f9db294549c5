package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tutor-marketplace-api/internal/middleware"
	"tutor-marketplace-api/internal/model"
	"tutor-marketplace-api/internal/schedule"
)

type scheduleItem struct {
	WeekDay *int   `json:"week_day" binding:"required,min=0,max=6"`
	From    string `json:"from" binding:"required,hhmm"`
	To      string `json:"to" binding:"required,hhmm"`
}

type createClassRequest struct {
	Subject  string         `json:"subject" binding:"required,max=100"`
	Cost     *float64       `json:"cost" binding:"required,min=0"`
	Schedule []scheduleItem `json:"schedule" binding:"required,dive"`
}

// parseFilter reads subject/week_day/time. All three empty means no filter;
// otherwise all three are needed.
func parseFilter(c *gin.Context) (model.ClassFilter, error) {
	subject := c.Query("subject")
	day := c.Query("week_day")
	at := c.Query("time")

	if subject == "" && day == "" && at == "" {
		return model.ClassFilter{}, nil
	}
	if subject == "" || day == "" || at == "" {
		return model.ClassFilter{}, fmt.Errorf("subject, week_day and time must be given together")
	}

	d, err := strconv.Atoi(day)
	if err != nil || !schedule.ValidDay(d) {
		return model.ClassFilter{}, fmt.Errorf("week_day must be between 0 and 6")
	}
	minutes, err := schedule.ToMinutes(at)
	if err != nil {
		return model.ClassFilter{}, fmt.Errorf("time: %w", err)
	}

	return model.ClassFilter{Filtered: true, Subject: subject, WeekDay: d, Time: minutes}, nil
}

func (h *Handler) ListClasses(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	classes, err := h.store.ListClasses(c.Request.Context(), f)
	if err != nil {
		h.internal(c, http.StatusInternalServerError, "unexpected error while listing classes", err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

func (h *Handler) CreateClass(c *gin.Context) {
	var req createClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}

	class := &model.Class{
		Subject:  req.Subject,
		Cost:     *req.Cost,
		UserID:   middleware.UserID(c),
		Schedule: make([]model.ScheduleSlot, 0, len(req.Schedule)),
	}
	for i, item := range req.Schedule {
		// binding already checked the format
		from, _ := schedule.ToMinutes(item.From)
		to, _ := schedule.ToMinutes(item.To)
		if from >= to {
			fail(c, http.StatusBadRequest, fmt.Sprintf("schedule[%d]: from must be before to", i))
			return
		}
		class.Schedule = append(class.Schedule, model.ScheduleSlot{WeekDay: *item.WeekDay, From: from, To: to})
	}

	if err := h.store.CreateClass(c.Request.Context(), class); err != nil {
		h.internal(c, http.StatusBadRequest, "unexpected error while creating a new class", err)
		return
	}
	c.Status(http.StatusCreated)
}

// MyClasses lists the caller's own classes with their slots.
func (h *Handler) MyClasses(c *gin.Context) {
	classes, err := h.store.ClassesByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.internal(c, http.StatusInternalServerError, "unexpected error while listing classes", err)
		return
	}
	c.JSON(http.StatusOK, classes)
}
