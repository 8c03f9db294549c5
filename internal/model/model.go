package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	Bio          string    `json:"bio"`
	Whatsapp     string    `json:"whatsapp"`
	IsTeacher    bool      `json:"is_teacher"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Class struct {
	ID       int64          `json:"id"`
	Subject  string         `json:"subject"`
	Cost     float64        `json:"cost"`
	UserID   int64          `json:"user_id"`
	Schedule []ScheduleSlot `json:"schedule"`
}

// ScheduleSlot is a weekly window; From and To are minutes since midnight.
type ScheduleSlot struct {
	ID      int64 `json:"id"`
	ClassID int64 `json:"class_id"`
	WeekDay int   `json:"week_day"`
	From    int   `json:"from"`
	To      int   `json:"to"`
}

// ClassFilter selects listing rows. When Filtered is false every teacher
// class is returned and the other fields are ignored.
type ClassFilter struct {
	Filtered bool
	Subject  string
	WeekDay  int
	Time     int
}

// ClassListing is one teacher x class x slot row.
type ClassListing struct {
	ID       int64   `json:"id"`
	ClassID  int64   `json:"class_id"`
	Name     string  `json:"name"`
	Avatar   string  `json:"avatar"`
	Bio      string  `json:"bio"`
	Whatsapp string  `json:"whatsapp"`
	Subject  string  `json:"subject"`
	Cost     float64 `json:"cost"`
	WeekDay  int     `json:"week_day"`
	From     int     `json:"from"`
	To       int     `json:"to"`
}

type RefreshToken struct {
	ID         string
	UserID     int64
	TokenHash  string
	ExpiresAt  time.Time
	Revoked    bool
	ReplacedBy *string
	CreatedAt  time.Time
}
