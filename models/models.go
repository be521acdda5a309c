// Package models declares the row-mapped entities of the board. The types
// carry field declarations only; behavior lives in the repositories.
//
// Table names are derived by the connection's naming strategy, which applies
// the configured table prefix and singular names (member -> g6_member).
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Config is the singleton site configuration row, read once per request by
// the bootstrap middleware.
type Config struct {
	ID         int    `gorm:"primaryKey;column:id"`
	Title      string `gorm:"type:varchar(255)"`
	Admin      string `gorm:"type:varchar(100)"`
	AdminEmail string `gorm:"type:varchar(100)"`
	Editor     string `gorm:"type:varchar(50)"`

	LoginPoint int
	VisitPoint int

	UseEmailCertify bool

	// Newline separated allow/block lists. Entries are exact IPs or CIDR
	// prefixes.
	PossibleIP  string `gorm:"type:text"`
	InterceptIP string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member is a registered account. MemberID is the public identifier used in
// sessions and auto-login cookies.
type Member struct {
	ID           uint   `gorm:"primaryKey"`
	MemberID     string `gorm:"type:varchar(20);uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255)"`
	Name         string `gorm:"type:varchar(255)"`
	Nick         string `gorm:"type:varchar(255)"`
	Email        string `gorm:"type:varchar(255);index"`
	Level        int    `gorm:"default:1"`
	Point        int    `gorm:"default:0"`

	TodayLogin    time.Time
	LoginIP       string `gorm:"type:varchar(255)"`
	EmailCertify  time.Time
	LeaveDate     string `gorm:"type:varchar(8)"`
	InterceptDate string `gorm:"type:varchar(8)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Group is a board group.
type Group struct {
	GroupID    string `gorm:"type:varchar(10);primaryKey"`
	Subject    string `gorm:"type:varchar(255)"`
	AdminID    string `gorm:"type:varchar(255)"`
	UseAccess  bool
	Order      int
	DeviceType string `gorm:"type:varchar(6);default:both"`
}

// Board is a bulletin board definition. Rows live in a dynamically created
// write table named after BoardTable.
type Board struct {
	BoardTable string `gorm:"type:varchar(20);primaryKey"`
	GroupID    string `gorm:"type:varchar(255);index"`
	Subject    string `gorm:"type:varchar(255)"`
	Skin       string `gorm:"type:varchar(255)"`
	MobileSkin string `gorm:"type:varchar(255)"`

	ListLevel  int `gorm:"default:1"`
	ReadLevel  int `gorm:"default:1"`
	WriteLevel int `gorm:"default:1"`
	ReplyLevel int `gorm:"default:1"`

	CountWrite   int `gorm:"default:0"`
	CountComment int `gorm:"default:0"`

	ReadPoint     int
	WritePoint    int
	CommentPoint  int
	DownloadPoint int
}

// Content is a static content page.
type Content struct {
	ContentID string `gorm:"type:varchar(20);primaryKey"`
	Subject   string `gorm:"type:varchar(255)"`
	Content   string `gorm:"type:text"`
	SkinDir   string `gorm:"type:varchar(255)"`
}

// QaConfig is the singleton Q&A board configuration.
type QaConfig struct {
	ID       int    `gorm:"primaryKey"`
	Title    string `gorm:"type:varchar(255)"`
	Category string `gorm:"type:varchar(255)"`
	SkinDir  string `gorm:"type:varchar(255)"`
	UseEmail bool
	UseSMS   bool
}

// FaqMaster is a FAQ category.
type FaqMaster struct {
	ID      int    `gorm:"primaryKey"`
	Subject string `gorm:"type:varchar(255)"`
	Order   int
}

// Point is an append-only award ledger entry. The related table/id/action
// triple makes an award idempotent per cause.
type Point struct {
	ID       uint   `gorm:"primaryKey"`
	MemberID string `gorm:"type:varchar(20);index"`
	Datetime time.Time
	Content  string `gorm:"type:varchar(255)"`
	Amount   int
	UsePoint int

	RelTable  string `gorm:"type:varchar(20);index:idx_point_rel"`
	RelID     string `gorm:"type:varchar(20);index:idx_point_rel"`
	RelAction string `gorm:"type:varchar(50);index:idx_point_rel"`

	ExpireDate datatypes.Date
	Expired    bool
}

// Visit is an append-only visitor record, created at most once per day per
// distinguishing cookie value.
type Visit struct {
	ID        uint           `gorm:"primaryKey"`
	IP        string         `gorm:"type:varchar(255);index:idx_visit_day"`
	Date      datatypes.Date `gorm:"index:idx_visit_day"`
	Time      time.Time
	Referer   string         `gorm:"type:text"`
	UserAgent string         `gorm:"type:text"`
}

// VisitSum is the per-day visit aggregate the scheduler maintains.
type VisitSum struct {
	Date  datatypes.Date `gorm:"primaryKey"`
	Count int
}

// BoardWrite is the shape of a per-board write table. It is always mapped
// with an explicit table name (write_<board>), never by naming convention.
type BoardWrite struct {
	ID       uint   `gorm:"primaryKey"`
	Num      int    `gorm:"index"`
	Subject  string `gorm:"type:varchar(255)"`
	Content  string `gorm:"type:text"`
	MemberID string `gorm:"type:varchar(20);index"`
	Name     string `gorm:"type:varchar(255)"`
	Password string `gorm:"type:varchar(255)"`
	IP       string `gorm:"type:varchar(255)"`

	Hit      int `gorm:"default:0"`
	IsNotice bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
