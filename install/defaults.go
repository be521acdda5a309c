package install

import (
	"github.com/gnuboard/goboard/models"
)

// Version reported by the installer pages and the final success event.
const Version = "goboard 1.0"

const defaultGroupID = "community"

// defaultConfig is the seed configuration row. Admin id and email are filled
// from the installation form.
var defaultConfig = models.Config{
	ID:         1,
	Title:      "goboard",
	Editor:     "textarea",
	LoginPoint: 100,
	VisitPoint: 0,
}

// defaultAdmin carries the fixed fields of the seeded super admin account.
var defaultAdmin = models.Member{
	Level: 10,
}

var defaultContents = []models.Content{
	{ContentID: "company", Subject: "About us", Content: "<p>About us.</p>"},
	{ContentID: "provision", Subject: "Terms of service", Content: "<p>Terms of service.</p>"},
	{ContentID: "privacy", Subject: "Privacy policy", Content: "<p>Privacy policy.</p>"},
}

var defaultQaConfig = models.QaConfig{
	ID:       1,
	Title:    "Q&A",
	Category: "member|board",
	SkinDir:  "basic",
}

var defaultFaqMaster = models.FaqMaster{
	ID:      1,
	Subject: "FAQ",
	Order:   1,
}

var defaultGroup = models.Group{
	GroupID:    defaultGroupID,
	Subject:    "Community",
	DeviceType: "both",
}

// defaultBoards are created at install time, each with its own write table.
var defaultBoards = []models.Board{
	{BoardTable: "free", Subject: "Free board"},
	{BoardTable: "gallery", Subject: "Gallery"},
	{BoardTable: "notice", Subject: "Notice"},
	{BoardTable: "qa", Subject: "Q&A"},
}

// defaultBoardData is merged into every seeded board.
var defaultBoardData = models.Board{
	GroupID:    defaultGroupID,
	Skin:       "basic",
	MobileSkin: "basic",
	ListLevel:  1,
	ReadLevel:  1,
	WriteLevel: 1,
	ReplyLevel: 1,
}

const (
	defaultDataDirectory  = "data"
	defaultCacheDirectory = "data/cache"
)
