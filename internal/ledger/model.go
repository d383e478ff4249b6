package ledger

import (
	"time"

	"gorm.io/datatypes"
)

// Models lists the tables the ledger migrates.
var Models = []interface{}{
	&Run{},
	&Registration{},
}

// Run is one successful invocation that wrote the main scene.
type Run struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	StartedAt time.Time      `json:"startedAt" gorm:"index"`
	Document  string         `json:"document"`
	Cars      datatypes.JSON `json:"cars"`
	Added     int            `json:"added"`

	Registrations []Registration `json:"registrations" gorm:"foreignKey:RunID"`
}

func (*Run) TableName() string {
	return "runs"
}

// Registration records what one car name resolved to in a run.
type Registration struct {
	ID           uint      `json:"id" gorm:"primarykey;autoIncrement"`
	RunID        string    `json:"runId" gorm:"index;size:36"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index"`
	Name         string    `json:"name" gorm:"index;size:128"`
	ResourceID   string    `json:"resourceId" gorm:"size:64"`
	DisplayName  string    `json:"displayName" gorm:"size:128"`
	ScenePath    string    `json:"scenePath"`
	SceneCreated bool      `json:"sceneCreated"`
	Declared     bool      `json:"declared"` // a new ext_resource line was written
}

func (*Registration) TableName() string {
	return "registrations"
}
