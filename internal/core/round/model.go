package round

import "github.com/ixugo/goddd/pkg/orm"

// Round 一局“坚持睁眼”对局记录
// 默认落在内存 sqlite，仅进程内可见
type Round struct {
	ID        string   `gorm:"primaryKey" json:"id"`
	StartedAt orm.Time `gorm:"column:started_at;index" json:"started_at"`
	StoppedAt orm.Time `gorm:"column:stopped_at" json:"stopped_at"`
	// Score 停止时定格的 elapsedSeconds
	Score int `gorm:"column:score" json:"score"`
	// Resets 本局内丢脸清零的次数
	Resets    int      `gorm:"column:resets" json:"resets"`
	CreatedAt orm.Time `gorm:"column:created_at" json:"created_at"`
}

func (*Round) TableName() string {
	return "rounds"
}
