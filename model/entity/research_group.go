package entity

// ResearchGroup represents the research_group table. Every chemical is
// owned by exactly one group.
type ResearchGroup struct {
	GroupID uint   `gorm:"column:group_id;primaryKey;autoIncrement" json:"group_id,omitempty"`
	Name    string `gorm:"column:name;type:varchar(128);not null;uniqueIndex" json:"name"`
	Leader  string `gorm:"column:leader;type:varchar(128)" json:"leader"`
}

func (ResearchGroup) TableName() string {
	return "research_group"
}
