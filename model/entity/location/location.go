package location

// Location represents the location table. The QR code identifies the
// room label scanned at the door; it shares one namespace with
// chemical QR codes (format XXX-XXXX is a UI concern, not enforced here).
type Location struct {
	LocationID   uint   `gorm:"column:location_id;primaryKey;autoIncrement" json:"location_id,omitempty"`
	BuildingCode string `gorm:"column:building_code;type:varchar(16);not null" json:"building_code"`
	BuildingName string `gorm:"column:building_name;type:varchar(128);not null;index:idx_building_room" json:"building_name"`
	Room         string `gorm:"column:room;type:varchar(32);not null;index:idx_building_room" json:"room"`
	QRCode       string `gorm:"column:qr_code;type:varchar(32);not null;uniqueIndex" json:"qr_code"`
}

func (Location) TableName() string {
	return "location"
}
