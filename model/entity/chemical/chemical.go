package chemical

import "time"

// Chemical represents the chemical table. A chemical sits in at most
// one location; LocationID is nil for unlocated stock. AuditStatus and
// LastAudit are legacy columns superseded by the audit_record table
// and kept only for UI backward compatibility.
type Chemical struct {
	ChemicalID  uint       `gorm:"column:chemical_id;primaryKey;autoIncrement" json:"chemical_id,omitempty"`
	Name        string     `gorm:"column:name;type:varchar(255);not null" json:"name"`
	CASNumber   string     `gorm:"column:cas_number;type:varchar(32)" json:"cas_number"`
	QRCode      string     `gorm:"column:qr_code;type:varchar(32);not null;uniqueIndex" json:"qr_code"`
	Quantity    float64    `gorm:"column:quantity;type:decimal(12,4);not null;default:0" json:"quantity"`
	Type        string     `gorm:"column:type;type:varchar(64)" json:"type"`
	Restricted  bool       `gorm:"column:restricted;not null;default:0" json:"restricted"`
	GroupID     uint       `gorm:"column:group_id;not null;index" json:"group_id"`
	LocationID  *uint      `gorm:"column:location_id;index" json:"location_id,omitempty"`
	Supplier    string     `gorm:"column:supplier;type:varchar(128)" json:"supplier"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	SubLocation string     `gorm:"column:sub_location;type:varchar(128)" json:"sub_location"`
	AuditStatus string     `gorm:"column:audit_status;type:varchar(16)" json:"audit_status"`
	LastAudit   *time.Time `gorm:"column:last_audit" json:"last_audit,omitempty"`
}

func (Chemical) TableName() string {
	return "chemical"
}
