package models

// GraphQL view models. Field names line up with the schema via
// graphql-go's UseFieldResolvers; int32 because graphql-go maps Int to
// int32. Dates are RFC3339 strings.

type Chemical struct {
	ID          int32   `json:"id"`
	Name        string  `json:"name"`
	CasNumber   *string `json:"casNumber,omitempty"`
	QrCode      string  `json:"qrCode"`
	Quantity    float64 `json:"quantity"`
	Type        *string `json:"type,omitempty"`
	Restricted  bool    `json:"restricted"`
	GroupID     int32   `json:"groupId"`
	LocationID  *int32  `json:"locationId,omitempty"`
	Supplier    *string `json:"supplier,omitempty"`
	Description *string `json:"description,omitempty"`
	SubLocation *string `json:"subLocation,omitempty"`
}

type ChemicalPage struct {
	Items      []*Chemical `json:"items"`
	TotalCount int32       `json:"totalCount"`
}

type Location struct {
	ID            int32  `json:"id"`
	BuildingCode  string `json:"buildingCode"`
	BuildingName  string `json:"buildingName"`
	Room          string `json:"room"`
	QrCode        string `json:"qrCode"`
	ChemicalCount int32  `json:"chemicalCount"`
}

type AuditRound struct {
	ID            int32            `json:"id"`
	Round         int32            `json:"round"`
	AuditorID     int32            `json:"auditorId"`
	Status        string           `json:"status"`
	StartDate     string           `json:"startDate"`
	LastAuditDate string           `json:"lastAuditDate"`
	PendingCount  int32            `json:"pendingCount"`
	FinishedCount int32            `json:"finishedCount"`
	Audits        []*LocationAudit `json:"audits"`
}

type LocationAudit struct {
	ID            int32          `json:"id"`
	LocationID    int32          `json:"locationId"`
	Round         int32          `json:"round"`
	Status        string         `json:"status"`
	ScanState     string         `json:"scanState"`
	StartDate     string         `json:"startDate"`
	LastAuditDate string         `json:"lastAuditDate"`
	PendingCount  int32          `json:"pendingCount"`
	FinishedCount int32          `json:"finishedCount"`
	Notes         *string        `json:"notes,omitempty"`
	Records       []*AuditRecord `json:"records"`
}

type AuditRecord struct {
	ID            int32   `json:"id"`
	ChemicalID    int32   `json:"chemicalId"`
	LocationID    int32   `json:"locationId"`
	Status        string  `json:"status"`
	AuditDate     string  `json:"auditDate"`
	LastAuditDate string  `json:"lastAuditDate"`
	Notes         *string `json:"notes,omitempty"`
}
